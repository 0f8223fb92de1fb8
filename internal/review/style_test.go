package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

func TestComposeDirectives_AllOptions(t *testing.T) {
	opts := types.StyleOptions{
		Tone:         types.ToneKeigo,
		WritingStyle: types.StyleStory,
		Honorific:    types.HonorificRespectful,
		Audience:     types.AudienceExternal,
		Language:     types.LanguageJA,
	}

	directives := ComposeDirectives(opts)
	require.Len(t, directives, 5)
	assert.Contains(t, directives[0], "敬語")
	assert.Contains(t, directives[1], "STAR")
}

func TestComposeDirectives_UnknownValuesContributeNothing(t *testing.T) {
	opts := types.StyleOptions{
		Tone:     types.Tone("sarcastic"),
		Language: types.LanguageEN,
	}

	directives := ComposeDirectives(opts)
	require.Len(t, directives, 1)
	assert.Contains(t, directives[0], "English")
}

func TestComposeDirectives_Empty(t *testing.T) {
	assert.Empty(t, ComposeDirectives(types.StyleOptions{}))
}

func TestBuildReviewPrompt(t *testing.T) {
	sections := []types.Section{
		{ID: "s1", Title: "自己紹介", Text: "私はエンジニアです。"},
	}
	opts := types.StyleOptions{
		Tone:     types.ToneBusiness,
		Language: types.LanguageJA,
	}

	prompt, err := BuildReviewPrompt(sections, opts, "株式会社Example: バックエンドエンジニア募集", nil)
	require.NoError(t, err)

	// Section payload is embedded as JSON
	assert.Contains(t, prompt, `"s1"`)
	assert.Contains(t, prompt, "私はエンジニアです。")

	// Style directives and company context are rendered in
	assert.Contains(t, prompt, "ビジネス文書")
	assert.Contains(t, prompt, "株式会社Example")

	// No answered follow-ups yet
	assert.Contains(t, prompt, "（なし）")

	// No unexpanded placeholders remain
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildReviewPrompt_AnsweredFollowUps(t *testing.T) {
	sections := []types.Section{{ID: "s1", Title: "t", Text: "text"}}
	answered := []types.AnsweredFollowUp{
		{ID: "q1", Answer: "5人チームでした"},
		{ID: "q2", Answer: "（回答をスキップ）"},
	}

	prompt, err := BuildReviewPrompt(sections, types.StyleOptions{}, "", answered)
	require.NoError(t, err)

	assert.Contains(t, prompt, "- [q1] 5人チームでした")
	assert.Contains(t, prompt, "- [q2] （回答をスキップ）")
	assert.Contains(t, prompt, "（指定なし）", "empty company context renders the placeholder")
}

func TestBuildReviewPrompt_NoStyleOptions(t *testing.T) {
	sections := []types.Section{{ID: "s1", Title: "t", Text: "text"}}

	prompt, err := BuildReviewPrompt(sections, types.StyleOptions{}, "", nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "（スタイル指定なし）")
}

func TestRenderDirectives_BulletPerDirective(t *testing.T) {
	rendered := renderDirectives([]string{"one", "two"})
	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- one", lines[0])
	assert.Equal(t, "- two", lines[1])
}
