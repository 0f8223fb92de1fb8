package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-reviewer/internal/llm"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// fakeClient returns canned responses and records the prompts it received
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestReviewer_Review(t *testing.T) {
	client := &fakeClient{
		response: `{
			"overall_summary": "良い内容です",
			"overall_score": 70,
			"sections": [{"section_id": "section-2", "revised_text": "改善版の文章"}]
		}`,
	}
	reviewer := NewReviewer(client, nil)

	result, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{
			{Text: "   "},
			{Text: "私はエンジニアです。"},
		},
		Options: types.StyleOptions{Tone: types.ToneKeigo, Language: types.LanguageJA},
	})
	require.NoError(t, err)

	// Blank input section was dropped; the surviving one got positional ids
	require.Len(t, result.Sections, 1)
	assert.Equal(t, "section-2", result.Sections[0].ID)
	assert.Equal(t, "セクション2", result.Sections[0].Title)

	assert.Equal(t, "良い内容です", result.Review.OverallSummary)
	require.Len(t, result.Review.Sections, 1)
	assert.Equal(t, "改善版の文章", result.Review.Sections[0].RevisedText)

	// The prompt carried the sanitized sections, not the raw input
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "section-2")
}

func TestReviewer_Review_EmptyInput(t *testing.T) {
	reviewer := NewReviewer(&fakeClient{}, nil)

	_, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{{Text: "  "}, {Text: "\n"}},
	})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReviewer_Review_APIError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	reviewer := NewReviewer(client, nil)

	_, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{{Text: "text"}},
	})
	require.Error(t, err)

	var apiErr *APICallError
	require.True(t, errors.As(err, &apiErr))
	assert.ErrorContains(t, apiErr, "quota exceeded")
}

func TestReviewer_Review_EmptyServiceResponse(t *testing.T) {
	reviewer := NewReviewer(&fakeClient{response: "   "}, nil)

	_, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{{Text: "text"}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestReviewer_Review_GarbledResponse(t *testing.T) {
	reviewer := NewReviewer(&fakeClient{response: "not json at all"}, nil)

	_, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{{Text: "text"}},
	})
	require.Error(t, err)

	var parseErr *UnparsableResponseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestReviewer_Review_ReplaysAnsweredFollowUps(t *testing.T) {
	client := &fakeClient{response: `{"overall_summary": "ok", "sections": []}`}
	reviewer := NewReviewer(client, nil)

	_, err := reviewer.Review(context.Background(), Request{
		Sections: []types.RawSection{{Text: "text"}},
		Answered: []types.AnsweredFollowUp{{ID: "q1", Answer: "5人チーム"}},
	})
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "- [q1] 5人チーム")
}
