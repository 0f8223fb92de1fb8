package review

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/prompts"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// Directive lookup tables. Each enumerated style field maps to one fixed
// natural-language sentence; directives are static, never generated.
var toneDirectives = map[types.Tone]string{
	types.ToneKeigo:    "文章全体を丁寧な敬語（です・ます調）で書き直してください。",
	types.ToneFutsukei: "文章全体を簡潔な常体（だ・である調）で書き直してください。",
	types.ToneBusiness: "ビジネス文書として適切な、礼儀正しく簡潔な文体で書き直してください。",
	types.ToneCasual:   "親しみやすいカジュアルな文体で書き直してください。",
}

var writingStyleDirectives = map[types.WritingStyle]string{
	types.StyleFormal:  "形式的で論理的な構成を優先してください。",
	types.StyleNeutral: "中立的で読みやすい構成にしてください。",
	types.StyleStory:   "STAR（状況・課題・行動・結果）を意識したストーリー仕立てにしてください。",
}

var honorificDirectives = map[types.Honorific]string{
	types.HonorificStandard:   "標準的な敬語レベルを維持してください。",
	types.HonorificRespectful: "より丁寧な敬語レベルに引き上げてください。",
	types.HonorificNone:       "敬称や過度な敬語は使わないでください。",
}

var audienceDirectives = map[types.Audience]string{
	types.AudienceInternal: "社内の採用担当者が読む前提で書いてください。",
	types.AudienceExternal: "社外の採用担当者・面接官が読む前提で書いてください。",
}

var languageDirectives = map[types.Language]string{
	types.LanguageJA: "フィードバックと書き直しはすべて日本語で出力してください。",
	types.LanguageEN: "Write all feedback and revised text in English.",
}

// ComposeDirectives maps the enumerated style options to their fixed
// directive sentences. Unrecognized values contribute no directive rather
// than guessing.
func ComposeDirectives(opts types.StyleOptions) []string {
	directives := make([]string, 0, 5)
	if d, ok := toneDirectives[opts.Tone]; ok {
		directives = append(directives, d)
	}
	if d, ok := writingStyleDirectives[opts.WritingStyle]; ok {
		directives = append(directives, d)
	}
	if d, ok := honorificDirectives[opts.Honorific]; ok {
		directives = append(directives, d)
	}
	if d, ok := audienceDirectives[opts.Audience]; ok {
		directives = append(directives, d)
	}
	if d, ok := languageDirectives[opts.Language]; ok {
		directives = append(directives, d)
	}
	return directives
}

// BuildReviewPrompt assembles the full generation request: the review
// preamble with rubric and output-shape template, the style directives, the
// section payload, optional company context, and previously answered
// follow-up questions so the service does not re-ask them verbatim.
//
// The output-shape template nudges the service toward compliance, but
// compliance is never assumed; see ParseReviewResult.
func BuildReviewPrompt(sections []types.Section, opts types.StyleOptions, companyContext string, answered []types.AnsweredFollowUp) (string, error) {
	template := prompts.MustGet("review.json", "review-sections")

	payload, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal section payload: %w", err)
	}

	return prompts.Format(template, map[string]string{
		"Directives":        renderDirectives(ComposeDirectives(opts)),
		"Sections":          string(payload),
		"CompanyContext":    renderCompanyContext(companyContext),
		"AnsweredFollowUps": renderAnsweredFollowUps(answered),
	}), nil
}

func renderDirectives(directives []string) string {
	if len(directives) == 0 {
		return "- （スタイル指定なし）"
	}
	var sb strings.Builder
	for i, d := range directives {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(d)
	}
	return sb.String()
}

func renderCompanyContext(companyContext string) string {
	companyContext = strings.TrimSpace(companyContext)
	if companyContext == "" {
		return "（指定なし）"
	}
	return companyContext
}

func renderAnsweredFollowUps(answered []types.AnsweredFollowUp) string {
	if len(answered) == 0 {
		return "（なし）"
	}
	var sb strings.Builder
	for i, a := range answered {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s", a.ID, a.Answer))
	}
	return sb.String()
}
