package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

func intPtr(v int) *int { return &v }

func TestPrintReviewResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.ReviewResult{
		OverallSummary: "全体として良い構成です",
		OverallScore:   intPtr(78),
		Sections: []types.SectionFeedback{
			{
				SectionID:    "s1",
				SectionTitle: "自己紹介",
				Summary:      "簡潔で読みやすい",
				Score:        intPtr(80),
			},
			{
				SectionID:    "s2",
				SectionTitle: "プロジェクト",
				Score:        nil,
			},
		},
	}

	p.PrintReviewResult(result)
	output := buf.String()

	assert.Contains(t, output, "REVIEW RESULT")
	assert.Contains(t, output, "78/100")
	assert.Contains(t, output, "自己紹介")
	assert.Contains(t, output, "80/100")
	assert.Contains(t, output, "Score: -", "unevaluated section renders a dash")
}

func TestPrintReviewResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReviewResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCategoryFeedback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	section := &types.SectionFeedback{
		SectionTitle: "職務経歴",
		Categories: []types.CategoryFeedback{
			{
				ID:       types.CategoryQuantitative,
				Label:    "定量性",
				Comment:  "成果に数値がありません",
				Priority: types.PriorityHigh,
			},
			{
				ID:       types.CategoryClarity,
				Label:    "わかりやすさ",
				Priority: types.PriorityLow,
			},
		},
	}

	p.PrintCategoryFeedback(section)
	output := buf.String()

	assert.Contains(t, output, "CATEGORY FEEDBACK")
	assert.Contains(t, output, "職務経歴")
	assert.Contains(t, output, "定量性")
	assert.Contains(t, output, "high")
}

func TestPrintCategoryFeedback_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCategoryFeedback(&types.SectionFeedback{SectionTitle: "empty"})

	assert.Empty(t, buf.String())
}

func TestPrintStyleCompliance_Matched(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStyleCompliance(&types.StyleCompliance{Matched: true})

	assert.Contains(t, buf.String(), "STYLE CONTRACT HONORED")
}

func TestPrintStyleCompliance_Deviation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStyleCompliance(&types.StyleCompliance{
		Matched: false,
		Notes:   "一部カジュアルな表現が残っています",
	})

	output := buf.String()
	assert.Contains(t, output, "STYLE COMPLIANCE")
	assert.Contains(t, output, "deviates")
}

func TestPrintFollowUps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	questions := []types.FollowUpQuestion{
		{ID: "q1", SectionID: "s1", Question: "チーム規模を教えてください"},
		{ID: "q2", SectionID: "s2", Question: "期間はどのくらいでしたか"},
	}

	p.PrintFollowUps(questions)
	output := buf.String()

	assert.Contains(t, output, "FOLLOW-UP QUESTIONS")
	assert.Contains(t, output, "q1")
	assert.Contains(t, output, "2 question(s) pending")
}

func TestPrintFollowUps_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFollowUps(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRevisedSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	sections := []types.SectionFeedback{
		{SectionTitle: "自己紹介", RevisedText: "私は3年間バックエンド開発に従事してきました。"},
	}

	p.PrintRevisedSections(sections)
	output := buf.String()

	assert.Contains(t, output, "REVISED SECTIONS")
	assert.Contains(t, output, "自己紹介")
}
