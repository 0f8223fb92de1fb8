// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// formatScore renders a 0-100 score, or a dash when not evaluated
func formatScore(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d/100", *score)
}

// PrintReviewResult outputs a human-readable summary of the whole review.
func (p *Printer) PrintReviewResult(result *types.ReviewResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %s\n", formatScore(result.OverallScore)))
	if result.OverallSummary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", result.OverallSummary))
	}
	sb.WriteString("\n")

	count := min(len(result.Sections), maxItemsToShow)
	for i := 0; i < count; i++ {
		section := result.Sections[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, section.SectionTitle))
		sb.WriteString(fmt.Sprintf("    Score: %s\n", formatScore(section.Score)))
		if section.Summary != "" {
			summary := section.Summary
			if len(summary) > 45 {
				summary = summary[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", summary))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(result.Sections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more sections", len(result.Sections)-maxItemsToShow))
	}

	p.printBox("REVIEW RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCategoryFeedback outputs per-category critiques for one section.
func (p *Printer) PrintCategoryFeedback(section *types.SectionFeedback) {
	if section == nil || len(section.Categories) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Section: %s\n\n", section.SectionTitle))

	count := min(len(section.Categories), maxItemsToShow)
	for i := 0; i < count; i++ {
		category := section.Categories[i]
		sb.WriteString(fmt.Sprintf("• %s [%s]\n", category.Label, category.Priority))
		if category.Comment != "" {
			comment := category.Comment
			if len(comment) > 48 {
				comment = comment[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", comment))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(section.Categories) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more categories", len(section.Categories)-maxItemsToShow))
	}

	p.printBox("CATEGORY FEEDBACK", sb.String())
}

// PrintStyleCompliance outputs whether the revision honored the style contract.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStyleCompliance(compliance *types.StyleCompliance) {
	if compliance == nil {
		return
	}

	if compliance.Matched {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ STYLE CONTRACT HONORED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString("⚠ Revision deviates from the requested style\n")
	if compliance.Notes != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", compliance.Notes))
	}

	p.printBox("STYLE COMPLIANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFollowUps outputs the pending clarification questions.
func (p *Printer) PrintFollowUps(questions []types.FollowUpQuestion) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d question(s) pending:\n\n", len(questions)))

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := questions[i]
		question := q.Question
		if len(question) > 48 {
			question = question[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("• [%s] %s\n", q.ID, question))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more questions", len(questions)-maxItemsToShow))
	}

	p.printBox("FOLLOW-UP QUESTIONS", sb.String())
}

// PrintRevisedSections outputs the revised text proposed for each section.
func (p *Printer) PrintRevisedSections(sections []types.SectionFeedback) {
	if len(sections) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(sections), maxItemsToShow)
	for i := 0; i < count; i++ {
		section := sections[i]
		text := section.RevisedText
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", section.SectionTitle))
		sb.WriteString(fmt.Sprintf("  %s\n", text))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(sections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more sections", len(sections)-maxItemsToShow))
	}

	p.printBox("REVISED SECTIONS", sb.String())
}
