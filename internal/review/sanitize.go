package review

import (
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// SanitizeSections normalizes raw free-text blocks into canonical sections.
// Each input gets a fallback id ("section-N") if missing and a fallback title
// ("セクションN") if blank; text is trimmed and sections whose trimmed text is
// empty are dropped before submission.
//
// Pure and idempotent: sanitizing an already-sanitized list is a no-op.
func SanitizeSections(raw []types.RawSection) []types.Section {
	sections := make([]types.Section, 0, len(raw))
	for i, r := range raw {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}

		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}

		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = fmt.Sprintf("セクション%d", i+1)
		}

		sections = append(sections, types.Section{
			ID:    id,
			Title: title,
			Text:  text,
		})
	}
	return sections
}
