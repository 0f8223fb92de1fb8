package review

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// The raw* types mirror the expected response shape with every leaf field
// untyped. The generation service is an untrusted collaborator: nothing it
// returns is used before passing through a normalize function.
type rawReviewResult struct {
	OverallSummary    json.RawMessage       `json:"overall_summary"`
	OverallScore      json.RawMessage       `json:"overall_score"`
	Sections          []rawSectionFeedback  `json:"sections"`
	Suggestions       []json.RawMessage     `json:"suggestions"`
	StyleCompliance   *rawStyleCompliance   `json:"style_compliance"`
	FollowUpQuestions []rawFollowUpQuestion `json:"follow_up_questions"`
}

type rawSectionFeedback struct {
	SectionID    json.RawMessage       `json:"section_id"`
	SectionTitle json.RawMessage       `json:"section_title"`
	Summary      json.RawMessage       `json:"summary"`
	Score        json.RawMessage       `json:"score"`
	RevisedText  json.RawMessage       `json:"revised_text"`
	Categories   []rawCategoryFeedback `json:"categories"`
}

type rawCategoryFeedback struct {
	ID         json.RawMessage `json:"id"`
	Label      json.RawMessage `json:"label"`
	Comment    json.RawMessage `json:"comment"`
	Suggestion json.RawMessage `json:"suggestion"`
	Example    json.RawMessage `json:"example"`
	Priority   json.RawMessage `json:"priority"`
}

type rawStyleCompliance struct {
	Matched json.RawMessage `json:"matched"`
	Notes   json.RawMessage `json:"notes"`
}

type rawFollowUpQuestion struct {
	ID              json.RawMessage `json:"id"`
	SectionID       json.RawMessage `json:"section_id"`
	Question        json.RawMessage `json:"question"`
	Reason          json.RawMessage `json:"reason"`
	MissingInfoHint json.RawMessage `json:"missing_info_hint"`
}

// ParseReviewResult extracts a validated ReviewResult from the generation
// service's raw text output. The sanitized input sections provide the
// fallback revision text when the service omits or blanks revised_text.
//
// Parsing failures are fatal to the review attempt: no partial or garbled
// result is ever returned.
func ParseReviewResult(rawText string, sections []types.Section) (*types.ReviewResult, error) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return nil, ErrEmptyResponse
	}

	var raw rawReviewResult
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		// The service often wraps its JSON in prose. Fall back to the first
		// balanced {...} span before giving up.
		span, ok := extractJSONSpan(trimmed)
		if !ok {
			return nil, &UnparsableResponseError{Cause: err}
		}
		if spanErr := json.Unmarshal([]byte(span), &raw); spanErr != nil {
			return nil, &UnparsableResponseError{Cause: spanErr}
		}
	}

	return normalizeReviewResult(&raw, sections), nil
}

// extractJSONSpan returns the first balanced {...} span in text, tracking
// string literals and escapes so braces inside strings do not miscount.
func extractJSONSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// normalizeReviewResult validates and normalizes the untrusted decode output
func normalizeReviewResult(raw *rawReviewResult, sections []types.Section) *types.ReviewResult {
	sectionsByID := make(map[string]types.Section, len(sections))
	for _, s := range sections {
		sectionsByID[s.ID] = s
	}

	result := &types.ReviewResult{
		OverallSummary: asString(raw.OverallSummary),
		OverallScore:   parseScore(raw.OverallScore),
		Sections:       make([]types.SectionFeedback, 0, len(raw.Sections)),
	}

	for _, rs := range raw.Sections {
		result.Sections = append(result.Sections, normalizeSectionFeedback(&rs, sectionsByID))
	}

	for _, rs := range raw.Suggestions {
		if suggestion := strings.TrimSpace(asString(rs)); suggestion != "" {
			result.Suggestions = append(result.Suggestions, suggestion)
		}
	}

	if raw.StyleCompliance != nil {
		result.StyleCompliance = &types.StyleCompliance{
			Matched: asBool(raw.StyleCompliance.Matched),
			Notes:   strings.TrimSpace(asString(raw.StyleCompliance.Notes)),
		}
	}

	for i, rq := range raw.FollowUpQuestions {
		question, ok := normalizeFollowUpQuestion(&rq, i)
		if !ok {
			continue
		}
		result.FollowUpQuestions = append(result.FollowUpQuestions, question)
	}
	// Absence, not an empty list, signals "no follow-up needed".
	if len(result.FollowUpQuestions) == 0 {
		result.FollowUpQuestions = nil
	}

	return result
}

// normalizeSectionFeedback validates one section's feedback. RevisedText
// falls back to the sanitized section's original text so the pipeline never
// returns an empty revision for a non-empty input.
func normalizeSectionFeedback(raw *rawSectionFeedback, sectionsByID map[string]types.Section) types.SectionFeedback {
	sectionID := strings.TrimSpace(asString(raw.SectionID))
	source, hasSource := sectionsByID[sectionID]

	title := strings.TrimSpace(asString(raw.SectionTitle))
	if title == "" && hasSource {
		title = source.Title
	}

	revised := strings.TrimSpace(asString(raw.RevisedText))
	if revised == "" && hasSource {
		revised = source.Text
	}

	feedback := types.SectionFeedback{
		SectionID:    sectionID,
		SectionTitle: title,
		Summary:      strings.TrimSpace(asString(raw.Summary)),
		Score:        parseScore(raw.Score),
		RevisedText:  revised,
		Categories:   make([]types.CategoryFeedback, 0, len(raw.Categories)),
	}

	for _, rc := range raw.Categories {
		category, ok := normalizeCategoryFeedback(&rc)
		if !ok {
			continue
		}
		feedback.Categories = append(feedback.Categories, category)
	}

	return feedback
}

// normalizeCategoryFeedback validates one category entry. Entries carrying
// neither a comment nor a suggestion are dropped entirely. The label is
// always re-derived from the normalized id, never trusted from input.
func normalizeCategoryFeedback(raw *rawCategoryFeedback) (types.CategoryFeedback, bool) {
	comment := strings.TrimSpace(asString(raw.Comment))
	suggestion := strings.TrimSpace(asString(raw.Suggestion))
	if comment == "" && suggestion == "" {
		return types.CategoryFeedback{}, false
	}

	id := NormalizeCategory(asString(raw.ID))
	return types.CategoryFeedback{
		ID:         id,
		Label:      CategoryLabel(id),
		Comment:    comment,
		Suggestion: suggestion,
		Example:    strings.TrimSpace(asString(raw.Example)),
		Priority:   NormalizePriority(asString(raw.Priority)),
	}, true
}

// normalizeFollowUpQuestion validates one clarification request. Entries
// without a non-empty question are discarded.
func normalizeFollowUpQuestion(raw *rawFollowUpQuestion, index int) (types.FollowUpQuestion, bool) {
	question := strings.TrimSpace(asString(raw.Question))
	if question == "" {
		return types.FollowUpQuestion{}, false
	}

	id := strings.TrimSpace(asString(raw.ID))
	if id == "" {
		id = fmt.Sprintf("followup-%d", index+1)
	}

	return types.FollowUpQuestion{
		ID:              id,
		SectionID:       strings.TrimSpace(asString(raw.SectionID)),
		Question:        question,
		Reason:          strings.TrimSpace(asString(raw.Reason)),
		MissingInfoHint: strings.TrimSpace(asString(raw.MissingInfoHint)),
	}, true
}

// asString decodes an untrusted value as a string, tolerating numbers and
// booleans. Anything else yields the empty string.
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}

	return ""
}

// asBool decodes an untrusted value as a bool, tolerating "true"/"false"
// strings. Anything else yields false.
func asBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}

	return false
}
