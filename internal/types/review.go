// Package types provides type definitions for structured data used throughout the portfolio-reviewer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RawSection represents a free-text block exactly as submitted by the caller,
// before any sanitization has been applied.
type RawSection struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Section represents a sanitized, titled block of portfolio text.
// IDs are unique within a request and Text is non-empty after trimming.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Tone identifies the requested overall tone of the revised text
type Tone string

// Tone values supported by the style directive composer
const (
	ToneKeigo    Tone = "keigo"
	ToneFutsukei Tone = "futsukei"
	ToneBusiness Tone = "business"
	ToneCasual   Tone = "casual"
)

// WritingStyle identifies the requested narrative style
type WritingStyle string

// WritingStyle values supported by the style directive composer
const (
	StyleFormal  WritingStyle = "formal"
	StyleNeutral WritingStyle = "neutral"
	StyleStory   WritingStyle = "story"
)

// Honorific identifies the requested honorific level
type Honorific string

// Honorific values supported by the style directive composer
const (
	HonorificStandard   Honorific = "standard"
	HonorificRespectful Honorific = "respectful"
	HonorificNone       Honorific = "none"
)

// Audience identifies who the revised text is written for
type Audience string

// Audience values supported by the style directive composer
const (
	AudienceInternal Audience = "internal"
	AudienceExternal Audience = "external"
)

// Language identifies the output language of the review
type Language string

// Language values supported by the style directive composer
const (
	LanguageJA Language = "ja"
	LanguageEN Language = "en"
)

// StyleOptions holds the enumerated style contract for a single review request.
// Immutable per request; owned by the caller.
type StyleOptions struct {
	Tone         Tone         `json:"tone"`
	WritingStyle WritingStyle `json:"writing_style"`
	Honorific    Honorific    `json:"honorific"`
	Audience     Audience     `json:"audience"`
	Language     Language     `json:"language"`
}

// Priority represents the urgency of a category feedback item
type Priority string

// Priority levels for category feedback
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category identifies one of the fixed feedback categories
type Category string

// The closed feedback category taxonomy. Every CategoryFeedback.ID is one of these.
const (
	CategoryClarity      Category = "clarity"
	CategoryStructure    Category = "structure"
	CategoryQuantitative Category = "quantitative"
	CategoryStory        Category = "story"
	CategoryFit          Category = "fit"
	CategoryTone         Category = "tone"
	CategoryGrammar      Category = "grammar"
	CategoryOther        Category = "other"
)

// CategoryFeedback represents one category-level critique of a section.
// Entries whose Comment and Suggestion are both empty are dropped at parse time.
type CategoryFeedback struct {
	ID         Category `json:"id"`
	Label      string   `json:"label"`
	Comment    string   `json:"comment,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Example    string   `json:"example,omitempty"`
	Priority   Priority `json:"priority"`
}

// SectionFeedback represents the reviewed output for a single section.
// RevisedText falls back to the original section text and is never empty
// when the input section had non-empty text.
type SectionFeedback struct {
	SectionID    string             `json:"section_id"`
	SectionTitle string             `json:"section_title"`
	Summary      string             `json:"summary"`
	Score        *int               `json:"score,omitempty"` // 0-100; nil means "not evaluated", distinct from 0
	RevisedText  string             `json:"revised_text"`
	Categories   []CategoryFeedback `json:"categories"`
}

// FollowUpQuestion is a clarification request emitted by the generation
// service when it judges a section underspecified.
type FollowUpQuestion struct {
	ID              string `json:"id"`
	SectionID       string `json:"section_id,omitempty"`
	Question        string `json:"question"`
	Reason          string `json:"reason,omitempty"`
	MissingInfoHint string `json:"missing_info_hint,omitempty"`
}

// StyleCompliance reports whether the revision honored the style contract
type StyleCompliance struct {
	Matched bool   `json:"matched"`
	Notes   string `json:"notes,omitempty"`
}

// ReviewResult represents a full validated review of a set of sections
type ReviewResult struct {
	OverallSummary    string             `json:"overall_summary"`
	OverallScore      *int               `json:"overall_score,omitempty"` // 0-100; nil means "not evaluated"
	Sections          []SectionFeedback  `json:"sections"`
	Suggestions       []string           `json:"suggestions,omitempty"`
	StyleCompliance   *StyleCompliance   `json:"style_compliance,omitempty"`
	FollowUpQuestions []FollowUpQuestion `json:"follow_up_questions,omitempty"`
}

// AnsweredFollowUp records a caller's answer to a previously asked
// clarification question, replayed into subsequent prompts.
type AnsweredFollowUp struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}
