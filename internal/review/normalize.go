package review

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// categorySynonyms maps open-ended category labels from the generation
// service to the fixed taxonomy. Lookup is case-insensitive; unrecognized
// or missing ids map to CategoryOther.
var categorySynonyms = map[string]types.Category{
	"clarity":      types.CategoryClarity,
	"clearness":    types.CategoryClarity,
	"readability":  types.CategoryClarity,
	"わかりやすさ":       types.CategoryClarity,
	"分かりやすさ":       types.CategoryClarity,
	"明確さ":          types.CategoryClarity,
	"structure":    types.CategoryStructure,
	"organization": types.CategoryStructure,
	"構成":           types.CategoryStructure,
	"構造":           types.CategoryStructure,
	"quantitative": types.CategoryQuantitative,
	"metrics":      types.CategoryQuantitative,
	"numbers":      types.CategoryQuantitative,
	"定量性":          types.CategoryQuantitative,
	"定量":           types.CategoryQuantitative,
	"数値":           types.CategoryQuantitative,
	"story":        types.CategoryStory,
	"narrative":    types.CategoryStory,
	"storytelling": types.CategoryStory,
	"ストーリー":        types.CategoryStory,
	"ストーリー性":       types.CategoryStory,
	"fit":          types.CategoryFit,
	"alignment":    types.CategoryFit,
	"企業フィット":       types.CategoryFit,
	"フィット":         types.CategoryFit,
	"適合性":          types.CategoryFit,
	"tone":         types.CategoryTone,
	"voice":        types.CategoryTone,
	"トーン":          types.CategoryTone,
	"語調":           types.CategoryTone,
	"grammar":      types.CategoryGrammar,
	"wording":      types.CategoryGrammar,
	"文法":           types.CategoryGrammar,
	"表現":           types.CategoryGrammar,
	"文法・表現":        types.CategoryGrammar,
	"other":        types.CategoryOther,
	"その他":          types.CategoryOther,
}

// categoryLabels holds the canonical display label per category. Labels are
// always re-derived from the normalized id, never trusted from input.
var categoryLabels = map[types.Category]string{
	types.CategoryClarity:      "わかりやすさ",
	types.CategoryStructure:    "構成",
	types.CategoryQuantitative: "定量性",
	types.CategoryStory:        "ストーリー性",
	types.CategoryFit:          "企業フィット",
	types.CategoryTone:         "トーン",
	types.CategoryGrammar:      "文法・表現",
	types.CategoryOther:        "その他",
}

// NormalizeCategory maps an open-ended category label to the fixed taxonomy.
// Unrecognized or empty input maps to CategoryOther.
func NormalizeCategory(id string) types.Category {
	key := strings.ToLower(strings.TrimSpace(id))
	if category, ok := categorySynonyms[key]; ok {
		return category
	}
	return types.CategoryOther
}

// CategoryLabel returns the canonical display label for a category
func CategoryLabel(category types.Category) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return categoryLabels[types.CategoryOther]
}

// NormalizePriority maps a raw priority string to {high, medium, low},
// defaulting to medium for any unrecognized value.
func NormalizePriority(raw string) types.Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "高":
		return types.PriorityHigh
	case "low", "低":
		return types.PriorityLow
	case "medium", "mid", "中":
		return types.PriorityMedium
	default:
		return types.PriorityMedium
	}
}

// parseScore decodes an untrusted score value. Numbers (or numeric strings)
// are rounded and clamped to [0,100]; null, absent, or anything else yields
// nil, meaning "not evaluated". That state must never collapse to zero.
func parseScore(raw json.RawMessage) *int {
	trimmed := strings.TrimSpace(string(raw))
	// Unmarshal treats null as a no-op on a float64, so it is checked here.
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		// Tolerate scores arriving as JSON strings ("85")
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		n = parsed
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}

	return clampScore(n)
}

// clampScore rounds and clamps a numeric score to [0,100]
func clampScore(n float64) *int {
	score := int(math.Round(n))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}
