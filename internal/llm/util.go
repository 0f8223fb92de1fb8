package llm

import "strings"

// CleanJSONBlock strips a markdown code fence wrapped around a model
// response. Gemini fences structured review output as ```json even when the
// prompt asks for bare JSON, and occasionally mislabels the fence with
// another language tag.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	// Drop the fence's info string ("json", "javascript", ...) when present.
	// A first line containing spaces or an opening brace is payload, not a tag.
	if idx := strings.Index(body, "\n"); idx >= 0 {
		tag := body[:idx]
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			body = body[idx+1:]
		}
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
