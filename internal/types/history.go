package types

import "time"

// HistoryEntry is one durable record of a completed review for an identity
type HistoryEntry struct {
	ID        string        `json:"id"`
	Identity  string        `json:"identity"`
	Sections  []Section     `json:"sections"`
	Options   StyleOptions  `json:"options"`
	Result    *ReviewResult `json:"result"`
	CreatedAt time.Time     `json:"created_at"`
}
