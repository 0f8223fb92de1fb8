package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// defaultHistoryLimit caps history listings when the caller passes no limit
const defaultHistoryLimit = 50

// Append stores one review history entry for an identity
func (db *DB) Append(ctx context.Context, entry *types.HistoryEntry) (*types.HistoryEntry, error) {
	sections, err := json.Marshal(entry.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	options, err := json.Marshal(entry.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal style options: %w", err)
	}
	result, err := json.Marshal(entry.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO review_history (id, identity, sections, options, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Identity, sections, options, result, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append history entry: %w", err)
	}
	return entry, nil
}

// List returns up to limit history entries for an identity, most recent first
func (db *DB) List(ctx context.Context, identity string, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, identity, sections, options, result, created_at
		 FROM review_history WHERE identity = $1
		 ORDER BY created_at DESC LIMIT $2`,
		identity, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var entry types.HistoryEntry
		var sections, options, result []byte
		if err := rows.Scan(&entry.ID, &entry.Identity, &sections, &options, &result, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := json.Unmarshal(sections, &entry.Sections); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
		}
		if err := json.Unmarshal(options, &entry.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal style options: %w", err)
		}
		if err := json.Unmarshal(result, &entry.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal review result: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one history entry, or every entry for the identity when
// entryID is empty.
func (db *DB) Delete(ctx context.Context, identity, entryID string) error {
	var err error
	if entryID == "" {
		_, err = db.pool.Exec(ctx,
			`DELETE FROM review_history WHERE identity = $1`, identity)
	} else {
		_, err = db.pool.Exec(ctx,
			`DELETE FROM review_history WHERE identity = $1 AND id = $2`, identity, entryID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}
