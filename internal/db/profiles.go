package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// Save upserts the structured profile for an identity. The profile record is
// stored wholesale as JSONB; the caller passes the full clone.
func (db *DB) Save(ctx context.Context, identity string, profile *types.Profile) (*types.Profile, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (identity, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (identity) DO UPDATE SET data = $2, updated_at = NOW()`,
		identity, data,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// Load fetches the structured profile for an identity.
// Returns (nil, nil) when no profile exists yet.
func (db *DB) Load(ctx context.Context, identity string) (*types.Profile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE identity = $1`,
		identity,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}
