// Package history records completed reviews in a keyed append-only log per
// identity, with graceful degradation when the durable store is unavailable.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// Store is the durable keyed append-only log collaborator.
type Store interface {
	// Append stores one entry and returns the stored record
	Append(ctx context.Context, entry *types.HistoryEntry) (*types.HistoryEntry, error)
	// List returns up to limit entries for the identity, most recent first
	List(ctx context.Context, identity string, limit int) ([]types.HistoryEntry, error)
	// Delete removes one entry, or every entry for the identity when entryID is empty
	Delete(ctx context.Context, identity, entryID string) error
}

// Recorder wraps the durable store with a best-effort guarantee: a failed
// append degrades to an in-memory, local-only record instead of failing the
// review. In-memory entries survive only for the process lifetime; this is a
// documented lesser guarantee, not a durability promise.
type Recorder struct {
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	fallback map[string][]types.HistoryEntry
}

// NewRecorder creates a recorder over the given store.
// A nil logger defaults to a no-op logger.
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:    store,
		logger:   logger,
		fallback: make(map[string][]types.HistoryEntry),
	}
}

// Record appends one review to the identity's log. Persistence failures are
// absorbed: the entry is kept in memory and the review flow continues.
func (r *Recorder) Record(ctx context.Context, identity string, sections []types.Section, options types.StyleOptions, result *types.ReviewResult) *types.HistoryEntry {
	entry := &types.HistoryEntry{
		ID:        uuid.NewString(),
		Identity:  identity,
		Sections:  sections,
		Options:   options,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	stored, err := r.store.Append(ctx, entry)
	if err != nil {
		r.logger.Warn("history append failed, keeping local-only record",
			zap.String("identity", identity),
			zap.Error(err),
		)
		r.mu.Lock()
		r.fallback[identity] = append([]types.HistoryEntry{*entry}, r.fallback[identity]...)
		r.mu.Unlock()
		return entry
	}
	return stored
}

// List returns the identity's entries, most recent first, local-only records
// ahead of durable ones. The context is the cancellation token: when the
// viewing identity changes before retrieval resolves, the caller cancels and
// the stale result is discarded rather than applied.
func (r *Recorder) List(ctx context.Context, identity string, limit int) ([]types.HistoryEntry, error) {
	stored, err := r.store.List(ctx, identity, limit)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	local := append([]types.HistoryEntry(nil), r.fallback[identity]...)
	r.mu.Unlock()

	entries := append(local, stored...)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Delete removes one entry, or the identity's whole log when entryID is empty
func (r *Recorder) Delete(ctx context.Context, identity, entryID string) error {
	r.mu.Lock()
	if entryID == "" {
		delete(r.fallback, identity)
	} else {
		kept := r.fallback[identity][:0]
		for _, e := range r.fallback[identity] {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		r.fallback[identity] = kept
	}
	r.mu.Unlock()

	return r.store.Delete(ctx, identity, entryID)
}
