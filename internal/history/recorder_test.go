package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// fakeStore keeps entries in memory and can be told to fail
type fakeStore struct {
	entries   map[string][]types.HistoryEntry
	appendErr error
	listErr   error
	deleteErr error
	deletes   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string][]types.HistoryEntry)}
}

func (f *fakeStore) Append(_ context.Context, entry *types.HistoryEntry) (*types.HistoryEntry, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.entries[entry.Identity] = append([]types.HistoryEntry{*entry}, f.entries[entry.Identity]...)
	return entry, nil
}

func (f *fakeStore) List(_ context.Context, identity string, limit int) ([]types.HistoryEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	entries := f.entries[identity]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeStore) Delete(_ context.Context, identity, entryID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, entryID)
	if entryID == "" {
		delete(f.entries, identity)
		return nil
	}
	kept := f.entries[identity][:0]
	for _, e := range f.entries[identity] {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	f.entries[identity] = kept
	return nil
}

func sampleResult() *types.ReviewResult {
	return &types.ReviewResult{OverallSummary: "summary"}
}

func TestRecorder_Record(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)

	entry := recorder.Record(context.Background(), "user-1",
		[]types.Section{{ID: "s1", Title: "t", Text: "text"}},
		types.StyleOptions{Tone: types.ToneKeigo},
		sampleResult())

	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-1", entry.Identity)
	assert.False(t, entry.CreatedAt.IsZero())

	require.Len(t, store.entries["user-1"], 1)
}

func TestRecorder_Record_FailureDegradesToLocal(t *testing.T) {
	store := newFakeStore()
	store.appendErr = errors.New("db down")
	recorder := NewRecorder(store, nil)

	entry := recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	require.NotNil(t, entry, "a failed append never fails the review")

	// The local-only record is still listable
	store.listErr = nil
	store.appendErr = nil
	entries, err := recorder.List(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestRecorder_List_LocalEntriesFirst(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)

	durable := recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())

	store.appendErr = errors.New("db down")
	local := recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	store.appendErr = nil

	entries, err := recorder.List(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, local.ID, entries[0].ID)
	assert.Equal(t, durable.ID, entries[1].ID)
}

func TestRecorder_List_AppliesLimit(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)

	for i := 0; i < 3; i++ {
		recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	}

	entries, err := recorder.List(context.Background(), "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecorder_List_CancelledContext(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)
	recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled retrieval is discarded, never applied
	_, err := recorder.List(ctx, "user-1", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_Delete_SingleEntry(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)

	first := recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	second := recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())

	require.NoError(t, recorder.Delete(context.Background(), "user-1", first.ID))

	entries, err := recorder.List(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)
}

func TestRecorder_Delete_All(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(store, nil)

	recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	store.appendErr = errors.New("db down")
	recorder.Record(context.Background(), "user-1", nil, types.StyleOptions{}, sampleResult())
	store.appendErr = nil

	require.NoError(t, recorder.Delete(context.Background(), "user-1", ""))

	entries, err := recorder.List(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "clear-all removes local-only records too")
}
