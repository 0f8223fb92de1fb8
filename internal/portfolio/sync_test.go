package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// fakeStore keeps profiles in memory and can be told to fail writes
type fakeStore struct {
	profiles map[string]*types.Profile
	loadErr  error
	saveErr  error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]*types.Profile)}
}

func (f *fakeStore) Save(_ context.Context, identity string, profile *types.Profile) (*types.Profile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saves++
	f.profiles[identity] = profile.Clone()
	return profile, nil
}

func (f *fakeStore) Load(_ context.Context, identity string) (*types.Profile, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.profiles[identity].Clone(), nil
}

func reviewResultForSync() *types.ReviewResult {
	return &types.ReviewResult{
		Sections: []types.SectionFeedback{
			{SectionID: "s1", SectionTitle: "自己紹介", RevisedText: "改善された自己紹介"},
			{SectionID: "s2", SectionTitle: "ECサイト開発", RevisedText: "改善されたプロジェクト説明"},
			{SectionID: "s3", SectionTitle: "空", RevisedText: "   "},
		},
	}
}

func TestSyncer_LoadProfile_MissingLoadsEmpty(t *testing.T) {
	syncer := NewSyncer(newFakeStore(), nil)

	profile, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Empty(t, profile.SelfIntroduction)

	assert.NotNil(t, syncer.CachedProfile("user-1"))
}

func TestSyncer_LoadProfile_BlankIdentity(t *testing.T) {
	syncer := NewSyncer(newFakeStore(), nil)

	_, err := syncer.LoadProfile(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSyncer_LoadProfile_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("connection refused")
	syncer := NewSyncer(store, nil)

	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.Error(t, err)

	var persistErr *PersistenceError
	assert.True(t, errors.As(err, &persistErr))
}

func TestSyncer_ApplyAssignments_ScalarOverwrite(t *testing.T) {
	store := newFakeStore()
	store.profiles["user-1"] = &types.Profile{SelfIntroduction: "古い自己紹介"}
	syncer := NewSyncer(store, nil)

	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)

	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{{SectionID: "s1", Field: types.FieldSelfIntroduction}},
		reviewResultForSync())
	require.NoError(t, err)

	updated := syncer.CachedProfile("user-1")
	assert.Equal(t, "改善された自己紹介", updated.SelfIntroduction)
	assert.Equal(t, "改善された自己紹介", store.profiles["user-1"].SelfIntroduction)
}

func TestSyncer_ApplyAssignments_ProjectsAppend(t *testing.T) {
	store := newFakeStore()
	store.profiles["user-1"] = &types.Profile{
		Projects: []types.Project{{Name: "既存", Description: "既存の説明"}},
	}
	syncer := NewSyncer(store, nil)

	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)

	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{{SectionID: "s2", Field: types.FieldProjects}},
		reviewResultForSync())
	require.NoError(t, err)

	updated := syncer.CachedProfile("user-1")
	require.Len(t, updated.Projects, 2, "projects append, never overwrite")
	assert.Equal(t, "既存", updated.Projects[0].Name)
	// Project name falls back to the section title
	assert.Equal(t, "ECサイト開発", updated.Projects[1].Name)
	assert.Equal(t, "改善されたプロジェクト説明", updated.Projects[1].Description)
}

func TestSyncer_ApplyAssignments_ProjectNameFallbackChain(t *testing.T) {
	store := newFakeStore()
	syncer := NewSyncer(store, nil)
	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)

	result := &types.ReviewResult{
		Sections: []types.SectionFeedback{
			{SectionID: "s1", SectionTitle: "", RevisedText: "説明"},
		},
	}

	// Explicit assignment name wins
	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{{SectionID: "s1", Field: types.FieldProjects, ProjectName: "明示された名前"}},
		result)
	require.NoError(t, err)

	// No name anywhere falls back to the placeholder
	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{{SectionID: "s1", Field: types.FieldProjects}},
		result)
	require.NoError(t, err)

	updated := syncer.CachedProfile("user-1")
	require.Len(t, updated.Projects, 2)
	assert.Equal(t, "明示された名前", updated.Projects[0].Name)
	assert.Equal(t, "無題のプロジェクト", updated.Projects[1].Name)
}

func TestSyncer_ApplyAssignments_SkipsMissingAndBlankRevisions(t *testing.T) {
	store := newFakeStore()
	syncer := NewSyncer(store, nil)
	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)

	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{
			{SectionID: "unknown", Field: types.FieldExperience},
			{SectionID: "s3", Field: types.FieldAwards},
			{SectionID: "s1", Field: types.FieldSelfIntroduction},
		},
		reviewResultForSync())
	require.NoError(t, err, "partial application of valid assignments is acceptable")

	updated := syncer.CachedProfile("user-1")
	assert.Equal(t, "改善された自己紹介", updated.SelfIntroduction)
	assert.Empty(t, updated.Experience)
	assert.Empty(t, updated.Awards)
}

func TestSyncer_ApplyAssignments_NoActionable(t *testing.T) {
	syncer := NewSyncer(newFakeStore(), nil)
	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)

	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{
			{SectionID: "s1", Field: types.FieldNone},
			{SectionID: "s2", Field: types.Field("bogus")},
		},
		reviewResultForSync())
	assert.ErrorIs(t, err, ErrNoActionableAssignment)

	err = syncer.ApplyAssignments(context.Background(), "user-1", nil, reviewResultForSync())
	assert.ErrorIs(t, err, ErrNoActionableAssignment)
}

func TestSyncer_ApplyAssignments_Preconditions(t *testing.T) {
	syncer := NewSyncer(newFakeStore(), nil)

	err := syncer.ApplyAssignments(context.Background(), "",
		[]types.SyncAssignment{{SectionID: "s1", Field: types.FieldExperience}},
		reviewResultForSync())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	err = syncer.ApplyAssignments(context.Background(), "never-loaded",
		[]types.SyncAssignment{{SectionID: "s1", Field: types.FieldExperience}},
		reviewResultForSync())
	assert.ErrorIs(t, err, ErrProfileNotLoaded)
}

func TestSyncer_ApplyAssignments_FailedSaveLeavesCacheUntouched(t *testing.T) {
	store := newFakeStore()
	store.profiles["user-1"] = &types.Profile{
		SelfIntroduction: "元の自己紹介",
		Projects:         []types.Project{{Name: "既存", Description: "説明"}},
	}
	syncer := NewSyncer(store, nil)

	_, err := syncer.LoadProfile(context.Background(), "user-1")
	require.NoError(t, err)
	before := syncer.CachedProfile("user-1")

	store.saveErr = errors.New("disk full")
	err = syncer.ApplyAssignments(context.Background(), "user-1",
		[]types.SyncAssignment{
			{SectionID: "s1", Field: types.FieldSelfIntroduction},
			{SectionID: "s2", Field: types.FieldProjects},
		},
		reviewResultForSync())
	require.Error(t, err)

	var persistErr *PersistenceError
	require.True(t, errors.As(err, &persistErr))

	// The cached profile is bit-for-bit what it was before the attempt
	assert.Equal(t, before, syncer.CachedProfile("user-1"))
	assert.Equal(t, 0, store.saves)
}
