package portfolio

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// placeholderProjectName names an appended project when neither the
// assignment nor the section supplies one.
const placeholderProjectName = "無題のプロジェクト"

// ProfileStore persists structured profiles keyed by identity (keyed upsert).
type ProfileStore interface {
	Save(ctx context.Context, identity string, profile *types.Profile) (*types.Profile, error)
	Load(ctx context.Context, identity string) (*types.Profile, error)
}

// Syncer merges caller-approved review output into structured profiles.
//
// The per-identity cached profile is copy-on-write: every sync mutates a
// private clone and the cache is replaced only after the persistence call
// succeeds, so a failed sync can never leave the cache in a mixed state.
type Syncer struct {
	store  ProfileStore
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*types.Profile
}

// NewSyncer creates a sync engine over the given profile store.
// A nil logger defaults to a no-op logger.
func NewSyncer(store ProfileStore, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		store:  store,
		logger: logger,
		cache:  make(map[string]*types.Profile),
	}
}

// LoadProfile fetches the identity's profile from the store and caches it.
// A missing profile loads as an empty record so first-time users can sync.
func (s *Syncer) LoadProfile(ctx context.Context, identity string) (*types.Profile, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.store.Load(ctx, identity)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if profile == nil {
		profile = &types.Profile{}
	}

	s.mu.Lock()
	s.cache[identity] = profile
	s.mu.Unlock()

	return profile.Clone(), nil
}

// CachedProfile returns a clone of the cached profile, or nil when no
// profile has been loaded for the identity.
func (s *Syncer) CachedProfile(identity string) *types.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[identity].Clone()
}

// ApplyAssignments builds a modified copy of the cached profile, merges the
// revised text of each assigned section into its target field, and persists
// the copy. The cache is replaced only on a successful write.
//
// Assignments whose section feedback is missing or whose revision is blank
// are skipped silently; partial application of the remaining valid
// assignments is acceptable.
func (s *Syncer) ApplyAssignments(ctx context.Context, identity string, assignments []types.SyncAssignment, result *types.ReviewResult) error {
	if strings.TrimSpace(identity) == "" {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	cached, ok := s.cache[identity]
	s.mu.Unlock()
	if !ok || cached == nil {
		return ErrProfileNotLoaded
	}

	actionable := make([]types.SyncAssignment, 0, len(assignments))
	for _, a := range assignments {
		if isAssignableField(a.Field) {
			actionable = append(actionable, a)
		}
	}
	if len(actionable) == 0 {
		return ErrNoActionableAssignment
	}

	feedbackByID := make(map[string]types.SectionFeedback)
	if result != nil {
		for _, fb := range result.Sections {
			feedbackByID[fb.SectionID] = fb
		}
	}

	// All mutation happens on the clone; the cached record stays pristine
	// until the store write succeeds.
	clone := cached.Clone()
	applied := 0
	for _, a := range actionable {
		feedback, ok := feedbackByID[a.SectionID]
		if !ok {
			continue
		}
		revised := strings.TrimSpace(feedback.RevisedText)
		if revised == "" {
			continue
		}

		if a.Field == types.FieldProjects {
			name := strings.TrimSpace(a.ProjectName)
			if name == "" {
				name = strings.TrimSpace(feedback.SectionTitle)
			}
			if name == "" {
				name = placeholderProjectName
			}
			clone.Projects = append(clone.Projects, types.Project{
				Name:        name,
				Description: revised,
			})
		} else {
			setScalarField(clone, a.Field, revised)
		}
		applied++
	}

	saved, err := s.store.Save(ctx, identity, clone)
	if err != nil {
		s.logger.Error("profile sync failed, cache unchanged",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return &PersistenceError{Cause: err}
	}
	if saved == nil {
		saved = clone
	}

	s.mu.Lock()
	s.cache[identity] = saved
	s.mu.Unlock()

	s.logger.Info("profile sync committed",
		zap.String("identity", identity),
		zap.Int("assignments_applied", applied),
	)
	return nil
}

// isAssignableField reports whether a sync assignment may target the field
func isAssignableField(field types.Field) bool {
	switch field {
	case types.FieldSelfIntroduction, types.FieldExperience, types.FieldInternship,
		types.FieldExtracurricular, types.FieldAwards, types.FieldCustomQuestions,
		types.FieldAdditionalInfo, types.FieldProjects:
		return true
	default:
		return false
	}
}

// setScalarField overwrites one scalar profile field with the revised text
func setScalarField(profile *types.Profile, field types.Field, text string) {
	switch field {
	case types.FieldSelfIntroduction:
		profile.SelfIntroduction = text
	case types.FieldExperience:
		profile.Experience = text
	case types.FieldInternship:
		profile.Internship = text
	case types.FieldExtracurricular:
		profile.Extracurricular = text
	case types.FieldAwards:
		profile.Awards = text
	case types.FieldCustomQuestions:
		profile.CustomQuestions = text
	case types.FieldAdditionalInfo:
		profile.AdditionalInfo = text
	}
}
