package portfolio

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated indicates no identity key was supplied for the sync
var ErrNotAuthenticated = errors.New("not authenticated: identity key is required")

// ErrProfileNotLoaded indicates no cached profile exists for the identity
var ErrProfileNotLoaded = errors.New("profile not loaded for identity")

// ErrNoActionableAssignment indicates no assignment named a resolvable field
var ErrNoActionableAssignment = errors.New("no actionable sync assignment")

// PersistenceError wraps a failed write to the profile collaborator.
// The cached profile is guaranteed untouched when this is returned, so the
// caller may retry with the same assignments.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist profile: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
