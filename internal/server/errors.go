package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/portfolio-reviewer/internal/followup"
	"github.com/jonathan/portfolio-reviewer/internal/portfolio"
	"github.com/jonathan/portfolio-reviewer/internal/review"
)

// HTTPStatus maps domain errors to HTTP status codes. Generation-service
// contract violations surface as 502 because the failure is upstream, not
// in the caller's request.
func HTTPStatus(err error) int {
	var apiErr *review.APICallError
	var parseErr *review.UnparsableResponseError
	var persistErr *portfolio.PersistenceError

	switch {
	case errors.Is(err, review.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrNoActionableAssignment):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, followup.ErrUnknownQuestion):
		return http.StatusNotFound
	case errors.Is(err, followup.ErrReviewInFlight):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrProfileNotLoaded):
		return http.StatusConflict
	case errors.Is(err, review.ErrEmptyResponse),
		errors.As(err, &parseErr),
		errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
