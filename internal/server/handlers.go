package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/followup"
	"github.com/jonathan/portfolio-reviewer/internal/portfolio"
	"github.com/jonathan/portfolio-reviewer/internal/schemas"
	"github.com/jonathan/portfolio-reviewer/internal/server/middleware"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// maxRequestBody caps request body reads at 1 MiB
const maxRequestBody = 1 << 20

// ReviewRequest is the POST /review payload
type ReviewRequest struct {
	Sections       []types.RawSection `json:"sections" validate:"required,min=1"`
	Tone           string             `json:"tone" validate:"required,oneof=keigo futsukei business casual"`
	WritingStyle   string             `json:"writing_style" validate:"required,oneof=formal neutral story"`
	Honorific      string             `json:"honorific" validate:"required,oneof=standard respectful none"`
	Audience       string             `json:"audience" validate:"required,oneof=internal external"`
	Language       string             `json:"language" validate:"required,oneof=ja en"`
	CompanyContext string             `json:"company_context,omitempty"`
}

// AnswerRequest is the POST /review/followups/{id}/answer payload
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// SyncRequest is the POST /portfolio/sync payload
type SyncRequest struct {
	Assignments []types.SyncAssignment `json:"assignments" validate:"required,min=1,dive"`
}

// ReviewResponse is returned by review and follow-up endpoints
type ReviewResponse struct {
	Result          *types.ReviewResult      `json:"result"`
	Sections        []types.Section          `json:"sections"`
	State           followup.State           `json:"state"`
	Pending         []types.FollowUpQuestion `json:"pending_questions,omitempty"`
	SuggestedFields map[string]types.Field   `json:"suggested_fields,omitempty"`
}

// handleReview runs a fresh top-level review of the submitted sections
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateReviewRequest(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ReviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	options := types.StyleOptions{
		Tone:         types.Tone(req.Tone),
		WritingStyle: types.WritingStyle(req.WritingStyle),
		Honorific:    types.Honorific(req.Honorific),
		Audience:     types.Audience(req.Audience),
		Language:     types.Language(req.Language),
	}

	key := identity.String()
	session := s.session(key)

	// One outstanding review per identity: concurrent submissions share the
	// in-flight round trip instead of issuing duplicates.
	_, err, _ = s.flight.Do(key, func() (any, error) {
		return session.NewReview(r.Context(), req.Sections, options, req.CompanyContext)
	})
	if err != nil {
		s.logger.Error("review failed", zap.String("identity", key), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.recorder.Record(r.Context(), key, session.Sections(), options, session.Result())
	s.jsonResponse(w, http.StatusOK, s.reviewResponse(session))
}

// handleAnswerFollowUp answers one pending clarification question and
// re-runs the full review with the updated sections
func (s *Server) handleAnswerFollowUp(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	questionID := r.PathValue("id")

	var req AnswerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key := identity.String()
	session := s.session(key)
	if session.Result() == nil {
		s.errorResponse(w, http.StatusConflict, "no active review session")
		return
	}

	// Answering runs its own round trip. While another review for this
	// identity is outstanding the session refuses with a conflict instead
	// of piggybacking on the in-flight result.
	answered := strings.TrimSpace(req.Answer) != ""
	_, err = session.Answer(r.Context(), questionID, req.Answer)
	if err != nil {
		s.logger.Error("follow-up answer failed",
			zap.String("identity", key),
			zap.String("question_id", questionID),
			zap.Error(err),
		)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// A blank answer is a no-op; only an actual re-review gets recorded.
	if answered {
		s.recorder.Record(r.Context(), key, session.Sections(), session.Options(), session.Result())
	}
	s.jsonResponse(w, http.StatusOK, s.reviewResponse(session))
}

// handleSkipFollowUp defers one pending question without re-reviewing
func (s *Server) handleSkipFollowUp(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	questionID := r.PathValue("id")

	session := s.session(identity.String())
	if session.Result() == nil {
		s.errorResponse(w, http.StatusConflict, "no active review session")
		return
	}

	if err := session.Skip(questionID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.reviewResponse(session))
}

// handleGetPortfolio loads and returns the caller's structured profile
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.syncer.LoadProfile(r.Context(), identity.String())
	if err != nil {
		s.logger.Error("profile load failed", zap.String("identity", identity.String()), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleSync merges approved revised sections into the caller's profile
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	key := identity.String()

	var req SyncRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.session(key)
	result := session.Result()
	if result == nil {
		s.errorResponse(w, http.StatusConflict, "no review result to sync from")
		return
	}

	// First sync in a process lifetime loads the stored profile on demand.
	if s.syncer.CachedProfile(key) == nil {
		if _, err := s.syncer.LoadProfile(r.Context(), key); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	if err := s.syncer.ApplyAssignments(r.Context(), key, req.Assignments, result); err != nil {
		s.logger.Error("portfolio sync failed", zap.String("identity", key), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"synced":  true,
		"profile": s.syncer.CachedProfile(key),
	})
}

// handleListHistory returns the caller's review history, most recent first
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	entries, err := s.recorder.List(r.Context(), identity.String(), limit)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing to write.
			return
		}
		s.logger.Error("history list failed", zap.String("identity", identity.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entries": entries})
}

// handleDeleteHistory removes one entry, or the whole log when no id is given
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID := r.PathValue("id")
	if err := s.recorder.Delete(r.Context(), identity.String(), entryID); err != nil {
		s.logger.Error("history delete failed",
			zap.String("identity", identity.String()),
			zap.String("entry_id", entryID),
			zap.Error(err),
		)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete history")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// reviewResponse assembles the shared review payload, including a suggested
// profile field per section so callers can preselect sync targets.
func (s *Server) reviewResponse(session *followup.Session) ReviewResponse {
	sections := session.Sections()

	suggested := make(map[string]types.Field, len(sections))
	for _, sec := range sections {
		if field := portfolio.SuggestField(sec.Title); field != types.FieldNone {
			suggested[sec.ID] = field
		}
	}
	if len(suggested) == 0 {
		suggested = nil
	}

	return ReviewResponse{
		Result:          session.Result(),
		Sections:        sections,
		State:           session.State(),
		Pending:         session.Pending(),
		SuggestedFields: suggested,
	}
}
