// Package followup implements the clarification-question loop for a review
// session as an explicit finite-state object, independent of any UI or
// transport layer.
package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/review"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// State identifies the session's position in the follow-up loop
type State string

// Session states
const (
	// StateIdle means no clarification questions are pending
	StateIdle State = "idle"
	// StateAwaitingAnswers means one or more questions await an answer or skip
	StateAwaitingAnswers State = "awaiting_answers"
)

// SkippedAnswer is the sentinel recorded when the user defers a question.
// A skip removes the question from the pending set without erasing it from
// the answered context replayed into later prompts.
const SkippedAnswer = "（回答をスキップ）"

// ErrUnknownQuestion indicates the question id is not in the pending set
var ErrUnknownQuestion = errors.New("unknown or already resolved follow-up question")

// ErrReviewInFlight indicates a review round trip for this session is still
// outstanding. The session runs at most one at a time; callers should retry
// once it completes.
var ErrReviewInFlight = errors.New("a review is already in flight for this session")

// Reviewer runs a full review round trip. Answering a follow-up question is
// not a local edit: it re-invokes the whole review with updated sections.
type Reviewer interface {
	Review(ctx context.Context, req review.Request) (*review.Result, error)
}

// Session tracks one review conversation: the working sections, the pending
// clarification questions, and the answers already given. Safe for concurrent
// use; mutating calls are refused with ErrReviewInFlight while a round trip
// is outstanding.
type Session struct {
	reviewer Reviewer
	logger   *zap.Logger

	mu             sync.Mutex
	inFlight       bool
	options        types.StyleOptions
	companyContext string
	sections       []types.Section
	result         *types.ReviewResult
	pending        []types.FollowUpQuestion
	answered       []types.AnsweredFollowUp
}

// NewSession creates an idle session. A nil logger defaults to a no-op logger.
func NewSession(reviewer Reviewer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{reviewer: reviewer, logger: logger}
}

// State reports whether clarification questions are pending
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) > 0 {
		return StateAwaitingAnswers
	}
	return StateIdle
}

// Pending returns a copy of the pending clarification questions
func (s *Session) Pending() []types.FollowUpQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]types.FollowUpQuestion, len(s.pending))
	copy(pending, s.pending)
	return pending
}

// Answered returns a copy of the answered/skipped question records
func (s *Session) Answered() []types.AnsweredFollowUp {
	s.mu.Lock()
	defer s.mu.Unlock()
	answered := make([]types.AnsweredFollowUp, len(s.answered))
	copy(answered, s.answered)
	return answered
}

// Options returns the style options the session was started with
func (s *Session) Options() types.StyleOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Result returns the most recent review result, or nil before the first review
func (s *Session) Result() *types.ReviewResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Sections returns a copy of the session's current working sections
func (s *Session) Sections() []types.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections := make([]types.Section, len(s.sections))
	copy(sections, s.sections)
	return sections
}

// NewReview starts a fresh top-level review, discarding any prior session
// state including pending questions and answered context.
func (s *Session) NewReview(ctx context.Context, sections []types.RawSection, options types.StyleOptions, companyContext string) (*types.ReviewResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrReviewInFlight
	}
	s.inFlight = true
	s.sections = nil
	s.result = nil
	s.pending = nil
	s.answered = nil
	s.options = options
	s.companyContext = companyContext
	s.mu.Unlock()
	defer s.clearInFlight()

	return s.runReview(ctx, sections)
}

// Answer records the user's answer to a pending question, appends it to the
// originating section's text, and re-invokes the full review with the
// updated sections. A blank answer is a no-op that leaves the question
// pending and returns the current result unchanged.
func (s *Session) Answer(ctx context.Context, questionID, answer string) (*types.ReviewResult, error) {
	answer = strings.TrimSpace(answer)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrReviewInFlight
	}
	if answer == "" {
		result := s.result
		s.mu.Unlock()
		return result, nil
	}

	question, ok := s.takePending(questionID)
	if !ok {
		s.mu.Unlock()
		return nil, ErrUnknownQuestion
	}

	s.appendToSection(question, answer)
	s.answered = append(s.answered, types.AnsweredFollowUp{ID: question.ID, Answer: answer})

	raw := make([]types.RawSection, len(s.sections))
	for i, sec := range s.sections {
		raw[i] = types.RawSection{ID: sec.ID, Title: sec.Title, Text: sec.Text}
	}
	s.inFlight = true
	s.mu.Unlock()
	defer s.clearInFlight()

	s.logger.Debug("follow-up answered, re-reviewing",
		zap.String("question_id", question.ID),
		zap.String("section_id", question.SectionID),
	)

	return s.runReview(ctx, raw)
}

// Skip records the sentinel answer for a pending question without mutating
// any section text and without triggering a re-review.
func (s *Session) Skip(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrReviewInFlight
	}

	question, ok := s.takePending(questionID)
	if !ok {
		return ErrUnknownQuestion
	}

	s.answered = append(s.answered, types.AnsweredFollowUp{ID: question.ID, Answer: SkippedAnswer})
	s.logger.Debug("follow-up skipped", zap.String("question_id", question.ID))
	return nil
}

// runReview executes the review and replaces the session's working state.
// Previously answered ids are replayed into the prompt so the service does
// not re-ask them verbatim (best effort, since normalization is service-side).
// The caller must hold the in-flight flag; the mutex is released around the
// round trip so read accessors stay responsive.
func (s *Session) runReview(ctx context.Context, sections []types.RawSection) (*types.ReviewResult, error) {
	s.mu.Lock()
	req := review.Request{
		Sections:       sections,
		Options:        s.options,
		CompanyContext: s.companyContext,
		Answered:       append([]types.AnsweredFollowUp(nil), s.answered...),
	}
	s.mu.Unlock()

	result, err := s.reviewer.Review(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sections = result.Sections
	s.result = result.Review
	s.pending = append([]types.FollowUpQuestion(nil), result.Review.FollowUpQuestions...)
	s.mu.Unlock()
	return result.Review, nil
}

func (s *Session) clearInFlight() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// takePending removes and returns the pending question with the given id.
// Caller must hold mu.
func (s *Session) takePending(questionID string) (types.FollowUpQuestion, bool) {
	for i, q := range s.pending {
		if q.ID == questionID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return q, true
		}
	}
	return types.FollowUpQuestion{}, false
}

// appendToSection appends the answer to the question's target section,
// falling back to the first section when the id does not resolve.
// Caller must hold mu.
func (s *Session) appendToSection(question types.FollowUpQuestion, answer string) {
	if len(s.sections) == 0 {
		return
	}

	target := 0
	for i, sec := range s.sections {
		if sec.ID == question.SectionID {
			target = i
			break
		}
	}

	s.sections[target].Text += fmt.Sprintf("\n\n【追記 (%s)】%s", question.ID, answer)
}
