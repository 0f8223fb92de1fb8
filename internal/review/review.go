package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/llm"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

// Request carries everything needed for one top-level review round trip.
type Request struct {
	Sections       []types.RawSection
	Options        types.StyleOptions
	CompanyContext string
	Answered       []types.AnsweredFollowUp
}

// Result pairs the validated review with the sanitized sections it was run
// against. Downstream consumers (follow-up loop, sync engine) resolve
// section ids against Sections, not against the caller's raw input.
type Result struct {
	Review   *types.ReviewResult
	Sections []types.Section
}

// Reviewer orchestrates one review round trip: sanitize, compose the prompt,
// call the generation service, and defensively parse the response.
type Reviewer struct {
	client llm.Client
	logger *zap.Logger
}

// NewReviewer creates a reviewer backed by the given generation client.
// A nil logger defaults to a no-op logger.
func NewReviewer(client llm.Client, logger *zap.Logger) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{client: client, logger: logger}
}

// Review runs a full review of the request's sections.
// Returns ErrEmptyInput when no section survives sanitization; parse
// failures abort the attempt without returning a partial result.
func (r *Reviewer) Review(ctx context.Context, req Request) (*Result, error) {
	sections := SanitizeSections(req.Sections)
	if len(sections) == 0 {
		return nil, ErrEmptyInput
	}

	prompt, err := BuildReviewPrompt(sections, req.Options, req.CompanyContext, req.Answered)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("requesting review",
		zap.Int("sections", len(sections)),
		zap.Int("answered_follow_ups", len(req.Answered)),
		zap.String("tone", string(req.Options.Tone)),
		zap.String("language", string(req.Options.Language)),
	)

	rawText, err := r.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate review", Cause: err}
	}

	result, err := ParseReviewResult(rawText, sections)
	if err != nil {
		r.logger.Warn("review response rejected", zap.Error(err))
		return nil, err
	}

	r.logger.Info("review completed",
		zap.Int("sections", len(result.Sections)),
		zap.Int("follow_up_questions", len(result.FollowUpQuestions)),
	)

	return &Result{Review: result, Sections: sections}, nil
}
