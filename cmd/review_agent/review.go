package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio-reviewer/internal/config"
	"github.com/jonathan/portfolio-reviewer/internal/llm"
	"github.com/jonathan/portfolio-reviewer/internal/observability"
	"github.com/jonathan/portfolio-reviewer/internal/review"
	"github.com/jonathan/portfolio-reviewer/internal/types"
)

var (
	reviewSections       string
	reviewTone           string
	reviewWritingStyle   string
	reviewHonorific      string
	reviewAudience       string
	reviewLanguage       string
	reviewCompanyContext string
	reviewConfigFile     string
	reviewAPIKey         string
	reviewOut            string
	reviewVerbose        bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review portfolio sections from a JSON file",
	Long: `Run a one-shot review of the sections in a JSON file and print the result.

The sections file is a JSON array of objects with "id", "title" and "text" keys.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewSections, "sections", "", "Path to sections JSON file (required)")
	reviewCmd.Flags().StringVar(&reviewTone, "tone", "business", "Requested tone: keigo, futsukei, business, casual")
	reviewCmd.Flags().StringVar(&reviewWritingStyle, "style", "neutral", "Writing style: formal, neutral, story")
	reviewCmd.Flags().StringVar(&reviewHonorific, "honorific", "standard", "Honorific level: standard, respectful, none")
	reviewCmd.Flags().StringVar(&reviewAudience, "audience", "external", "Audience: internal, external")
	reviewCmd.Flags().StringVar(&reviewLanguage, "language", "ja", "Output language: ja, en")
	reviewCmd.Flags().StringVar(&reviewCompanyContext, "company", "", "Target company or job description used for fit feedback")
	reviewCmd.Flags().StringVar(&reviewConfigFile, "config", "", "Path to JSON config file")
	reviewCmd.Flags().StringVar(&reviewAPIKey, "api-key", "", "Gemini API key (or GEMINI_API_KEY env)")
	reviewCmd.Flags().StringVar(&reviewOut, "out", "", "Write the result JSON to this path instead of stdout")
	reviewCmd.Flags().BoolVar(&reviewVerbose, "verbose", false, "Print detailed review output")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{
		Sections:       reviewSections,
		Tone:           reviewTone,
		WritingStyle:   reviewWritingStyle,
		Honorific:      reviewHonorific,
		Audience:       reviewAudience,
		Language:       reviewLanguage,
		CompanyContext: reviewCompanyContext,
		APIKey:         reviewAPIKey,
		Verbose:        reviewVerbose,
	}

	if reviewConfigFile != "" {
		fileCfg, err := config.LoadConfig(reviewConfigFile)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.FromEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Sections == "" {
		return fmt.Errorf("--sections is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (--api-key or GEMINI_API_KEY)")
	}

	data, err := os.ReadFile(cfg.Sections)
	if err != nil {
		return fmt.Errorf("failed to read sections file: %w", err)
	}

	var sections []types.RawSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("failed to parse sections JSON: %w", err)
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	ctx := cmd.Context()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	reviewer := review.NewReviewer(client, logger)
	result, err := reviewer.Review(ctx, review.Request{
		Sections: sections,
		Options: types.StyleOptions{
			Tone:         types.Tone(cfg.Tone),
			WritingStyle: types.WritingStyle(cfg.WritingStyle),
			Honorific:    types.Honorific(cfg.Honorific),
			Audience:     types.Audience(cfg.Audience),
			Language:     types.Language(cfg.Language),
		},
		CompanyContext: cfg.CompanyContext,
	})
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintReviewResult(result.Review)
		printer.PrintRevisedSections(result.Review.Sections)
		printer.PrintStyleCompliance(result.Review.StyleCompliance)
		printer.PrintFollowUps(result.Review.FollowUpQuestions)
	}

	encoded, err := json.MarshalIndent(result.Review, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if reviewOut != "" {
		if err := os.WriteFile(reviewOut, append(encoded, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}
