package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/analysis"
	"github.com/reviewlens/reviewlens/pkg/models"
	"github.com/reviewlens/reviewlens/pkg/prompt"
)

// Inference parameters per stage. The classification stage runs cold so
// labels stay reproducible; the extraction stages get a little headroom.
const (
	classifyTemperature = 0.0
	extractTemperature  = 0.3
	classifyMaxTokens   = 512
	extractMaxTokens    = 2048
)

// AnalyzeParams holds validated parameters for an analysis request.
type AnalyzeParams struct {
	Reviews []string
	Locale  models.Locale
}

// AnalysisService orchestrates the review analysis pipeline: strategy
// selection, prompt building, inference, extraction and normalization.
// It holds no per-request state; concurrent Analyze calls are
// independent.
type AnalysisService struct {
	provider    models.AIProvider
	prompts     prompt.Builder
	timeout     time.Duration
	maxKeywords int
}

// NewAnalysisService creates a new AnalysisService. timeout bounds each
// individual inference call, not the whole request. maxKeywords is the
// number of keywords requested per sentiment; zero means the prompt
// package default.
func NewAnalysisService(provider models.AIProvider, timeout time.Duration, maxKeywords int) *AnalysisService {
	return &AnalysisService{
		provider:    provider,
		timeout:     timeout,
		maxKeywords: maxKeywords,
	}
}

// Analyze runs the pipeline for one review batch and returns the
// canonical result or the first classified failure. Exactly one
// inference attempt is made per stage; there is no retry and no
// fallback from the two-pass to the single-pass strategy.
func (s *AnalysisService) Analyze(ctx context.Context, params AnalyzeParams) (*models.AnalysisResult, error) {
	if s.provider == nil {
		return nil, ErrMissingCredentials
	}

	reviews := trimBatch(params.Reviews)
	if len(reviews) == 0 {
		return nil, ErrEmptyBatch
	}

	switch models.StrategyFor(params.Locale) {
	case models.StrategyTwoPass:
		return s.analyzeTwoPass(ctx, reviews, params.Locale)
	default:
		return s.analyzeSinglePass(ctx, reviews, params.Locale)
	}
}

func (s *AnalysisService) analyzeSinglePass(ctx context.Context, reviews []string, locale models.Locale) (*models.AnalysisResult, error) {
	text, err := s.complete(ctx, locale, s.prompts.BuildSinglePass(prompt.SinglePassParams{
		Reviews:     reviews,
		Locale:      locale,
		MaxKeywords: s.maxKeywords,
	}), extractTemperature, extractMaxTokens)
	if err != nil {
		return nil, err
	}

	payload, err := analysis.ExtractPayload(text)
	if err != nil {
		return nil, err
	}
	return analysis.NormalizeResult(payload, len(reviews))
}

// analyzeTwoPass is strictly sequential: the keyword stage's prompt is a
// pure function of the classification stage's validated output.
func (s *AnalysisService) analyzeTwoPass(ctx context.Context, reviews []string, locale models.Locale) (*models.AnalysisResult, error) {
	text, err := s.complete(ctx, locale, s.prompts.BuildSentimentStage(prompt.SentimentStageParams{
		Reviews: reviews,
		Locale:  locale,
	}), classifyTemperature, classifyMaxTokens)
	if err != nil {
		return nil, err
	}

	payload, err := analysis.ExtractPayload(text)
	if err != nil {
		return nil, err
	}
	sentiments, err := analysis.NormalizeSentiments(payload, len(reviews))
	if err != nil {
		return nil, err
	}

	text, err = s.complete(ctx, locale, s.prompts.BuildKeywordStage(prompt.KeywordStageParams{
		Reviews:     reviews,
		Sentiments:  sentiments,
		Locale:      locale,
		MaxKeywords: s.maxKeywords,
	}), extractTemperature, extractMaxTokens)
	if err != nil {
		return nil, err
	}

	payload, err = analysis.ExtractPayload(text)
	if err != nil {
		return nil, err
	}
	return analysis.NormalizeResult(payload, len(reviews))
}

// complete performs one bounded inference call. Deadline expiry is
// surfaced as ErrInferenceTimeout so the caller is never left blocked on
// a slow backend; a cancelled parent context (caller went away) is
// passed through as context.Canceled rather than blamed on the
// provider.
func (s *AnalysisService) complete(ctx context.Context, locale models.Locale, userPrompt string, temperature float64, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Complete(callCtx, models.CompletionRequest{
		System:      s.prompts.System(locale),
		Prompt:      userPrompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		switch {
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return "", ErrInferenceTimeout
		case errors.Is(callCtx.Err(), context.Canceled):
			return "", fmt.Errorf("inference aborted: %w", context.Canceled)
		}
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return text, nil
}

// trimBatch drops empty-after-trimming reviews while preserving the
// order of the rest; indices in the result refer to this filtered batch.
func trimBatch(reviews []string) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if t := strings.TrimSpace(r); t != "" {
			out = append(out, t)
		}
	}
	return out
}
