package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens/internal/ai"
	"github.com/reviewlens/reviewlens/internal/ai/mock"
	"github.com/reviewlens/reviewlens/internal/analysis"
	"github.com/reviewlens/reviewlens/pkg/models"
)

const testTimeout = 5 * time.Second

var batch = []string{
	"Great build quality",
	"Terrible delivery, very late",
	"Love the design",
}

const finalPayload = `Here is the analysis you asked for:
{"totalCount": 3, "positiveCount": 2, "negativeCount": 1,
 "positive": 66.7, "negative": 33.3,
 "keywords": [
   {"keyword": "build quality", "sentiment": "positive", "count": 1, "reviewIndices": [0], "aspect": "build quality"},
   {"keyword": "design", "sentiment": "positive", "count": 2, "reviewIndices": [2], "aspect": "design"},
   {"keyword": "delivery", "sentiment": "negative", "count": 1, "reviewIndices": [1], "aspect": "delivery speed"}
 ]}
Hope that helps!`

const stageOnePayload = `{"sentiments": ["positive", "negative", "positive"]}`

func newService(p models.AIProvider) *ai.AnalysisService {
	return ai.NewAnalysisService(p, testTimeout, 0)
}

func TestAnalyze_NilProviderIsMissingCredentials(t *testing.T) {
	svc := newService(nil)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, ai.ErrMissingCredentials)
}

func TestAnalyze_EmptyBatchNeverReachesProvider(t *testing.T) {
	provider := mock.NewMockProvider(finalPayload)
	svc := newService(provider)

	for _, reviews := range [][]string{nil, {}, {"", "   ", "\n"}} {
		_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: reviews})
		assert.ErrorIs(t, err, ai.ErrEmptyBatch)
	}
	assert.Empty(t, provider.Requests)
}

func TestAnalyze_SinglePassSuccess(t *testing.T) {
	provider := mock.NewMockProvider(finalPayload)
	svc := newService(provider)

	res, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleDefault,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 2, res.PositiveCount)
	assert.Equal(t, 1, res.NegativeCount)
	assert.InDelta(t, 66.7, res.Positive, 0.001)
	assert.InDelta(t, 33.3, res.Negative, 0.001)

	// Positive group first, descending by count.
	require.Len(t, res.Keywords, 3)
	assert.Equal(t, "design", res.Keywords[0].Keyword)
	assert.Equal(t, "build quality", res.Keywords[1].Keyword)
	assert.Equal(t, "delivery", res.Keywords[2].Keyword)
	assert.Contains(t, res.Keywords[2].ReviewIndices, 1)

	// One inference call, English instructions, both stages' work combined.
	require.Len(t, provider.Requests, 1)
	assert.Contains(t, provider.Requests[0].Prompt, "1. Great build quality")
	assert.Contains(t, provider.Requests[0].System, "sentiment analysis")
}

func TestAnalyze_SinglePassUnknownLocale(t *testing.T) {
	provider := mock.NewMockProvider(finalPayload)
	svc := newService(provider)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.Locale("fr"),
	})
	require.NoError(t, err)
	assert.Len(t, provider.Requests, 1)
}

func TestAnalyze_ProviderErrorClassified(t *testing.T) {
	svc := newService(mock.NewFailingProvider(errors.New("connection refused")))

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
}

func TestAnalyze_TimeoutClassified(t *testing.T) {
	svc := ai.NewAnalysisService(mock.NewTimeoutProvider(), 20*time.Millisecond, 0)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, ai.ErrInferenceTimeout)
}

func TestAnalyze_CancellationNotBlamedOnProvider(t *testing.T) {
	svc := newService(mock.NewTimeoutProvider())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Analyze(ctx, ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ai.ErrProviderUnavailable)
	assert.NotErrorIs(t, err, ai.ErrInferenceTimeout)
}

func TestAnalyze_ConfiguredMaxKeywordsReachesPrompt(t *testing.T) {
	provider := mock.NewMockProvider(finalPayload)
	svc := ai.NewAnalysisService(provider, testTimeout, 12)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	require.NoError(t, err)

	require.Len(t, provider.Requests, 1)
	assert.Contains(t, provider.Requests[0].Prompt, "top 12")
	assert.NotContains(t, provider.Requests[0].Prompt, "top 5")
}

func TestAnalyze_ConfiguredMaxKeywordsReachesKeywordStage(t *testing.T) {
	provider := mock.NewMockProvider(stageOnePayload, finalPayload)
	svc := ai.NewAnalysisService(provider, testTimeout, 12)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleKorean,
	})
	require.NoError(t, err)

	require.Len(t, provider.Requests, 2)
	assert.Contains(t, provider.Requests[1].Prompt, "상위 12개")
}

func TestAnalyze_ExtractionFailureSurfaced(t *testing.T) {
	svc := newService(mock.NewMockProvider("I am unable to analyze these reviews."))

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, analysis.ErrExtractionFailed)
}

func TestAnalyze_ValidationFailureSurfaced(t *testing.T) {
	svc := newService(mock.NewMockProvider(`{"totalCount": "lots"}`))

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{Reviews: batch})
	assert.ErrorIs(t, err, analysis.ErrValidationFailed)
}

func TestAnalyze_TwoPassSuccess(t *testing.T) {
	provider := mock.NewMockProvider(stageOnePayload, finalPayload)
	svc := newService(provider)

	res, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleKorean,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)

	// Strictly sequential: stage 2's prompt embeds stage 1's labels.
	require.Len(t, provider.Requests, 2)
	assert.Contains(t, provider.Requests[0].Prompt, `"sentiments"`)
	assert.Contains(t, provider.Requests[1].Prompt, "[positive] Great build quality")
	assert.Contains(t, provider.Requests[1].Prompt, "[negative] Terrible delivery, very late")
}

func TestAnalyze_TwoPassLengthMismatchStopsBeforeStageTwo(t *testing.T) {
	provider := mock.NewMockProvider(`{"sentiments": ["positive", "negative"]}`, finalPayload)
	svc := newService(provider)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleKorean,
	})
	assert.ErrorIs(t, err, analysis.ErrValidationFailed)
	assert.Len(t, provider.Requests, 1)
}

func TestAnalyze_TwoPassStageOneExtractionFailure(t *testing.T) {
	provider := mock.NewMockProvider("no payload here", finalPayload)
	svc := newService(provider)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleKorean,
	})
	assert.ErrorIs(t, err, analysis.ErrExtractionFailed)
	assert.Len(t, provider.Requests, 1)
}

func TestAnalyze_TwoPassStageTwoFailure(t *testing.T) {
	provider := mock.NewMockProvider(stageOnePayload, "stage two went off the rails")
	svc := newService(provider)

	_, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: batch,
		Locale:  models.LocaleKorean,
	})
	assert.ErrorIs(t, err, analysis.ErrExtractionFailed)
	assert.Len(t, provider.Requests, 2)
}

func TestAnalyze_TrimmedBatchDrivesPromptAndIndices(t *testing.T) {
	provider := mock.NewMockProvider(`{"totalCount": 1, "positiveCount": 1, "negativeCount": 0,
		"keywords": [{"keyword": "design", "sentiment": "positive", "count": 1, "reviewIndices": [0]}]}`)
	svc := newService(provider)

	res, err := svc.Analyze(context.Background(), ai.AnalyzeParams{
		Reviews: []string{"   ", "  Love the design  "},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
	assert.InDelta(t, 100, res.Positive, 0.001)

	require.Len(t, provider.Requests, 1)
	assert.Contains(t, provider.Requests[0].Prompt, "1. Love the design")
	assert.False(t, strings.Contains(provider.Requests[0].Prompt, "2. "))
}
