package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reviewlens/reviewlens/internal/ai"
	"github.com/reviewlens/reviewlens/internal/analysis"
	"github.com/reviewlens/reviewlens/internal/api/response"
	"github.com/reviewlens/reviewlens/pkg/models"
)

// statusClientClosedRequest is nginx's non-standard status for a client
// that disconnected mid-request; net/http has no constant for it.
const statusClientClosedRequest = 499

// Analyzer defines the interface the handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, params ai.AnalyzeParams) (*models.AnalysisResult, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reviews []string `json:"reviews"`
			Locale  string   `json:"locale"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if len(req.Reviews) == 0 {
			response.Error(w, http.StatusBadRequest, "EMPTY_BATCH", "reviews must be a non-empty array of strings", nil)
			return
		}

		locale := models.Locale(req.Locale)
		if locale == "" {
			locale = models.LocaleDefault
		}

		result, err := svc.Analyze(r.Context(), ai.AnalyzeParams{
			Reviews: req.Reviews,
			Locale:  locale,
		})
		if err != nil {
			writeAnalyzeError(w, err)
			return
		}

		response.JSON(w, result)
	}
}

// writeAnalyzeError maps pipeline error kinds to transport status codes:
// empty batch and missing credentials are client/config errors, the rest
// are upstream service errors.
func writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrEmptyBatch):
		response.Error(w, http.StatusBadRequest, "EMPTY_BATCH",
			"No usable reviews after trimming", nil)
	case errors.Is(err, ai.ErrMissingCredentials):
		response.Error(w, http.StatusServiceUnavailable, "CONFIG_MISSING",
			"Inference credentials are not configured", nil)
	case errors.Is(err, ai.ErrInferenceTimeout):
		response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
			"AI analysis took too long and was cancelled", nil)
	case errors.Is(err, analysis.ErrExtractionFailed):
		response.Error(w, http.StatusBadGateway, "EXTRACTION_FAILED",
			"The AI response contained no parseable result", nil)
	case errors.Is(err, analysis.ErrValidationFailed):
		response.Error(w, http.StatusBadGateway, "VALIDATION_FAILED",
			"The AI response did not match the required result shape", nil)
	case errors.Is(err, ai.ErrProviderUnavailable):
		response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
			"The AI provider is not available", nil)
	case errors.Is(err, context.Canceled):
		// The client hung up; nobody reads this body, but the status
		// must not count as an upstream failure in access logs.
		response.Error(w, statusClientClosedRequest, "REQUEST_CANCELLED",
			"The request was cancelled before analysis finished", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
