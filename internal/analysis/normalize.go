package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/reviewlens/reviewlens/pkg/models"
)

// NormalizeSentiments validates a stage-1 classification payload against
// the batch it was produced for. The payload must carry a "sentiments"
// array of valid labels whose length equals batchLen exactly; any
// violation fails outright, never truncated or padded.
func NormalizeSentiments(payload map[string]any, batchLen int) ([]models.Sentiment, error) {
	raw, ok := payload["sentiments"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing sentiments array", ErrValidationFailed)
	}
	if len(raw) != batchLen {
		return nil, fmt.Errorf("%w: got %d sentiments for %d reviews", ErrValidationFailed, len(raw), batchLen)
	}

	out := make([]models.Sentiment, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		label := models.Sentiment(strings.ToLower(strings.TrimSpace(s)))
		if !ok || !label.Valid() {
			return nil, fmt.Errorf("%w: sentiments[%d] is not a sentiment label", ErrValidationFailed, i)
		}
		out[i] = label
	}
	return out, nil
}

// NormalizeResult coerces a final-stage payload into an AnalysisResult.
//
// Counts must be present as non-negative integers and are never
// recomputed or cross-checked against each other. The percentage fields
// alone have a fallback: when absent, non-numeric or NaN they are
// recomputed from the counts (0 when totalCount is 0). This is a data
// completion step for a model that reported counts but forgot the
// percentages, not error recovery.
//
// Keywords are re-grouped positive before negative and sorted descending
// by count within each group. Review indices outside [0, batchLen) are
// dropped with a warning.
func NormalizeResult(payload map[string]any, batchLen int) (*models.AnalysisResult, error) {
	total, ok := intField(payload, "totalCount")
	if !ok {
		return nil, fmt.Errorf("%w: totalCount must be a non-negative integer", ErrValidationFailed)
	}
	positive, ok := intField(payload, "positiveCount")
	if !ok {
		return nil, fmt.Errorf("%w: positiveCount must be a non-negative integer", ErrValidationFailed)
	}
	negative, ok := intField(payload, "negativeCount")
	if !ok {
		return nil, fmt.Errorf("%w: negativeCount must be a non-negative integer", ErrValidationFailed)
	}

	keywords, err := normalizeKeywords(payload["keywords"], batchLen)
	if err != nil {
		return nil, err
	}
	sortKeywords(keywords)

	return &models.AnalysisResult{
		TotalCount:    total,
		PositiveCount: positive,
		NegativeCount: negative,
		Positive:      percentField(payload, "positive", positive, total),
		Negative:      percentField(payload, "negative", negative, total),
		Keywords:      keywords,
	}, nil
}

func normalizeKeywords(v any, batchLen int) ([]models.Keyword, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: keywords must be an array", ErrValidationFailed)
	}

	keywords := make([]models.Keyword, 0, len(raw))
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: keywords[%d] is not an object", ErrValidationFailed, i)
		}

		text, ok := m["keyword"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: keywords[%d].keyword must be a non-empty string", ErrValidationFailed, i)
		}

		s, _ := m["sentiment"].(string)
		sentiment := models.Sentiment(strings.ToLower(strings.TrimSpace(s)))
		if !sentiment.Valid() {
			return nil, fmt.Errorf("%w: keywords[%d].sentiment is not a sentiment label", ErrValidationFailed, i)
		}

		count, ok := intField(m, "count")
		if !ok {
			return nil, fmt.Errorf("%w: keywords[%d].count must be a non-negative integer", ErrValidationFailed, i)
		}

		indices, err := normalizeIndices(m["reviewIndices"], text, batchLen, i)
		if err != nil {
			return nil, err
		}

		aspect, _ := m["aspect"].(string)
		if strings.TrimSpace(aspect) == "" {
			aspect = text
		}

		keywords = append(keywords, models.Keyword{
			Keyword:       text,
			Sentiment:     sentiment,
			Count:         count,
			ReviewIndices: indices,
			Aspect:        aspect,
		})
	}
	return keywords, nil
}

func normalizeIndices(v any, keyword string, batchLen, pos int) ([]int, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: keywords[%d].reviewIndices must be an array", ErrValidationFailed, pos)
	}

	indices := make([]int, 0, len(raw))
	for _, e := range raw {
		f, ok := e.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: keywords[%d].reviewIndices contains a non-integer", ErrValidationFailed, pos)
		}
		idx := int(f)
		if idx < 0 || idx >= batchLen {
			slog.Warn("dropping out-of-range review index",
				"keyword", keyword, "index", idx, "batch_len", batchLen)
			continue
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// percentField returns the model-reported percentage when it is a usable
// number, otherwise recomputes it from the counts. Counts never get the
// equivalent treatment.
func percentField(payload map[string]any, key string, count, total int) float64 {
	if v, ok := payload[key].(float64); ok && !math.IsNaN(v) {
		return v
	}
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// intField reads a JSON number as a non-negative integer.
func intField(m map[string]any, key string) (int, bool) {
	f, ok := m[key].(float64)
	if !ok || f != math.Trunc(f) || f < 0 {
		return 0, false
	}
	return int(f), true
}

// sortKeywords orders the positive group before the negative group and
// each group descending by count. Stable so the model's ordering breaks
// ties.
func sortKeywords(keywords []models.Keyword) {
	rank := func(s models.Sentiment) int {
		if s == models.SentimentPositive {
			return 0
		}
		return 1
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Sentiment != keywords[j].Sentiment {
			return rank(keywords[i].Sentiment) < rank(keywords[j].Sentiment)
		}
		return keywords[i].Count > keywords[j].Count
	})
}
