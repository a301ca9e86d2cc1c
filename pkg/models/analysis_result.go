package models

// Keyword is one ranked aspect extracted from the review batch.
//
// Count is the model's stated mention frequency; ReviewIndices is the
// subset of reviews the model judged most related to the aspect. The two
// are different measures and are never cross-checked against each other.
type Keyword struct {
	Keyword       string    `json:"keyword"`
	Sentiment     Sentiment `json:"sentiment"`
	Count         int       `json:"count"`
	ReviewIndices []int     `json:"reviewIndices"`
	Aspect        string    `json:"aspect"`
}

// AnalysisResult is the canonical output of one pipeline invocation.
// It is constructed once from validated model output, never mutated
// afterwards, and holds no reference to any request-scoped state.
//
// Keywords are grouped by sentiment (positive first) and sorted
// descending by Count within each group.
type AnalysisResult struct {
	TotalCount    int       `json:"totalCount"`
	PositiveCount int       `json:"positiveCount"`
	NegativeCount int       `json:"negativeCount"`
	Positive      float64   `json:"positive"`
	Negative      float64   `json:"negative"`
	Keywords      []Keyword `json:"keywords"`
}
