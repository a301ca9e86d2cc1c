package models

// Sentiment is the polarity assigned to a single review. There is no
// neutral category; every review resolves to exactly one of the two.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the two known labels.
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative
}

// Locale selects the prompt language and call strategy for a request.
type Locale string

const (
	LocaleDefault Locale = "default"
	LocaleKorean  Locale = "ko"
)

// Strategy is the call plan the pipeline uses for a locale. Exactly one
// strategy applies per locale; adding a locale means adding a case to
// StrategyFor, not scattering string comparisons through the pipeline.
type Strategy int

const (
	// StrategySinglePass classifies sentiment and extracts keywords in
	// one combined inference call.
	StrategySinglePass Strategy = iota
	// StrategyTwoPass classifies per-review sentiment first, then runs a
	// second call that extracts keywords conditioned on those labels.
	StrategyTwoPass
)

// StrategyFor maps a locale to its call strategy. Unknown locales fall
// back to the single-pass plan.
func StrategyFor(locale Locale) Strategy {
	switch locale {
	case LocaleKorean:
		return StrategyTwoPass
	default:
		return StrategySinglePass
	}
}
