// Package prompt renders the instruction text sent to the inference
// backend. Reviews are numbered 1..N for the model's benefit; every
// prompt instructs the model to answer with 0-based review indices, and
// the normalizer in internal/analysis relies on that offset.
package prompt

import (
	"fmt"
	"strings"

	"github.com/reviewlens/reviewlens/pkg/models"
)

// DefaultMaxKeywords is the number of keywords requested per sentiment
// when a params struct leaves MaxKeywords at zero.
const DefaultMaxKeywords = 5

// resultSchema is the exact payload shape every final-stage prompt asks
// the model to return.
const resultSchema = `{"totalCount": <int>, "positiveCount": <int>, "negativeCount": <int>, ` +
	`"positive": <percent 0-100>, "negative": <percent 0-100>, ` +
	`"keywords": [{"keyword": "<short phrase>", "sentiment": "positive"|"negative", ` +
	`"count": <int>, "reviewIndices": [<0-based int>, ...], "aspect": "<label>"}]}`

// sentimentSchema is the payload shape the two-pass classification stage
// asks for.
const sentimentSchema = `{"sentiments": ["positive"|"negative", ...]}`

// Builder constructs inference prompts.
// All methods are pure functions with no side effects.
// Zero value is ready to use.
type Builder struct{}

// SinglePassParams defines inputs for the combined classify-and-extract prompt.
type SinglePassParams struct {
	Reviews     []string
	Locale      models.Locale
	MaxKeywords int
}

// SentimentStageParams defines inputs for stage 1 of the two-pass strategy.
type SentimentStageParams struct {
	Reviews []string
	Locale  models.Locale
}

// KeywordStageParams defines inputs for stage 2 of the two-pass strategy.
// Sentiments must be the validated stage-1 labels, one per review in
// input order.
type KeywordStageParams struct {
	Reviews     []string
	Sentiments  []models.Sentiment
	Locale      models.Locale
	MaxKeywords int
}

// System returns the role context accompanying every prompt for the
// given locale.
func (b Builder) System(locale models.Locale) string {
	if locale == models.LocaleKorean {
		return "당신은 고객 리뷰를 분석하는 감정 분석 전문가입니다. 요청된 JSON 형식으로만 답변하세요."
	}
	return "You are a sentiment analysis expert for customer reviews. Respond only with the requested JSON."
}

// BuildSinglePass returns the combined instruction block for the
// single-pass strategy.
func (b Builder) BuildSinglePass(p SinglePassParams) string {
	max := maxKeywords(p.MaxKeywords)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are given %d customer reviews, numbered 1..%d in input order.\n\n", len(p.Reviews), len(p.Reviews))
	sb.WriteString("Reviews:\n")
	b.writeNumberedReviews(&sb, p.Reviews)
	sb.WriteString("\nTasks:\n")
	sb.WriteString("- Classify every review as positive or negative. There is no neutral; pick one.\n")
	sb.WriteString("- Report totalCount, positiveCount and negativeCount, and the positive/negative percentages.\n")
	sb.WriteString("- Extract concise aspect-level keywords. Not too generic (not bare \"quality\") and not too granular (not \"nice wood scent\").\n")
	sb.WriteString("- Merge synonymous aspects into one canonical keyword.\n")
	sb.WriteString("- For each keyword, list in reviewIndices the 0-based indices of the reviews most related to it. Review number k above has index k-1.\n")
	fmt.Fprintf(&sb, "- Within each sentiment, sort keywords descending by count and return only the top %d.\n", max)
	sb.WriteString("\nReturn only a JSON object in exactly this shape, with no prose outside it:\n")
	sb.WriteString(resultSchema)
	sb.WriteString("\n")
	return sb.String()
}

// BuildSentimentStage returns the stage-1 prompt of the two-pass
// strategy: per-review classification only, nothing else.
func (b Builder) BuildSentimentStage(p SentimentStageParams) string {
	var sb strings.Builder
	if p.Locale == models.LocaleKorean {
		fmt.Fprintf(&sb, "다음은 고객 리뷰 %d개입니다. 입력 순서대로 1..%d번입니다.\n\n", len(p.Reviews), len(p.Reviews))
		sb.WriteString("리뷰:\n")
		b.writeNumberedReviews(&sb, p.Reviews)
		sb.WriteString("\n각 리뷰를 positive 또는 negative로 분류하세요. neutral은 없습니다.\n")
		fmt.Fprintf(&sb, "sentiments 배열은 입력과 같은 순서로 정확히 %d개의 값을 가져야 합니다.\n", len(p.Reviews))
		sb.WriteString("\n다음 형태의 JSON 객체만 반환하세요:\n")
	} else {
		fmt.Fprintf(&sb, "You are given %d customer reviews, numbered 1..%d in input order.\n\n", len(p.Reviews), len(p.Reviews))
		sb.WriteString("Reviews:\n")
		b.writeNumberedReviews(&sb, p.Reviews)
		sb.WriteString("\nClassify each review as positive or negative. There is no neutral.\n")
		fmt.Fprintf(&sb, "The sentiments array must contain exactly %d values, in input order.\n", len(p.Reviews))
		sb.WriteString("\nReturn only a JSON object in exactly this shape:\n")
	}
	sb.WriteString(sentimentSchema)
	sb.WriteString("\n")
	return sb.String()
}

// BuildKeywordStage returns the stage-2 prompt of the two-pass strategy.
// The stage-1 labels are re-transmitted next to each review and declared
// ground truth: the model must not re-derive sentiment.
func (b Builder) BuildKeywordStage(p KeywordStageParams) string {
	max := maxKeywords(p.MaxKeywords)

	var sb strings.Builder
	if p.Locale == models.LocaleKorean {
		fmt.Fprintf(&sb, "다음은 고객 리뷰 %d개와 이미 확정된 감정 분류입니다.\n\n", len(p.Reviews))
		sb.WriteString("리뷰:\n")
		b.writeLabeledReviews(&sb, p.Reviews, p.Sentiments)
		sb.WriteString("\n감정을 다시 판단하지 마세요. 표시된 분류를 사실로 사용하세요. 최종 감정은 문장 단위 의미로 이미 판정되었습니다.\n")
		sb.WriteString("키워드 추출과 집계만 수행하세요:\n")
		sb.WriteString("- 간결한 속성 수준의 키워드를 추출하세요. 너무 포괄적이지도(단순 \"품질\" 금지), 너무 세부적이지도 않게.\n")
		sb.WriteString("- 동의어 속성은 하나의 대표 키워드로 병합하세요.\n")
		sb.WriteString("- 각 키워드의 reviewIndices에는 가장 관련 있는 리뷰의 0 기반 인덱스를 넣으세요. 위의 k번 리뷰는 인덱스 k-1입니다.\n")
		fmt.Fprintf(&sb, "- 감정별로 count 내림차순 정렬 후 상위 %d개만 반환하세요.\n", max)
		sb.WriteString("\n다음 형태의 JSON 객체만 반환하고, 그 외 텍스트는 쓰지 마세요:\n")
	} else {
		fmt.Fprintf(&sb, "You are given %d customer reviews together with their already-decided sentiment.\n\n", len(p.Reviews))
		sb.WriteString("Reviews:\n")
		b.writeLabeledReviews(&sb, p.Reviews, p.Sentiments)
		sb.WriteString("\nDo not re-derive sentiment; treat the shown labels as ground truth. Final sentiment was already judged by sentence-level meaning.\n")
		sb.WriteString("Perform only keyword extraction and aggregation:\n")
		sb.WriteString("- Extract concise aspect-level keywords. Not too generic (not bare \"quality\") and not too granular (not \"nice wood scent\").\n")
		sb.WriteString("- Merge synonymous aspects into one canonical keyword.\n")
		sb.WriteString("- For each keyword, list in reviewIndices the 0-based indices of the reviews most related to it. Review number k above has index k-1.\n")
		fmt.Fprintf(&sb, "- Within each sentiment, sort keywords descending by count and return only the top %d.\n", max)
		sb.WriteString("\nReturn only a JSON object in exactly this shape, with no prose outside it:\n")
	}
	sb.WriteString(resultSchema)
	sb.WriteString("\n")
	return sb.String()
}

func (b Builder) writeNumberedReviews(sb *strings.Builder, reviews []string) {
	for i, r := range reviews {
		fmt.Fprintf(sb, "%d. %s\n", i+1, r)
	}
}

func (b Builder) writeLabeledReviews(sb *strings.Builder, reviews []string, sentiments []models.Sentiment) {
	for i, r := range reviews {
		label := ""
		if i < len(sentiments) {
			label = string(sentiments[i])
		}
		fmt.Fprintf(sb, "%d. [%s] %s\n", i+1, label, r)
	}
}

func maxKeywords(n int) int {
	if n <= 0 {
		return DefaultMaxKeywords
	}
	return n
}
