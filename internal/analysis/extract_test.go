package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPayload_BarePayload(t *testing.T) {
	payload, err := ExtractPayload(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), payload["a"])
}

func TestExtractPayload_ProseWrapped(t *testing.T) {
	payload, err := ExtractPayload(`Sure! {"a":1} Thanks.`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), payload["a"])
}

func TestExtractPayload_GreedySpanKeepsNestedObjects(t *testing.T) {
	// The span must run to the LAST brace; a minimal match would cut the
	// payload off after the first nested object.
	raw := `Here you go: {"keywords": [{"keyword": "price"}, {"keyword": "design"}], "totalCount": 2} done`
	payload, err := ExtractPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(2), payload["totalCount"])
	assert.Len(t, payload["keywords"], 2)
}

func TestExtractPayload_NoBraces(t *testing.T) {
	_, err := ExtractPayload("I could not produce a result, sorry.")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPayload_EmptyInput(t *testing.T) {
	_, err := ExtractPayload("")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPayload_InvalidJSONInsideSpan(t *testing.T) {
	// No best-effort repair: invalid JSON inside the outermost braces fails.
	_, err := ExtractPayload(`prefix {"a": 1,,} suffix`)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPayload_UnbalancedBraces(t *testing.T) {
	_, err := ExtractPayload(`{"a": {"b": 1}`)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPayload_ReversedBraces(t *testing.T) {
	_, err := ExtractPayload(`} nothing here {`)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
