// Package analysis turns raw model text into validated pipeline results.
// It is pure derivation over pkg/models: no I/O, no provider knowledge.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExtractionFailed means no parseable structured payload was found
	// in the model's text.
	ErrExtractionFailed = errors.New("no parseable structured payload in model output")
	// ErrValidationFailed means a payload parsed but violates the
	// required result shape.
	ErrValidationFailed = errors.New("structured payload violates required shape")
)

// ExtractPayload locates the embedded JSON object in raw model text and
// parses it. The span runs from the first "{" to the last "}" — a greedy
// match, lenient about surrounding prose but strict about the payload
// itself. Keep it greedy: a minimal match would truncate a multi-object
// payload. On failure the caller must not guess or repair syntax.
func ExtractPayload(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: no brace-delimited span", ErrExtractionFailed)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return payload, nil
}
