package ai

import "errors"

var (
	ErrMissingCredentials  = errors.New("inference credentials not configured")
	ErrEmptyBatch          = errors.New("no usable reviews in batch")
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
)
