package analyzer

import "errors"

var (
	// ErrUnknownAlgorithm is returned when a hash algorithm name is not supported.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrInvalidCacheSize is returned when the analysis cache size is not positive.
	ErrInvalidCacheSize = errors.New("analysis cache size must be greater than 0")
)
