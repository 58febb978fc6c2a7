package pipeline

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrEmptyInput is returned for blank log text. Nothing is called or written.
	ErrEmptyInput = goerr.New("log text is empty")

	// ErrNoGenerator is returned when no classifier is configured.
	ErrNoGenerator = goerr.New("classifier is not configured")

	// ErrFallback is returned when even the raw fallback write fails.
	ErrFallback = goerr.New("fallback write failed")
)
