package overpass

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayTimeout is matched by a StatusError for HTTP 504.
	ErrGatewayTimeout = errors.New("overpass: gateway timeout")

	// ErrRateLimited is matched by a StatusError for HTTP 429.
	ErrRateLimited = errors.New("overpass: rate limited")

	// ErrTimeout is returned when a single request exceeds the client timeout.
	ErrTimeout = errors.New("overpass: request timeout")

	// ErrRetriesExhausted wraps the last error once every attempt failed.
	ErrRetriesExhausted = errors.New("overpass: retries exhausted")
)

// StatusError reports a non-2xx response from the interpreter.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("overpass: HTTP %d", e.Code)
	}
	return fmt.Sprintf("overpass: HTTP %d: %s", e.Code, e.Body)
}

// Unwrap maps retryable status codes onto their sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case 504:
		return ErrGatewayTimeout
	case 429:
		return ErrRateLimited
	default:
		return nil
	}
}
