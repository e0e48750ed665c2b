package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a season file does not exist upstream
	ErrNotFound = errors.New("season file not found")

	// ErrEmptyBody is returned when the server answers with no content
	ErrEmptyBody = errors.New("empty response body")
)

// StatusError is a non-200 response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// Retryable reports whether the request may succeed when repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
