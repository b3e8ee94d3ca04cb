package api

import (
	"errors"
	"fmt"
)

// ErrFetchFailed wraps every failure of a backend call: transport, status and decoding.
var ErrFetchFailed = errors.New("fetch failed")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrFetchFailed) hold for status errors.
func (e *StatusError) Unwrap() error {
	return ErrFetchFailed
}
