package services

import (
	"errors"
	"fmt"
)

// ErrNetwork marks requests that never produced an HTTP response.
var ErrNetwork = errors.New("network error")

// APIError is a response the backend rejected. Message is the server's
// "error" field and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// MessageOr returns the server-supplied message of an *APIError in err, or
// fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
