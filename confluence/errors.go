package confluence

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an API error.
type Error struct {
	StatusCode int
	Message    string
	Op         string // Operation that failed (e.g., "ListContent")
	Transient  bool   // Network failures and 429/5xx responses
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err indicates a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsAuthFailure reports whether err indicates rejected credentials.
func IsAuthFailure(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsTransient reports whether err is worth retrying: a network failure,
// a 429, or a 5xx response.
func IsTransient(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Transient
	}
	return false
}
