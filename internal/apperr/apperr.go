// Package apperr defines the structured error surfaced by the storage layer.
//
// Every failure that crosses a package boundary is wrapped in an *Error
// carrying an HTTP-style status code and a human-readable detail string.
// The web layer translates it directly into a response; callers never see
// raw driver errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a service-level error with an HTTP-style status code.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Detail)
}

// New returns an Error with the given status code and detail.
func New(status int, detail string) *Error {
	return &Error{StatusCode: status, Detail: detail}
}

// Newf is New with formatting.
func Newf(status int, format string, args ...any) *Error {
	return &Error{StatusCode: status, Detail: fmt.Sprintf(format, args...)}
}

// SQL wraps a driver-level failure as a 500 with the original message embedded.
func SQL(err error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Detail: "SQL error: " + err.Error()}
}

// From extracts an *Error from err's chain. The second return is false when
// err carries no service error.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
