package glaive

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Routing failure sentinels. Both are raised through the fault boundary
// like any handler failure, so App.Exception handlers can intercept them
// with errors.Is.
var (
	ErrRouteNotFound    = errors.New("no route matched")
	ErrMethodNotAllowed = errors.New("no route matched for method")
)

// HTTPError is a failure carrying the status code and plain-text body
// the fault boundary applies when no registered exception handler
// intercepts it. Routing failures (404, 405) are raised as HTTPErrors so
// user exception handlers can intercept them exactly like
// application-thrown failures.
type HTTPError struct {
	Status  int
	Message string

	// Allowed carries the Allow set for 405 responses.
	Allowed []string

	cause error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Unwrap exposes the underlying cause, letting errors.Is reach the
// routing sentinels.
func (e *HTTPError) Unwrap() error { return e.cause }

// NewHTTPError builds an HTTPError with the given status and message.
// An empty message defaults to the standard status text.
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

// WrapHTTPError builds an HTTPError around a cause, letting exception
// handlers registered for the cause intercept it with errors.Is.
func WrapHTTPError(status int, message string, cause error) *HTTPError {
	e := NewHTTPError(status, message)
	e.cause = cause
	return e
}

// errNotFound is the routing failure for paths with no binding and no
// satisfied fallback.
func errNotFound(path string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Message: "not found: " + path,
		cause:   ErrRouteNotFound,
	}
}

// errMethodNotAllowed is the routing failure raised when other methods
// have bindings at the path and the prefer-405 policy is enabled.
func errMethodNotAllowed(allowed []string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusMethodNotAllowed,
		Message: "method not allowed, available: " + strings.Join(allowed, ", "),
		Allowed: allowed,
		cause:   ErrMethodNotAllowed,
	}
}
