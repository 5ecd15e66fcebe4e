package glaive

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// ExceptionHandler customizes the context mutation for a failure class
// registered with App.Exception.
type ExceptionHandler func(err error, c *Context)

type exceptionEntry struct {
	target  error
	handler ExceptionHandler
}

// faultBoundary isolates handler failures from the dispatch loop. guard
// runs an action and converts any returned error or recovered panic into
// context mutations; it never re-raises, so a failure in one phase can
// not abort the phases that follow it.
type faultBoundary struct {
	entries []exceptionEntry
	logger  *slog.Logger
}

func newFaultBoundary(logger *slog.Logger) *faultBoundary {
	return &faultBoundary{logger: logger}
}

// on registers an exception handler for failures matching target via
// errors.Is. Entries are consulted in registration order.
func (f *faultBoundary) on(target error, h ExceptionHandler) {
	f.entries = append(f.entries, exceptionEntry{target: target, handler: h})
}

// guard runs action and applies failure handling to c. Panics are
// recovered and treated as errors. The return value reports whether the
// action completed without failure.
func (f *faultBoundary) guard(c *Context, action func() error) bool {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				f.logger.Error("handler panic",
					slog.String("path", c.Path()),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return action()
	}()
	if err == nil {
		return true
	}
	f.apply(err, c)
	return false
}

// apply converts err into status and body mutations on c.
func (f *faultBoundary) apply(err error, c *Context) {
	for _, e := range f.entries {
		if errors.Is(err, e.target) {
			e.handler(err, c)
			return
		}
	}

	var he *HTTPError
	if errors.As(err, &he) {
		if len(he.Allowed) > 0 {
			c.Header("Allow", strings.Join(he.Allowed, ", "))
		}
		c.Status(he.Status).ResultString(he.Message)
		return
	}

	f.logger.Error("unhandled failure",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()))
	c.Status(http.StatusInternalServerError).ResultString("internal server error")
}
