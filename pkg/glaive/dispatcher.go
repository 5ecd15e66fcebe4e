package glaive

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/router"
	"github.com/mkoppen/glaive/pkg/transport"
)

// Handler processes one request against its Context. A returned error is
// caught by the fault boundary of the invoking phase.
type Handler func(c *Context) error

// Resolver is a last-resort handler tried for GET/HEAD requests that
// matched no endpoint. It reports whether it fully satisfied the request
// by installing a result on the context.
type Resolver interface {
	Resolve(c *Context) (bool, error)
}

// RequestLogger is invoked exactly once at the end of every completed
// lifecycle, on both the synchronous and the asynchronous path.
type RequestLogger func(c *Context, elapsed time.Duration)

// Dispatcher executes the full per-request lifecycle: before phase,
// endpoint phase (first match wins), fallback resolution, routing
// failures, status phase, after phase, finalization, and logging, with
// a dual synchronous/asynchronous completion path.
type Dispatcher struct {
	registry  *router.Registry[Handler]
	faults    *faultBoundary
	statuses  *statusHandlers
	resolvers []Resolver

	fin        finalizer
	logger     *slog.Logger
	requestLog RequestLogger

	caseInsensitive    bool
	prefer405          bool
	defaultContentType string
	serverName         string
}

// Dispatch runs the lifecycle for one exchange. It never fails: every
// handler failure is absorbed by the fault boundary and expressed as
// status and body on the context. When a handler installed a pending
// result, Dispatch returns after suspending the exchange; the remainder
// of the lifecycle runs on the goroutine resolving the future.
func (d *Dispatcher) Dispatch(ex *transport.Exchange) {
	path := ex.Req.Path()
	if d.caseInsensitive {
		path = strings.ToLower(path)
	}

	c := newContext(ex.Req, ex.Res, path, d.defaultContentType, d.serverName)
	debug.Log("dispatch", "request received", "method", c.Method(), "path", path)

	// A failed before phase diverts straight to the status phase; the
	// endpoint phase and fallbacks never run.
	if d.runPhase(c, router.Before) {
		d.runEndpoint(c)
	}

	// A pending result suspends the exchange here; the status and after
	// phases run on the resolving goroutine instead.
	if future, ok := c.pendingResult(); ok {
		ex.Suspend()
		future.subscribe(func(value any, err error) {
			d.resume(c, ex, value, err)
		})
		return
	}

	d.statuses.dispatch(c, d.faults)
	d.runPhase(c, router.After)
	d.complete(c)
}

// runPhase invokes every binding matched for a lifecycle phase, in
// registry order. The whole phase shares one fault guard, so a failing
// handler aborts the rest of its phase but not the phases after it.
func (d *Dispatcher) runPhase(c *Context, phase router.Phase) bool {
	matches := d.registry.Lookup(phase, c.Path())
	if len(matches) == 0 {
		return true
	}
	return d.faults.guard(c, func() error {
		for _, m := range matches {
			c.pathParams = m.Params
			if err := m.Binding.Handler(c); err != nil {
				return err
			}
		}
		return nil
	})
}

// runEndpoint resolves the endpoint phase: first matching binding for
// the request method, HEAD-to-GET satisfaction, fallback resolvers, and
// finally a routing failure raised through the fault boundary.
func (d *Dispatcher) runEndpoint(c *Context) {
	d.faults.guard(c, func() error {
		matches := d.registry.Lookup(router.Method(c.Method()), c.Path())
		if len(matches) > 0 {
			// First match wins; later bindings never execute.
			m := matches[0]
			c.pathParams = m.Params
			debug.Log("dispatch", "endpoint matched", "pattern", m.Binding.Raw)
			return m.Binding.Handler(c)
		}

		if c.Method() == http.MethodHead {
			if gets := d.registry.Lookup(router.Phase(http.MethodGet), c.Path()); len(gets) > 0 {
				// A GET binding satisfies HEAD with an empty body.
				c.Status(http.StatusOK).ResultBytes(nil)
				return nil
			}
		}

		if c.Method() == http.MethodGet || c.Method() == http.MethodHead {
			for _, r := range d.resolvers {
				ok, err := r.Resolve(c)
				if err != nil {
					return err
				}
				if ok {
					debug.Log("dispatch", "fallback satisfied request", "path", c.Path())
					return nil
				}
			}
		}

		if methods := d.registry.MethodsAt(c.Path()); len(methods) > 0 && d.prefer405 {
			return errMethodNotAllowed(methods)
		}
		return errNotFound(c.Path())
	})
}

// resume is the asynchronous continuation: it installs the resolved
// value (or routes the failure through the fault boundary), replays the
// status and after phases, finalizes, logs, and signals completion of
// the suspended exchange.
func (d *Dispatcher) resume(c *Context, ex *transport.Exchange, value any, err error) {
	defer ex.Complete()

	// The pending result is consumed either way; a resolved value that
	// is not a byte producer leaves the result empty.
	c.ClearResult()

	if err != nil {
		d.faults.guard(c, func() error { return err })
	} else {
		switch v := value.(type) {
		case string:
			c.ResultString(v)
		case []byte:
			c.ResultBytes(v)
		case io.Reader:
			c.Result(v)
		}
	}

	d.statuses.dispatch(c, d.faults)
	d.runPhase(c, router.After)
	d.complete(c)
}

// complete finalizes the response and logs the request. Finalization
// I/O failures are not masked by handler-level recovery; they are
// surfaced to the transport's log.
func (d *Dispatcher) complete(c *Context) {
	if err := d.fin.finalize(c); err != nil {
		d.logger.Error("finalization failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	d.requestLog(c, c.Elapsed())
}

// defaultRequestLogger records one structured line per completed
// lifecycle.
func defaultRequestLogger(logger *slog.Logger) RequestLogger {
	return func(c *Context, elapsed time.Duration) {
		logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request completed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.StatusCode()),
			slog.Duration("duration", elapsed))
	}
}
