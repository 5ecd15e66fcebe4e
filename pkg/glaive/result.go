package glaive

import (
	"io"
	"sync"
)

// resultKind tags the context's result variant. Exactly one of the three
// cases holds at any time; installing a new result replaces the previous
// one.
type resultKind int

const (
	resultNone resultKind = iota
	resultStream
	resultPending
)

// result is the context's response payload: nothing, an immediate byte
// stream, or a pending value that will resolve to one.
type result struct {
	kind    resultKind
	stream  io.Reader
	pending *Future
}

// Future is a pending asynchronous result. A handler installs it with
// Context.ResultFuture and resolves it later, from any goroutine, with
// Complete or Fail. The dispatcher attaches a single continuation that
// replays the tail of the request lifecycle; the continuation runs on
// the resolving goroutine (or immediately on subscribe when the future
// is already resolved). Only the first resolution counts.
type Future struct {
	mu       sync.Mutex
	resolved bool
	value    any
	err      error
	cont     func(value any, err error)
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{}
}

// Complete resolves the future with a value. Values of type string,
// []byte, or io.Reader become the response body; anything else leaves
// the context's result unchanged.
func (f *Future) Complete(value any) {
	f.resolve(value, nil)
}

// Fail resolves the future with an error, which is routed through the
// fault boundary before the tail lifecycle runs.
func (f *Future) Fail(err error) {
	f.resolve(nil, err)
}

func (f *Future) resolve(value any, err error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.resolved = true
	f.value = value
	f.err = err
	cont := f.cont
	f.cont = nil
	f.mu.Unlock()

	if cont != nil {
		cont(value, err)
	}
}

// subscribe attaches the single continuation. If the future is already
// resolved the continuation runs immediately on the calling goroutine.
func (f *Future) subscribe(cont func(value any, err error)) {
	f.mu.Lock()
	if !f.resolved {
		f.cont = cont
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	cont(value, err)
}
