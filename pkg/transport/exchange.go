package transport

import (
	"net/http"
	"sync"
)

// Exchange pairs one request with its response and carries the
// suspend/complete state for asynchronous completion. The http.Handler
// adapter blocks on Done after dispatch when the exchange was suspended;
// the continuation calls Complete once the deferred tail has run.
type Exchange struct {
	Req *Request
	Res *Response

	mu        sync.Mutex
	suspended bool
	done      chan struct{}
	completed bool
}

// NewExchange builds an exchange over the host server's raw objects.
func NewExchange(w http.ResponseWriter, r *http.Request, maxBody int64) *Exchange {
	return &Exchange{
		Req:  NewRequest(r, maxBody),
		Res:  NewResponse(w),
		done: make(chan struct{}),
	}
}

// Suspend puts the exchange into asynchronous mode. Called by the
// dispatcher when a handler installed a pending result.
func (e *Exchange) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspended = true
}

// Suspended reports whether completion has been deferred.
func (e *Exchange) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suspended
}

// Complete signals that a suspended exchange has finished. Safe to call
// more than once.
func (e *Exchange) Complete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.completed {
		return
	}
	e.completed = true
	close(e.done)
}

// Done is closed when Complete is called.
func (e *Exchange) Done() <-chan struct{} { return e.done }
