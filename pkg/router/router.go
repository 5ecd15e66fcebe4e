// Package router holds the handler registry consulted during dispatch.
//
// Handlers are registered under a phase (BEFORE, an HTTP method, or AFTER)
// and a path pattern. Patterns are segment based: literal segments,
// `{name}` captures, and a trailing `*` wildcard. Lookup returns every
// matching binding in registration order; the dispatcher decides how many
// of them to invoke.
//
// The registry is append-only during setup and read-only during dispatch,
// so concurrent lookups from many in-flight requests need no locking.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Phase selects the registry bucket consulted for a lookup. It is either
// one of the two lifecycle phases below or an HTTP method.
type Phase string

const (
	// Before handlers run ahead of the endpoint handler.
	Before Phase = "BEFORE"

	// After handlers run once routing and status handling have concluded.
	After Phase = "AFTER"
)

// Method returns the phase for an HTTP method.
func Method(m string) Phase {
	return Phase(strings.ToUpper(m))
}

// methodPhases lists the endpoint phases considered by MethodsAt.
var methodPhases = []Phase{
	Phase(http.MethodGet),
	Phase(http.MethodPost),
	Phase(http.MethodPut),
	Phase(http.MethodPatch),
	Phase(http.MethodDelete),
	Phase(http.MethodHead),
	Phase(http.MethodOptions),
}

// Binding is an immutable (phase, pattern, handler) registration.
type Binding[H any] struct {
	Phase   Phase
	Raw     string
	Handler H

	pattern pattern
}

// Match is a binding that matched a concrete path, with the captured
// path parameters for that binding.
type Match[H any] struct {
	Binding *Binding[H]
	Params  map[string]string
}

// Registry stores bindings per phase in registration order.
type Registry[H any] struct {
	caseInsensitive bool
	bindings        map[Phase][]*Binding[H]
}

// New creates an empty registry. When caseInsensitive is set, pattern
// literals are lower-cased at registration; callers are expected to
// lower-case paths before lookup.
func New[H any](caseInsensitive bool) *Registry[H] {
	return &Registry[H]{
		caseInsensitive: caseInsensitive,
		bindings:        make(map[Phase][]*Binding[H]),
	}
}

// Add registers a handler under the given phase and path pattern.
func (r *Registry[H]) Add(phase Phase, raw string, handler H) error {
	p, err := parsePattern(raw, r.caseInsensitive)
	if err != nil {
		return fmt.Errorf("registering %s %s: %w", phase, raw, err)
	}

	r.bindings[phase] = append(r.bindings[phase], &Binding[H]{
		Phase:   phase,
		Raw:     raw,
		Handler: handler,
		pattern: p,
	})
	return nil
}

// Lookup returns every binding of the phase matching path, in
// registration order. The returned slice is nil when nothing matches.
func (r *Registry[H]) Lookup(phase Phase, path string) []Match[H] {
	var matches []Match[H]
	for _, b := range r.bindings[phase] {
		if params, ok := b.pattern.match(path); ok {
			matches = append(matches, Match[H]{Binding: b, Params: params})
		}
	}
	return matches
}

// MethodsAt returns the sorted set of HTTP methods that have at least one
// binding matching path. Used to build the Allow set for 405 responses.
func (r *Registry[H]) MethodsAt(path string) []string {
	var methods []string
	for _, phase := range methodPhases {
		for _, b := range r.bindings[phase] {
			if _, ok := b.pattern.match(path); ok {
				methods = append(methods, string(phase))
				break
			}
		}
	}
	sort.Strings(methods)
	return methods
}
