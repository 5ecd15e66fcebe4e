package transport

import "net/http"

// Response wraps the outbound http.ResponseWriter. Headers accumulate in
// the underlying header map until the status line is written; after that
// the response is committed and further WriteHeader calls are ignored, so
// the transport is written to at most once per request.
type Response struct {
	w         http.ResponseWriter
	committed bool
}

// NewResponse wraps w.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// SetHeader sets a header, replacing any existing values.
func (r *Response) SetHeader(name, value string) { r.w.Header().Set(name, value) }

// AddHeader appends a header value without replacing existing ones.
func (r *Response) AddHeader(name, value string) { r.w.Header().Add(name, value) }

// DelHeader removes a header.
func (r *Response) DelHeader(name string) { r.w.Header().Del(name) }

// Header returns the first value of the named response header, or "".
func (r *Response) Header(name string) string { return r.w.Header().Get(name) }

// Committed reports whether the status line has been written.
func (r *Response) Committed() bool { return r.committed }

// WriteHeader writes the status line once. Subsequent calls are no-ops.
func (r *Response) WriteHeader(status int) {
	if r.committed {
		return
	}
	r.committed = true
	r.w.WriteHeader(status)
}

// Write sends body bytes, committing the response with status 200 first
// if no status line has been written yet.
func (r *Response) Write(p []byte) (int, error) {
	r.committed = true
	return r.w.Write(p)
}
