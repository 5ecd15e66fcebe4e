// Package transport wraps the host server's request and response objects
// behind the small surface the dispatch engine needs: header and body
// access on the way in, a write-once byte sink on the way out, and an
// explicit suspend/complete mode for asynchronous completion.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodySize bounds how many request body bytes are cached for
// re-reading.
const DefaultMaxBodySize = 10 << 20 // 10 MB

// Request wraps an inbound *http.Request. The body is read once, cached
// up to a configured maximum, and can be consumed any number of times.
type Request struct {
	raw     *http.Request
	maxBody int64

	bodyRead bool
	body     []byte
	bodyErr  error
}

// NewRequest wraps r. A maxBody of 0 applies DefaultMaxBodySize.
func NewRequest(r *http.Request, maxBody int64) *Request {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	return &Request{raw: r, maxBody: maxBody}
}

// Method returns the HTTP method, upper-cased by net/http.
func (r *Request) Method() string { return r.raw.Method }

// Path returns the unnormalized request path.
func (r *Request) Path() string { return r.raw.URL.Path }

// Header returns the first value of the named header, or "".
func (r *Request) Header(name string) string { return r.raw.Header.Get(name) }

// Query returns the first value of the named query parameter, or "".
func (r *Request) Query(name string) string { return r.raw.URL.Query().Get(name) }

// Cookie returns the named cookie, or http.ErrNoCookie.
func (r *Request) Cookie(name string) (*http.Cookie, error) { return r.raw.Cookie(name) }

// Context returns the request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// Raw exposes the underlying request for collaborators that need more
// than this surface (authenticators, static resolvers).
func (r *Request) Raw() *http.Request { return r.raw }

// Body returns the cached request body. The first call drains the
// underlying reader; every call returns the same bytes. Bodies larger
// than the configured maximum fail with an error rather than being
// silently truncated.
func (r *Request) Body() ([]byte, error) {
	if r.bodyRead {
		return r.body, r.bodyErr
	}
	r.bodyRead = true

	if r.raw.Body == nil {
		return nil, nil
	}
	defer r.raw.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.raw.Body, r.maxBody+1))
	if err != nil {
		r.bodyErr = fmt.Errorf("reading request body: %w", err)
		return nil, r.bodyErr
	}
	if int64(len(data)) > r.maxBody {
		r.bodyErr = fmt.Errorf("request body exceeds %d bytes", r.maxBody)
		return nil, r.bodyErr
	}

	r.body = data
	return r.body, nil
}

// BodyReader returns a fresh reader over the cached body.
func (r *Request) BodyReader() (io.Reader, error) {
	data, err := r.Body()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
