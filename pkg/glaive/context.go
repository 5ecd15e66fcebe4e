package glaive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkoppen/glaive/pkg/transport"
)

// Context is the per-request mutable state shared by every handler
// invoked for one request: status code, negotiated content type, and
// exactly one result representation. It is created by the dispatcher and
// owned by exactly one goroutine at a time; when a handler installs a
// Future, ownership transfers to the resolving goroutine.
type Context struct {
	req *transport.Request
	res *transport.Response

	status      int
	contentType string
	body        result
	start       time.Time

	// normalizedPath is the path after case normalization, used for all
	// registry lookups including the async tail.
	normalizedPath string

	// pathParams is the per-binding view: rebound before each handler
	// invocation to that binding's captured parameters.
	pathParams map[string]string

	attributes map[string]any
}

func newContext(req *transport.Request, res *transport.Response, normalizedPath, contentType, serverName string) *Context {
	res.SetHeader("Server", serverName)
	return &Context{
		req:            req,
		res:            res,
		status:         http.StatusOK,
		contentType:    contentType,
		start:          time.Now(),
		normalizedPath: normalizedPath,
	}
}

// Request exposes the wrapped transport request.
func (c *Context) Request() *transport.Request { return c.req }

// Response exposes the wrapped transport response.
func (c *Context) Response() *transport.Response { return c.res }

// Method returns the request's HTTP method.
func (c *Context) Method() string { return c.req.Method() }

// Path returns the normalized request path.
func (c *Context) Path() string { return c.normalizedPath }

// Status sets the response status code.
func (c *Context) Status(code int) *Context {
	c.status = code
	return c
}

// StatusCode returns the current response status code.
func (c *Context) StatusCode() int { return c.status }

// Header sets a response header, replacing existing values.
func (c *Context) Header(name, value string) *Context {
	c.res.SetHeader(name, value)
	return c
}

// AppendHeader adds a response header value without replacing existing
// ones.
func (c *Context) AppendHeader(name, value string) *Context {
	c.res.AddHeader(name, value)
	return c
}

// ResponseHeader returns the current value of a response header.
func (c *Context) ResponseHeader(name string) string { return c.res.Header(name) }

// RequestHeader returns the first value of a request header.
func (c *Context) RequestHeader(name string) string { return c.req.Header(name) }

// ContentType overrides the response content type.
func (c *Context) ContentType(ct string) *Context {
	c.contentType = ct
	return c
}

// PathParam returns the named path parameter captured by the binding
// currently being invoked, or "".
func (c *Context) PathParam(name string) string { return c.pathParams[name] }

// QueryParam returns the first value of the named query parameter.
func (c *Context) QueryParam(name string) string { return c.req.Query(name) }

// Body returns the cached, re-readable request body.
func (c *Context) Body() ([]byte, error) { return c.req.Body() }

// Cookie returns the named request cookie.
func (c *Context) Cookie(name string) (*http.Cookie, error) { return c.req.Cookie(name) }

// SetCookie adds a Set-Cookie response header.
func (c *Context) SetCookie(cookie *http.Cookie) {
	c.res.AddHeader("Set-Cookie", cookie.String())
}

// Result installs r as the response body, replacing any previous result.
func (c *Context) Result(r io.Reader) *Context {
	c.body = result{kind: resultStream, stream: r}
	return c
}

// ResultBytes installs b as the response body.
func (c *Context) ResultBytes(b []byte) *Context {
	return c.Result(bytes.NewReader(b))
}

// ResultString installs s as the response body.
func (c *Context) ResultString(s string) *Context {
	return c.Result(bytes.NewReader([]byte(s)))
}

// ResultFuture installs a pending result. The dispatcher suspends the
// exchange and replays the tail lifecycle when f resolves.
func (c *Context) ResultFuture(f *Future) *Context {
	c.body = result{kind: resultPending, pending: f}
	return c
}

// ClearResult drops any installed result.
func (c *Context) ClearResult() *Context {
	c.body = result{}
	return c
}

// JSON marshals v, sets the content type to application/json and
// installs the encoded bytes as the result.
func (c *Context) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	c.ContentType("application/json").ResultBytes(data)
	return nil
}

// Redirect sets a Location header and status, with no body.
func (c *Context) Redirect(location string, status int) {
	c.Header("Location", location)
	c.Status(status)
	c.ResultBytes(nil)
}

// Set stores a request-scoped attribute, shared by every handler of this
// request.
func (c *Context) Set(key string, value any) {
	if c.attributes == nil {
		c.attributes = make(map[string]any)
	}
	c.attributes[key] = value
}

// Get returns a request-scoped attribute.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.attributes[key]
	return v, ok
}

// Elapsed returns the time since dispatch started.
func (c *Context) Elapsed() time.Duration { return time.Since(c.start) }

// pendingResult returns the installed future, if the result is pending.
func (c *Context) pendingResult() (*Future, bool) {
	if c.body.kind == resultPending {
		return c.body.pending, true
	}
	return nil, false
}
