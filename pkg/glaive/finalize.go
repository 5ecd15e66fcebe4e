package glaive

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

// gzipThreshold is the body size above which dynamic compression kicks
// in, approximating one network transmission unit.
const gzipThreshold = 1500

// finalizer converts the context's final state into bytes on the
// transport, applying conditional-GET short-circuiting and compression
// negotiation. It writes at most once.
type finalizer struct {
	autogenerateETags bool
	dynamicGzip       bool
}

// finalize writes the response. It is a no-op when the sink is already
// committed or the context holds no immediate result. I/O failures are
// returned, not masked: handler-level failure handling has already
// concluded by this point.
func (f finalizer) finalize(c *Context) error {
	if c.res.Committed() {
		return nil
	}
	if c.body.kind != resultStream {
		// No payload to write, but a handler-set status still has to
		// reach the wire instead of the transport's default.
		if c.status != http.StatusOK {
			c.res.WriteHeader(c.status)
		}
		return nil
	}

	body, err := io.ReadAll(c.body.stream)
	if closer, ok := c.body.stream.(io.Closer); ok {
		closer.Close()
	}
	if err != nil {
		return fmt.Errorf("draining result: %w", err)
	}

	if f.handleETag(c, body) {
		// Conditional short-circuit: 304, no body.
		c.Status(http.StatusNotModified)
		c.res.WriteHeader(http.StatusNotModified)
		return nil
	}

	if c.res.Header("Content-Type") == "" {
		c.res.SetHeader("Content-Type", c.contentType)
	}

	if f.compressible(c, body) {
		c.res.SetHeader("Content-Encoding", "gzip")
		c.res.WriteHeader(c.status)
		zw := gzip.NewWriter(c.res)
		if _, err := zw.Write(body); err != nil {
			return fmt.Errorf("compressing response: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("flushing compressed response: %w", err)
		}
		return nil
	}

	c.res.SetHeader("Content-Length", strconv.Itoa(len(body)))
	c.res.WriteHeader(c.status)
	if _, err := c.res.Write(body); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// handleETag applies ETag policy and reports whether the request is
// satisfied by a 304. An ETag is sent when the response already carries
// one, or when auto-generation is enabled and the method is GET.
func (f finalizer) handleETag(c *Context, body []byte) bool {
	tag := c.res.Header("ETag")
	if tag == "" {
		if !f.autogenerateETags || c.Method() != http.MethodGet {
			return false
		}
		tag = `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
	}
	c.res.SetHeader("ETag", tag)
	return c.req.Header("If-None-Match") == tag
}

// compressible reports whether the result should be gzip encoded:
// dynamic compression enabled, body larger than one transmission unit,
// and the client accepting gzip.
func (f finalizer) compressible(c *Context, body []byte) bool {
	if !f.dynamicGzip || len(body) <= gzipThreshold {
		return false
	}
	return strings.Contains(strings.ToLower(c.req.Header("Accept-Encoding")), "gzip")
}
