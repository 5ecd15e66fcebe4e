package glaive

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestFinalizeNoResultIsNoop(t *testing.T) {
	app := New()
	app.Get("/empty", func(c *Context) error {
		c.Header("X-Seen", "yes")
		return nil
	})

	rec := perform(app, "GET", "/empty")
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want nothing written", rec.Body.String())
	}
}

func TestFinalizeNoResultKeepsStatus(t *testing.T) {
	app := New()
	app.Delete("/things/{id}", func(c *Context) error {
		c.Status(204)
		return nil
	})

	rec := perform(app, "DELETE", "/things/7")
	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestFinalizeCommittedIsNoop(t *testing.T) {
	app := New()
	app.Get("/direct", func(c *Context) error {
		// The handler writes to the sink itself; finalization must not
		// write a second time.
		c.Response().WriteHeader(204)
		c.ResultString("should never appear")
		return nil
	})

	rec := perform(app, "GET", "/direct")
	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty after direct write", rec.Body.String())
	}
}

func TestAutoETagAndNotModified(t *testing.T) {
	app := New(WithAutogenerateETags(true))
	app.Get("/doc", func(c *Context) error {
		c.ResultString("stable content")
		return nil
	})

	// First request: body plus a computed ETag.
	first := perform(app, "GET", "/doc")
	tag := first.Header().Get("ETag")
	if tag == "" {
		t.Fatal("no ETag header on auto-ETag GET response")
	}
	if first.Body.String() != "stable content" {
		t.Errorf("body = %q", first.Body.String())
	}

	// Conditional revalidation: 304, no body.
	second := perform(app, "GET", "/doc", "If-None-Match", tag)
	if second.Code != 304 {
		t.Errorf("status = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Errorf("304 carried a body: %q", second.Body.String())
	}

	// Non-matching validator: full response with the ETag present.
	third := perform(app, "GET", "/doc", "If-None-Match", `"something-else"`)
	if third.Code != 200 || third.Body.String() != "stable content" {
		t.Errorf("status = %d, body = %q", third.Code, third.Body.String())
	}
	if third.Header().Get("ETag") != tag {
		t.Errorf("ETag = %q, want %q", third.Header().Get("ETag"), tag)
	}
}

func TestExplicitETagRespected(t *testing.T) {
	app := New() // auto-generation off
	app.Get("/doc", func(c *Context) error {
		c.Header("ETag", `"v7"`)
		c.ResultString("content")
		return nil
	})

	rec := perform(app, "GET", "/doc", "If-None-Match", `"v7"`)
	if rec.Code != 304 {
		t.Errorf("status = %d, want 304 for explicit ETag match", rec.Code)
	}
}

func TestNoAutoETagForPost(t *testing.T) {
	app := New(WithAutogenerateETags(true))
	app.Post("/doc", func(c *Context) error {
		c.ResultString("created")
		return nil
	})

	rec := perform(app, "POST", "/doc")
	if rec.Header().Get("ETag") != "" {
		t.Errorf("ETag = %q on POST, want none", rec.Header().Get("ETag"))
	}
}

func TestGzipLargeBody(t *testing.T) {
	body := strings.Repeat("a", 2000)
	app := New(WithDynamicGzip(true))
	app.Get("/big", func(c *Context) error {
		c.ResultString(body)
		return nil
	})

	rec := perform(app, "GET", "/big", "Accept-Encoding", "gzip, deflate")
	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", enc)
	}

	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not valid gzip: %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}
	if string(decoded) != body {
		t.Errorf("decompressed %d bytes, mismatch with original %d bytes", len(decoded), len(body))
	}
}

func TestNoGzipSmallBody(t *testing.T) {
	app := New(WithDynamicGzip(true))
	app.Get("/small", func(c *Context) error {
		c.ResultString(strings.Repeat("a", 1000))
		return nil
	})

	rec := perform(app, "GET", "/small", "Accept-Encoding", "gzip")
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q for 1000-byte body, want none", enc)
	}
}

func TestNoGzipWithoutAcceptEncoding(t *testing.T) {
	app := New(WithDynamicGzip(true))
	app.Get("/big", func(c *Context) error {
		c.ResultString(strings.Repeat("a", 2000))
		return nil
	})

	rec := perform(app, "GET", "/big")
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q without Accept-Encoding, want none", enc)
	}
}

func TestGzipAcceptEncodingCaseInsensitive(t *testing.T) {
	app := New(WithDynamicGzip(true))
	app.Get("/big", func(c *Context) error {
		c.ResultString(strings.Repeat("a", 2000))
		return nil
	})

	rec := perform(app, "GET", "/big", "Accept-Encoding", "GZIP")
	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Errorf("Content-Encoding = %q for Accept-Encoding: GZIP, want gzip", enc)
	}
}

func TestGzipDisabled(t *testing.T) {
	app := New(WithDynamicGzip(false))
	app.Get("/big", func(c *Context) error {
		c.ResultString(strings.Repeat("a", 2000))
		return nil
	})

	rec := perform(app, "GET", "/big", "Accept-Encoding", "gzip")
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Errorf("Content-Encoding = %q with gzip disabled, want none", enc)
	}
}

func TestResultStreamClosed(t *testing.T) {
	rc := &recordingCloser{Reader: strings.NewReader("content")}
	app := New()
	app.Get("/stream", func(c *Context) error {
		c.Result(rc)
		return nil
	})

	rec := perform(app, "GET", "/stream")
	if rec.Body.String() != "content" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if !rc.closed {
		t.Error("result stream was not closed")
	}
}

func TestResultReplacedNotAppended(t *testing.T) {
	app := New()
	app.Get("/x", func(c *Context) error {
		c.ResultString("first")
		c.ResultString("second")
		return nil
	})

	rec := perform(app, "GET", "/x")
	if rec.Body.String() != "second" {
		t.Errorf("body = %q, want only the last result", rec.Body.String())
	}
}

func TestDefaultContentType(t *testing.T) {
	app := New(WithDefaultContentType("application/xml"))
	app.Get("/x", func(c *Context) error {
		c.ResultString("<x/>")
		return nil
	})

	rec := perform(app, "GET", "/x")
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type = %q, want application/xml", ct)
	}
}

func TestJSONHelper(t *testing.T) {
	app := New()
	app.Get("/j", func(c *Context) error {
		return c.JSON(map[string]int{"n": 7})
	})

	rec := perform(app, "GET", "/j")
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != `{"n":7}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

type recordingCloser struct {
	io.Reader
	closed bool
}

func (r *recordingCloser) Close() error {
	r.closed = true
	return nil
}

func TestFinalizeIdempotentAfterCommit(t *testing.T) {
	// Calling finalize against an already committed sink writes nothing.
	rec := httptest.NewRecorder()
	app := New()
	app.Get("/x", func(c *Context) error {
		c.ResultString("once")
		return nil
	})
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

	if rec.Body.String() != "once" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
