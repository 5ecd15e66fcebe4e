package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestPingEndpoint(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/ping")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "pong" {
		t.Errorf("body = %q, want pong", body)
	}
	if got := resp.Header.Get("Server"); got != "glaive-test" {
		t.Errorf("Server header = %q, want glaive-test", got)
	}
}

func TestPathParameters(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/greet/ada")
	defer resp.Body.Close()

	body := readBody(t, resp)
	if !strings.Contains(body, "hello ada") {
		t.Errorf("body = %q, want to contain 'hello ada'", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestUnknownPathUsesStatusHandler(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/definitely/not/here")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "not found") {
		t.Errorf("body = %q, want custom 404 payload", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	resp, err := http.DefaultClient.Do(mustRequest(t, http.MethodDelete, testEnv.BaseURL()+"/things"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
	allow := resp.Header.Get("Allow")
	if !strings.Contains(allow, "POST") || !strings.Contains(allow, "PUT") {
		t.Errorf("Allow = %q, want POST and PUT", allow)
	}
}

func TestHeadFallsBackToGet(t *testing.T) {
	resp, err := http.Head(testEnv.BaseURL() + "/ping")
	if err != nil {
		t.Fatalf("HEAD request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "" {
		t.Errorf("HEAD body = %q, want empty", body)
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/boom")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestAsyncEndpoint(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/slow")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "eventually" {
		t.Errorf("body = %q, want eventually", body)
	}
}

func mustRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	return req
}
