package router

import (
	"reflect"
	"testing"
)

type handler string

func mustAdd(t *testing.T, r *Registry[handler], phase Phase, raw string, h handler) {
	t.Helper()
	if err := r.Add(phase, raw, h); err != nil {
		t.Fatalf("Add(%s, %s) failed: %v", phase, raw, err)
	}
}

func TestLookupLiteral(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("GET"), "/users", "list")

	matches := r.Lookup(Method("GET"), "/users")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Binding.Handler != "list" {
		t.Errorf("handler = %q, want %q", matches[0].Binding.Handler, "list")
	}

	if got := r.Lookup(Method("GET"), "/other"); got != nil {
		t.Errorf("Lookup(/other) = %v, want nil", got)
	}
	if got := r.Lookup(Method("POST"), "/users"); got != nil {
		t.Errorf("Lookup(POST /users) = %v, want nil", got)
	}
}

func TestLookupPathParams(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("GET"), "/users/{id}/posts/{post}", "show")

	matches := r.Lookup(Method("GET"), "/users/42/posts/7")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	want := map[string]string{"id": "42", "post": "7"}
	if !reflect.DeepEqual(matches[0].Params, want) {
		t.Errorf("params = %v, want %v", matches[0].Params, want)
	}

	if got := r.Lookup(Method("GET"), "/users/42/posts"); got != nil {
		t.Errorf("partial path matched: %v", got)
	}
}

func TestLookupWildcard(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Before, "/admin/*", "guard")

	if got := r.Lookup(Before, "/admin/users/42"); len(got) != 1 {
		t.Errorf("wildcard did not match nested path, got %v", got)
	}
	if got := r.Lookup(Before, "/admin"); len(got) != 1 {
		t.Errorf("wildcard did not match its own root, got %v", got)
	}
	if got := r.Lookup(Before, "/other"); got != nil {
		t.Errorf("wildcard matched sibling path: %v", got)
	}
}

func TestLookupGlobalWildcard(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Before, "/*", "guard")

	for _, path := range []string{"/", "/x", "/a/b/c"} {
		if got := r.Lookup(Before, path); len(got) != 1 {
			t.Errorf("global wildcard did not match %q, got %v", path, got)
		}
	}
}

func TestLookupOrder(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("GET"), "/files/{name}", "first")
	mustAdd(t, r, Method("GET"), "/files/readme", "second")

	matches := r.Lookup(Method("GET"), "/files/readme")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Binding.Handler != "first" || matches[1].Binding.Handler != "second" {
		t.Errorf("matches out of registration order: %v, %v",
			matches[0].Binding.Handler, matches[1].Binding.Handler)
	}
}

func TestTrailingSlash(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("GET"), "/users/", "list")

	if got := r.Lookup(Method("GET"), "/users"); len(got) != 1 {
		t.Errorf("trailing slash in pattern broke match, got %v", got)
	}
	if got := r.Lookup(Method("GET"), "/users/"); len(got) != 1 {
		t.Errorf("trailing slash in path broke match, got %v", got)
	}
}

func TestRootPattern(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("GET"), "/", "root")

	if got := r.Lookup(Method("GET"), "/"); len(got) != 1 {
		t.Errorf("root pattern did not match /, got %v", got)
	}
	if got := r.Lookup(Method("GET"), "/x"); got != nil {
		t.Errorf("root pattern matched /x: %v", got)
	}
}

func TestCaseInsensitiveLiterals(t *testing.T) {
	r := New[handler](true)
	mustAdd(t, r, Method("GET"), "/Users/{id}", "show")

	// The dispatcher lower-cases paths before lookup.
	matches := r.Lookup(Method("GET"), "/users/ABC")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	// Parameter values keep their original case.
	if matches[0].Params["id"] != "ABC" {
		t.Errorf("param id = %q, want %q", matches[0].Params["id"], "ABC")
	}
}

func TestMethodsAt(t *testing.T) {
	r := New[handler](false)
	mustAdd(t, r, Method("POST"), "/users", "create")
	mustAdd(t, r, Method("GET"), "/users", "list")
	mustAdd(t, r, Method("GET"), "/other", "other")

	got := r.MethodsAt("/users")
	want := []string{"GET", "POST"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MethodsAt(/users) = %v, want %v", got, want)
	}

	if got := r.MethodsAt("/missing"); len(got) != 0 {
		t.Errorf("MethodsAt(/missing) = %v, want empty", got)
	}
}

func TestInvalidPatterns(t *testing.T) {
	r := New[handler](false)

	for _, raw := range []string{"", "users", "/a/*/b", "/a/{}"} {
		if err := r.Add(Method("GET"), raw, "h"); err == nil {
			t.Errorf("Add(%q) succeeded, want error", raw)
		}
	}
}
