// Package auth provides request authentication for glaive servers as a
// before-handler: a chain of authenticators votes on each request with
// three possible outcomes, and the winning identity is stored as a
// request attribute for downstream handlers.
package auth

import (
	"errors"
	"net/http"

	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/glaive"
)

// Decision represents the three possible outcomes of authentication.
type Decision int

const (
	// Yes means credentials are valid. The chain stops and the identity
	// is used.
	Yes Decision = iota

	// No means credentials are present but invalid. The chain stops and
	// the request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials
	// type. The chain continues to the next authenticator.
	Abstain
)

// Result carries the outcome of an authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity represents an authenticated caller.
type Identity struct {
	// Subject is the unique identifier (required, non-empty).
	Subject string

	// Scopes lists the authorization scopes granted.
	Scopes []string
}

// Authenticator examines request credentials and returns a three-outcome
// vote.
type Authenticator interface {
	Authenticate(r *http.Request) Result
}

// ErrUnauthenticated is the failure raised for rejected requests. It is
// wrapped in a 401 HTTPError, so App.Exception handlers can target it.
var ErrUnauthenticated = errors.New("authentication required")

// Chain evaluates authenticators in order using three-outcome voting.
type Chain struct {
	// Authenticators are evaluated left to right.
	Authenticators []Authenticator

	// AllowAnonymous admits requests when every authenticator abstains,
	// under the "anonymous" subject. Off by default.
	AllowAnonymous bool
}

// Authenticate runs the chain, stopping on the first Yes or No.
func (c *Chain) Authenticate(r *http.Request) Result {
	for _, a := range c.Authenticators {
		result := a.Authenticate(r)
		if result.Decision != Abstain {
			return result
		}
	}

	if c.AllowAnonymous {
		return Result{Decision: Yes, Identity: &Identity{Subject: "anonymous"}}
	}
	return Result{Decision: No, Err: ErrUnauthenticated}
}

// IdentityAttribute is the context attribute key under which the
// authenticated identity is stored.
const IdentityAttribute = "auth.identity"

// Handler adapts a chain into a glaive before-handler. Rejected
// requests fail with a 401 wrapping ErrUnauthenticated; admitted ones
// continue with the identity attached to the context.
func Handler(chain *Chain) glaive.Handler {
	return func(c *glaive.Context) error {
		result := chain.Authenticate(c.Request().Raw())
		if result.Decision != Yes {
			err := result.Err
			if err == nil {
				err = ErrUnauthenticated
			}
			debug.Log("auth", "request rejected", "path", c.Path(), "error", err.Error())
			return glaive.WrapHTTPError(http.StatusUnauthorized, "unauthorized", err)
		}
		debug.Log("auth", "request admitted", "subject", result.Identity.Subject)
		c.Set(IdentityAttribute, result.Identity)
		return nil
	}
}

// FromContext returns the identity attached by Handler, or nil.
func FromContext(c *glaive.Context) *Identity {
	if v, ok := c.Get(IdentityAttribute); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}
