package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/glaive"
)

// Attribute is the context attribute key under which the session is
// stored.
const Attribute = "session"

// CookieName is the name of the session cookie.
const CookieName = "glaive_session"

// DefaultTTL is the session lifetime used when Middleware is given a
// zero TTL.
const DefaultTTL = 24 * time.Hour

// Middleware returns a before-handler and an after-handler that bracket
// each request with session handling. The before-handler loads the
// session named by the request cookie, or creates a fresh one, and
// attaches it to the context. The after-handler saves the session when
// it was modified and sets the cookie on fresh sessions.
func Middleware(store Store, ttl time.Duration) (before, after glaive.Handler) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	before = func(c *glaive.Context) error {
		sess, err := load(c, store, ttl)
		if err != nil {
			return err
		}
		c.Set(Attribute, sess)
		return nil
	}

	after = func(c *glaive.Context) error {
		sess := FromContext(c)
		if sess == nil {
			return nil
		}
		if sess.fresh {
			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		if sess.dirty || sess.fresh {
			if err := store.Save(c.Request().Context(), sess); err != nil {
				debug.Log("session", "save failed", "id", sess.ID, "error", err.Error())
				return err
			}
			sess.dirty = false
		}
		return nil
	}

	return before, after
}

// load resolves the request's session from its cookie, falling back to
// a fresh session when the cookie is absent, unknown, or expired.
func load(c *glaive.Context, store Store, ttl time.Duration) (*Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		sess, err := store.Get(c.Request().Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		debug.Log("session", "stale cookie", "id", cookie.Value)
	}

	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Values:    make(map[string]string),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		fresh:     true,
	}, nil
}

// FromContext returns the session attached by Middleware, or nil.
func FromContext(c *glaive.Context) *Session {
	if v, ok := c.Get(Attribute); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return nil
}
