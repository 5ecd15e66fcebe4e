// Package session provides server-side session state for glaive
// applications. Sessions are identified by an opaque cookie and persisted
// through a pluggable Store, with in-memory and PostgreSQL backends.
package session

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")
)

// Session holds the state associated with one client.
type Session struct {
	// ID is the opaque session identifier carried in the cookie.
	ID string

	// Values is the application data attached to the session.
	Values map[string]string

	// CreatedAt is when the session was first issued.
	CreatedAt time.Time

	// ExpiresAt is when the session stops being served.
	ExpiresAt time.Time

	dirty bool
	fresh bool
}

// Set stores a value and marks the session for saving.
func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
	s.dirty = true
}

// Get returns a stored value, or "" if absent.
func (s *Session) Get(key string) string { return s.Values[key] }

// Delete removes a value and marks the session for saving.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Fresh reports whether the session was created for the current request.
func (s *Session) Fresh() bool { return s.fresh }

// Store persists sessions.
type Store interface {
	// Get retrieves a session by ID. Returns ErrNotFound for unknown or
	// expired sessions.
	Get(ctx context.Context, id string) (*Session, error)

	// Save persists a session, creating or replacing it.
	Save(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown session is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backing resources.
	Close()
}
