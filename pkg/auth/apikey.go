package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// keyEntry maps a key hash to an identity. Plaintext keys are hashed at
// construction and never stored.
type keyEntry struct {
	hash     [32]byte
	identity Identity
}

// APIKey validates bearer tokens against a static key store using
// SHA-256 hashing and constant-time comparison.
type APIKey struct {
	keys []keyEntry
}

// RawKey is the configuration format for API keys.
type RawKey struct {
	Key     string
	Subject string
	Scopes  []string
}

// NewAPIKey creates an API key authenticator from raw keys.
func NewAPIKey(entries []RawKey) *APIKey {
	a := &APIKey{}
	for _, e := range entries {
		a.keys = append(a.keys, keyEntry{
			hash:     sha256.Sum256([]byte(e.Key)),
			identity: Identity{Subject: e.Subject, Scopes: e.Scopes},
		})
	}
	return a
}

// Authenticate extracts the bearer token and validates it. Returns Yes
// if valid, No if a bearer token is present but invalid, Abstain when
// there is no Authorization header or it is not a bearer token.
func (a *APIKey) Authenticate(r *http.Request) Result {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return Result{Decision: Abstain}
	}

	token := strings.TrimPrefix(header, "Bearer ")
	hash := sha256.Sum256([]byte(token))

	for _, e := range a.keys {
		if subtle.ConstantTimeCompare(hash[:], e.hash[:]) == 1 {
			id := e.identity
			return Result{Decision: Yes, Identity: &id}
		}
	}
	return Result{Decision: No, Err: ErrUnauthenticated}
}
