package session

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// memEntry holds a stored session and its position in the LRU list.
type memEntry struct {
	sess    *Session
	lruElem *list.Element
}

// MemoryStore is an in-memory Store with optional LRU eviction. Sessions
// are lost when the process restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	lruList *list.List // front = most recently used, back = least recently used
	maxSize int        // 0 = unlimited
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store. If maxSize is 0 the store
// grows without limit; otherwise the least recently used session is
// evicted when the limit is reached.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// Get retrieves a session by ID and marks it most recently used.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.sess.ExpiresAt.IsZero() && time.Now().After(e.sess.ExpiresAt) {
		s.remove(e)
		return nil, ErrNotFound
	}

	s.lruList.MoveToFront(e.lruElem)
	return copySession(e.sess), nil
}

// Save persists a session, creating or replacing it.
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sess.ID]; ok {
		e.sess = copySession(sess)
		s.lruList.MoveToFront(e.lruElem)
		return nil
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	elem := s.lruList.PushFront(sess.ID)
	s.entries[sess.ID] = &memEntry{sess: copySession(sess), lruElem: elem}
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		s.remove(e)
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictOldest removes the least recently used session. Caller must hold
// the write lock.
func (s *MemoryStore) evictOldest() {
	elem := s.lruList.Back()
	if elem == nil {
		return
	}
	id := elem.Value.(string)
	if e, ok := s.entries[id]; ok {
		s.remove(e)
	}
}

// remove deletes an entry from both the map and the LRU list. Caller
// must hold the write lock.
func (s *MemoryStore) remove(e *memEntry) {
	s.lruList.Remove(e.lruElem)
	delete(s.entries, e.sess.ID)
}

// copySession returns a copy with its own Values map, so callers cannot
// mutate stored state without going through Save. The per-request
// lifecycle flags are not part of persisted state.
func copySession(sess *Session) *Session {
	cp := *sess
	cp.dirty = false
	cp.fresh = false
	cp.Values = make(map[string]string, len(sess.Values))
	for k, v := range sess.Values {
		cp.Values[k] = v
	}
	return &cp
}
