package cache

import (
	"sync"
	"time"
)

// Store is an id-keyed collection snapshot with TTL. Replace installs a full
// snapshot; Put and Delete reconcile single entries after a write so the
// snapshot stays warm without refetching the whole collection.
type Store[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	idFn      func(T) string
	items     map[string]T
	loaded    bool
	expiresAt time.Time
}

// NewStore creates a snapshot store. idFn extracts the entry key.
func NewStore[T any](ttl time.Duration, idFn func(T) string) *Store[T] {
	return &Store[T]{
		ttl:   ttl,
		idFn:  idFn,
		items: make(map[string]T),
	}
}

// Replace installs a fresh full snapshot and resets the TTL.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]T, len(items))
	for _, item := range items {
		s.items[s.idFn(item)] = item
	}
	s.loaded = true
	s.expiresAt = time.Now().Add(s.ttl)
}

// Put reconciles one entry into the snapshot. A snapshot that was never
// loaded or has expired is left untouched; the next All call will miss and
// the caller refetches.
func (s *Store[T]) Put(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid() {
		return
	}
	s.items[s.idFn(item)] = item
}

// Delete removes one entry from the snapshot.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid() {
		return
	}
	delete(s.items, id)
}

// Get retrieves one entry by id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.valid() {
		return zero, false
	}
	item, ok := s.items[id]
	return item, ok
}

// All returns the full snapshot, or ok=false when the snapshot is missing or
// expired and must be refetched from storage.
func (s *Store[T]) All() ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid() {
		return nil, false
	}
	items := make([]T, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items, true
}

// Invalidate discards the snapshot. Used when a storage write fails after a
// partial reconciliation could have left the snapshot stale.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]T)
	s.loaded = false
}

// Size returns the current number of items in the snapshot.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid() {
		return 0
	}
	return len(s.items)
}

// CleanExpired drops the snapshot once its TTL passes. Implements Cleaner.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && time.Now().After(s.expiresAt) {
		n := len(s.items)
		s.items = make(map[string]T)
		s.loaded = false
		return n
	}
	return 0
}

func (s *Store[T]) valid() bool {
	return s.loaded && !time.Now().After(s.expiresAt)
}
