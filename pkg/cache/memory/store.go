// Package memory provides an in-process result cache used as the fallback
// when the durable backend cannot be written. Entries are lost on restart,
// which is acceptable for a degraded mode: the worst case is a repeated
// paid call, never a wrong answer.
package memory

import (
	"sync"
	"time"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Store is a mutex-guarded map with TTL expiration.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  map[string]entry
	hits   int64
	misses int64
}

// New creates an in-memory Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl, items: make(map[string]entry)}
}

// Get returns the cached payload, or false if missing or expired. An expired
// entry is deleted as a side effect of the failed read.
func (s *Store) Get(fingerprint string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[fingerprint]
	if !ok {
		s.misses++
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.items, fingerprint)
		s.misses++
		return nil, false
	}

	s.hits++
	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true
}

// Set stores a payload with the configured TTL, replacing any prior value.
func (s *Store) Set(fingerprint string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := make([]byte, len(payload))
	copy(p, payload)
	s.items[fingerprint] = entry{payload: p, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Clear evicts a single fingerprint.
func (s *Store) Clear(fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, fingerprint)
	return nil
}

// ClearAll evicts every entry.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]entry)
	return nil
}

// Stats returns cache performance metrics.
func (s *Store) Stats() (models.CacheStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CacheStats{
		Entries: int64(len(s.items)),
		Hits:    s.hits,
		Misses:  s.misses,
	}, nil
}

// Close is a no-op; the Store holds no external resources.
func (s *Store) Close() error { return nil }
