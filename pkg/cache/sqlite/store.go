package sqlite

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hearsay-ai/hearsay/pkg/metrics"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Store is a fingerprint-keyed result cache backed by SQLite.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS result_cache (
	fingerprint TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_result_cache_expires ON result_cache(expires_at);
`

// New creates a Store with the given database path and TTL. The TTL applies
// uniformly to every entry the instance manages.
func New(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Get retrieves a cached payload. Returns false if absent, unreadable, or
// expired; an expired row is deleted so the next read is a fresh miss.
func (s *Store) Get(fingerprint string) ([]byte, bool) {
	var payload []byte
	var expiresAt time.Time

	err := s.db.QueryRow(
		`SELECT payload, expires_at FROM result_cache WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&payload, &expiresAt)

	if err != nil {
		if err != sql.ErrNoRows {
			metrics.CacheReadFailures.Inc()
		}
		s.misses.Add(1)
		return nil, false
	}

	if time.Now().UTC().After(expiresAt) {
		_, _ = s.db.Exec(`DELETE FROM result_cache WHERE fingerprint = ?`, fingerprint)
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true
}

// Set stores a payload, fully replacing any prior value for the fingerprint.
func (s *Store) Set(fingerprint string, payload []byte) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO result_cache (fingerprint, payload, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		fingerprint, payload, now, now.Add(s.ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Clear evicts a single fingerprint.
func (s *Store) Clear(fingerprint string) error {
	_, err := s.db.Exec(`DELETE FROM result_cache WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// ClearAll evicts every entry.
func (s *Store) ClearAll() error {
	_, err := s.db.Exec(`DELETE FROM result_cache`)
	if err != nil {
		return fmt.Errorf("cache clear all: %w", err)
	}
	return nil
}

// ClearExpired evicts only entries past their expiry.
func (s *Store) ClearExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM result_cache WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cache clear expired: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns cache performance metrics.
func (s *Store) Stats() (models.CacheStats, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM result_cache`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries: count,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
