package models

import "time"

// CacheEntry stores one cached external-call payload, keyed by the request
// fingerprint. Callers always receive a copy of Payload, never the stored slice.
type CacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Payload     []byte    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
