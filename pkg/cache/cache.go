// Package cache defines the fingerprint-keyed, TTL-expiring result store
// consulted before and written after every costly external call. The durable
// implementation lives in the sqlite subpackage; memory provides the
// in-process fallback.
package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Store is the result cache contract. Get fails closed: a missing record, a
// storage or deserialization error, and an expired entry are all reported
// identically as a miss, and an expired record is removed as a side effect
// of the failed read.
type Store interface {
	Get(fingerprint string) ([]byte, bool)
	Set(fingerprint string, payload []byte) error
	Clear(fingerprint string) error
	ClearAll() error
	Stats() (models.CacheStats, error)
	Close() error
}

// Fingerprint computes an opaque SHA-256 key over the semantic inputs of a
// request. Equal inputs always map to the same fingerprint.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
