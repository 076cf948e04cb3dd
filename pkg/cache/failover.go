package cache

import (
	"github.com/hearsay-ai/hearsay/pkg/logging"
	"github.com/hearsay-ai/hearsay/pkg/metrics"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Failover layers an in-memory overlay over a durable primary store. Writes
// go to the primary; when that fails the entry is diverted to the overlay so
// the session still benefits from caching, and the diversion is counted in
// diagnostics. Reads consult the primary first, then the overlay.
type Failover struct {
	primary Store
	overlay Store
}

// NewFailover wraps primary with the given overlay store.
func NewFailover(primary, overlay Store) *Failover {
	return &Failover{primary: primary, overlay: overlay}
}

// Get returns the payload from the primary store, falling back to entries
// previously diverted to the overlay.
func (f *Failover) Get(fingerprint string) ([]byte, bool) {
	if data, ok := f.primary.Get(fingerprint); ok {
		return data, true
	}
	return f.overlay.Get(fingerprint)
}

// Set writes to the primary store, diverting to the overlay when the
// durable write fails. Set never reports an error: a cache write failure
// must not fail the call that produced the payload.
func (f *Failover) Set(fingerprint string, payload []byte) error {
	if err := f.primary.Set(fingerprint, payload); err != nil {
		metrics.CacheWriteFailures.Inc()
		metrics.CacheFallbacks.Inc()
		metrics.Warnings.WithLabelValues("cache").Inc()
		logging.For("cache").Warn("durable cache write failed, using memory fallback",
			"fingerprint", fingerprint, "error", err)
		return f.overlay.Set(fingerprint, payload)
	}
	return nil
}

// Clear evicts the fingerprint from both stores.
func (f *Failover) Clear(fingerprint string) error {
	err := f.primary.Clear(fingerprint)
	if oerr := f.overlay.Clear(fingerprint); err == nil {
		err = oerr
	}
	return err
}

// ClearAll evicts everything from both stores.
func (f *Failover) ClearAll() error {
	err := f.primary.ClearAll()
	if oerr := f.overlay.ClearAll(); err == nil {
		err = oerr
	}
	return err
}

// Stats reports combined entry counts and the primary's hit/miss counters.
func (f *Failover) Stats() (models.CacheStats, error) {
	ps, err := f.primary.Stats()
	if err != nil {
		return models.CacheStats{}, err
	}
	os, err := f.overlay.Stats()
	if err != nil {
		return ps, nil
	}
	ps.Entries += os.Entries
	ps.Hits += os.Hits
	ps.Misses += os.Misses
	return ps, nil
}

// Close closes both stores.
func (f *Failover) Close() error {
	err := f.primary.Close()
	if oerr := f.overlay.Close(); err == nil {
		err = oerr
	}
	return err
}
