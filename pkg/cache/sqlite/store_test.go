package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hearsay-ai/hearsay/pkg/cache"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	s, err := New(dbPath, ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t, time.Hour)
	fp := cache.Fingerprint("discover", "instagram", "fitwithmaria")

	if err := s.Set(fp, []byte(`{"competitors":["@gymtalk"]}`)); err != nil {
		t.Fatal(err)
	}

	data, ok := s.Get(fp)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"competitors":["@gymtalk"]}` {
		t.Errorf("unexpected payload: %s", data)
	}

	_, ok = s.Get(cache.Fingerprint("discover", "tiktok", "fitwithmaria"))
	if ok {
		t.Error("expected miss for different fingerprint")
	}
}

func TestSetReplacesPriorValue(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_ = s.Set("fp1", []byte("old"))
	if err := s.Set("fp1", []byte("new")); err != nil {
		t.Fatal(err)
	}

	data, ok := s.Get("fp1")
	if !ok || string(data) != "new" {
		t.Errorf("expected replaced value, got %q ok=%v", data, ok)
	}
}

func TestExpiredReadDeletesEntry(t *testing.T) {
	s := newTestStore(t, 1*time.Millisecond)

	if err := s.Set("fp1", []byte("data")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok := s.Get("fp1"); ok {
		t.Fatal("expected miss after TTL expiry")
	}

	// The expired read must have removed the row, not just hidden it.
	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after expired read, got %d", stats.Entries)
	}

	// A subsequent read behaves as a fresh miss.
	if _, ok := s.Get("fp1"); ok {
		t.Error("expected fresh miss on second read")
	}
}

func TestClearAndClearAll(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_ = s.Set("fp1", []byte("a"))
	_ = s.Set("fp2", []byte("b"))

	if err := s.Clear("fp1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("fp1"); ok {
		t.Error("expected miss after Clear")
	}
	if _, ok := s.Get("fp2"); !ok {
		t.Error("expected fp2 to survive Clear(fp1)")
	}

	if err := s.ClearAll(); err != nil {
		t.Fatal(err)
	}
	stats, _ := s.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after ClearAll, got %d", stats.Entries)
	}
}

func TestClearExpired(t *testing.T) {
	s := newTestStore(t, 1*time.Millisecond)
	_ = s.Set("fp1", []byte("a"))
	time.Sleep(10 * time.Millisecond)

	n, err := s.ClearExpired()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired entry removed, got %d", n)
	}
}

func TestStatsCounters(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_ = s.Set("fp1", []byte("a"))
	s.Get("fp1") // hit
	s.Get("fp2") // miss

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := cache.Fingerprint("a", "b")
	b := cache.Fingerprint("a", "b")
	c := cache.Fingerprint("ab")

	if a != b {
		t.Error("same parts should produce same fingerprint")
	}
	if a == c {
		t.Error("part boundaries should affect the fingerprint")
	}
}
