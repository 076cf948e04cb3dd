package memory

import (
	"testing"
	"time"
)

func TestSetGetClear(t *testing.T) {
	s := New(time.Hour)

	_ = s.Set("fp1", []byte("payload"))
	data, ok := s.Get("fp1")
	if !ok || string(data) != "payload" {
		t.Fatalf("expected hit with payload, got %q ok=%v", data, ok)
	}

	_ = s.Clear("fp1")
	if _, ok := s.Get("fp1"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestExpiry(t *testing.T) {
	s := New(1 * time.Millisecond)
	_ = s.Set("fp1", []byte("payload"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := s.Get("fp1"); ok {
		t.Fatal("expected miss after expiry")
	}
	stats, _ := s.Stats()
	if stats.Entries != 0 {
		t.Errorf("expired read should delete the entry, got %d entries", stats.Entries)
	}
}

func TestCallerGetsCopy(t *testing.T) {
	s := New(time.Hour)
	_ = s.Set("fp1", []byte("abc"))

	data, _ := s.Get("fp1")
	data[0] = 'x'

	again, _ := s.Get("fp1")
	if string(again) != "abc" {
		t.Errorf("stored payload mutated through caller copy: %q", again)
	}
}
