package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/config"
)

// brokenBackend fails every operation, simulating an unreachable remote tier.
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (brokenBackend) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenBackend) Close() error { return nil }

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestStoreMemoryOnly(t *testing.T) {
	s, err := New(config.CacheConfig{TTL: time.Hour}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if s.Available() {
		t.Error("memory-only store should not report a durable backend")
	}

	// Read-after-write within the process.
	s.Set(ctx, NarrationKey(547802), "the temple of dendur")
	v, ok := s.Get(ctx, NarrationKey(547802))
	if !ok || v != "the temple of dendur" {
		t.Errorf("read-after-write failed: %q %v", v, ok)
	}

	if _, ok := s.Get(ctx, NarrationKey(1)); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStoreSQLiteBackend(t *testing.T) {
	s, err := New(config.CacheConfig{
		SQLitePath: t.TempDir() + "/cache.db",
		TTL:        time.Hour,
	}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !s.Available() {
		t.Error("sqlite store should report a durable backend")
	}

	ctx := context.Background()
	s.Set(ctx, AudioKey(42), "payload")
	if v, ok := s.Get(ctx, AudioKey(42)); !ok || v != "payload" {
		t.Errorf("got %q %v", v, ok)
	}
}

func TestStoreSoftFail(t *testing.T) {
	s := &Store{
		backend: brokenBackend{},
		memory:  NewMemory(),
		logger:  discardLogger(),
		ttl:     time.Hour,
		durable: true,
	}
	defer s.memory.Close()
	ctx := context.Background()

	// Get never errors; a dead backend is just a miss.
	if _, ok := s.Get(ctx, "narration:1"); ok {
		t.Error("expected miss from broken backend")
	}

	// Set lands in the memory tier and is readable again.
	s.Set(ctx, "narration:1", "fallback value")
	v, ok := s.Get(ctx, "narration:1")
	if !ok || v != "fallback value" {
		t.Errorf("memory fallback not consulted: %q %v", v, ok)
	}
}

func TestStoreBytesRoundTrip(t *testing.T) {
	s, err := New(config.CacheConfig{TTL: time.Hour}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	audio := []byte{0xff, 0xf3, 0x48, 0x00, 0x01, 0x02}
	s.SetBytes(ctx, AudioKey(7), audio)

	got, ok := s.GetBytes(ctx, AudioKey(7))
	if !ok {
		t.Fatal("expected hit")
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("binary round trip mismatch: %v", got)
	}

	// The stored representation is text, so string readers see base64.
	raw, _ := s.Get(ctx, AudioKey(7))
	if raw == string(audio) {
		t.Error("binary value stored unencoded")
	}
}

func TestKeyNamespaces(t *testing.T) {
	if NarrationKey(123) != "narration:123" {
		t.Errorf("got %s", NarrationKey(123))
	}
	if AudioKey(123) != "audio:123" {
		t.Errorf("got %s", AudioKey(123))
	}
}
