// Package cache provides the narration/audio cache store: a durable backend
// (Redis or SQLite) with an in-process memory fallback, TTL-based expiry, and
// soft-fail semantics. Backend errors never propagate to callers; a failing
// backend simply behaves like a miss while the memory tier takes over.
package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/config"
)

// ErrNotFound is returned by backends when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Backend is a single cache tier. Get returns ErrNotFound on a miss; any
// other error means the tier itself failed.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// NarrationKey is the cache key for an artwork's narration text.
func NarrationKey(objectID int) string {
	return "narration:" + strconv.Itoa(objectID)
}

// AudioKey is the cache key for an artwork's synthesized audio.
func AudioKey(objectID int) string {
	return "audio:" + strconv.Itoa(objectID)
}

// Store is the consumer-facing cache. Reads and writes go to the durable
// backend first and fall back to the memory tier only when the backend
// reports an error (a miss is a miss, not a reason to consult memory).
type Store struct {
	backend Backend
	memory  *Memory
	logger  *log.Logger
	ttl     time.Duration
	durable bool
}

// New selects the backend once at startup from configuration: Redis when a
// URL is present, else SQLite when a path is configured, else memory only.
func New(cfg config.CacheConfig, logger *log.Logger) (*Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	mem := NewMemory()

	s := &Store{memory: mem, logger: logger, ttl: ttl}
	switch {
	case cfg.RedisURL != "":
		r, err := NewRedis(cfg.RedisURL)
		if err != nil {
			mem.Close()
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		s.backend = r
		s.durable = true
	case cfg.SQLitePath != "":
		db, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			mem.Close()
			return nil, fmt.Errorf("init sqlite cache: %w", err)
		}
		s.backend = db
		s.durable = true
	default:
		s.backend = mem
	}
	return s, nil
}

// Available reports whether a durable backend is configured. Memory-only
// deployments still cache, but entries do not survive a restart.
func (s *Store) Available() bool {
	return s.durable
}

// Get returns the cached value for key. It never fails: backend errors are
// logged and treated as a miss against the memory tier.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.backend.Get(ctx, key)
	if err == nil {
		return v, true
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("cache get failed, consulting memory tier", "key", key, "err", err)
		if s.durable {
			if mv, merr := s.memory.Get(ctx, key); merr == nil {
				return mv, true
			}
		}
	}
	return "", false
}

// Set writes key with the store's default TTL. Soft-fails: a backend error
// is logged and the value lands in the memory tier instead.
func (s *Store) Set(ctx context.Context, key, value string) {
	s.SetTTL(ctx, key, value, s.ttl)
}

// SetTTL writes key with an explicit TTL.
func (s *Store) SetTTL(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.backend.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed, writing memory tier", "key", key, "err", err)
		if s.durable {
			_ = s.memory.Set(ctx, key, value, ttl)
		}
	}
}

// GetBytes returns a cached binary value. Binary values are stored as base64
// text so every backend only ever sees strings.
func (s *Store) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	v, ok := s.Get(ctx, key)
	if !ok {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		s.logger.Warn("cache entry is not valid base64, dropping", "key", key, "err", err)
		return nil, false
	}
	return raw, true
}

// SetBytes writes a binary value with the store's default TTL.
func (s *Store) SetBytes(ctx context.Context, key string, value []byte) {
	s.Set(ctx, key, base64.StdEncoding.EncodeToString(value))
}

// Close releases the backend and stops the memory janitor.
func (s *Store) Close() error {
	var err error
	if s.durable {
		err = s.backend.Close()
	}
	s.memory.Close()
	return err
}
