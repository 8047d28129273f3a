package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a durable local cache tier, for deployments without Redis where
// entries should still survive a restart.
type SQLite struct {
	db     *sql.DB
	hits   atomic.Int64
	misses atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at DATETIME NOT NULL
);
`

// NewSQLite opens (and migrates) the cache database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the value for key. Expired rows are deleted on the spot and
// reported as ErrNotFound.
func (c *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	var expiresAt time.Time
	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		c.misses.Add(1)
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cache get: %w", err)
	}

	if !time.Now().UTC().Before(expiresAt) {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		c.misses.Add(1)
		return "", ErrNotFound
	}

	c.hits.Add(1)
	return value, nil
}

// Set stores key until now+ttl, replacing any previous entry.
func (c *SQLite) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Purge removes expired rows. Callers may run this periodically; reads do
// not depend on it.
func (c *SQLite) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache purge: %w", err)
	}
	return nil
}

// Stats reports entry count and hit/miss counters since process start.
func (c *SQLite) Stats(ctx context.Context) (entries, hits, misses int64, err error) {
	if err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&entries); err != nil {
		return 0, 0, 0, fmt.Errorf("cache stats: %w", err)
	}
	return entries, c.hits.Load(), c.misses.Load(), nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}
