// Package ratelimit guards the AI endpoints with a per-client request
// limiter. With Redis configured the limiter keeps a sliding window over a
// sorted set; without it (or when Redis fails) it falls back to a process
// local fixed-window counter. The two tiers intentionally differ: fixed
// windows admit bursts at window boundaries, and that looseness is accepted
// rather than papered over.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/metguide/metguide/pkg/config"
)

const sweepInterval = 60 * time.Second

// Result describes the outcome of a limit check, with enough metadata for
// clients to back off intelligently.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per identifier per window.
type Limiter struct {
	limit  int
	window time.Duration
	rdb    *redis.Client
	logger *log.Logger

	mu      sync.Mutex
	windows map[string]*windowEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// New creates a Limiter. rdb may be nil, in which case only the local
// counter is used.
func New(cfg config.RateLimitConfig, rdb *redis.Client, logger *log.Logger) *Limiter {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	l := &Limiter{
		limit:   limit,
		window:  window,
		rdb:     rdb,
		logger:  logger,
		windows: make(map[string]*windowEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Check records one request for identifier and reports whether it fits
// within the limit. It never fails: Redis errors degrade to the local tier.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	if l.rdb != nil {
		res, err := l.checkRedis(ctx, identifier)
		if err == nil {
			return res
		}
		l.logger.Warn("rate limit backend failed, using local counter", "identifier", identifier, "err", err)
	}
	return l.checkLocal(identifier)
}

// checkLocal is a fixed-window counter. The lock is held across the whole
// read-modify-write so concurrent handlers cannot interleave between reading
// a counter and writing it back.
func (l *Limiter) checkLocal(identifier string) Result {
	now := l.now()

	l.mu.Lock()
	e := l.windows[identifier]
	if e == nil || !now.Before(e.resetAt) {
		e = &windowEntry{resetAt: now.Add(l.window)}
		l.windows[identifier] = e
	}
	e.count++
	count, resetAt := e.count, e.resetAt
	l.mu.Unlock()

	return l.result(count, resetAt)
}

// checkRedis keeps one timestamp per request in a sorted set and counts the
// members inside the trailing window.
func (l *Limiter) checkRedis(ctx context.Context, identifier string) (Result, error) {
	now := l.now()
	key := "ratelimit:" + identifier
	windowStart := now.Add(-l.window).UnixNano()

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	return l.result(int(card.Val()), now.Add(l.window)), nil
}

func (l *Limiter) result(count int, resetAt time.Time) Result {
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// sweep drops local counters whose window has passed.
func (l *Limiter) sweep() {
	now := l.now()
	l.mu.Lock()
	for id, e := range l.windows {
		if !now.Before(e.resetAt) {
			delete(l.windows, id)
		}
	}
	l.mu.Unlock()
}

func (l *Limiter) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// Close stops the janitor.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// ClientIdentifier derives a rate-limit identifier from request headers:
// the first forwarded address, else the real-IP header, else "unknown".
// All unidentified clients therefore share one bucket.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}
