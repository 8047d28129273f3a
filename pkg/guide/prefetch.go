package guide

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// NarrationService produces narration text for an artwork.
type NarrationService interface {
	Narrate(ctx context.Context, objectID int) (Narration, error)
}

// SpeechService produces audio for an artwork's narration.
type SpeechService interface {
	Synthesize(ctx context.Context, objectID int, text string) (Audio, error)
}

// Prefetcher warms the narration and audio caches ahead of playback. Repeat
// requests for an artwork that is already being warmed, or already warm, are
// dropped rather than queued.
type Prefetcher struct {
	narration NarrationService
	speech    SpeechService
	limiter   *rate.Limiter
	logger    *log.Logger

	mu       sync.Mutex
	inflight map[int]struct{}
	done     map[int]struct{}
}

// NewPrefetcher wires a Prefetcher. limiter may be nil to disable pacing.
func NewPrefetcher(n NarrationService, s SpeechService, limiter *rate.Limiter, logger *log.Logger) *Prefetcher {
	return &Prefetcher{
		narration: n,
		speech:    s,
		limiter:   limiter,
		logger:    logger,
		inflight:  make(map[int]struct{}),
		done:      make(map[int]struct{}),
	}
}

// Done reports whether objectID has already been warmed.
func (p *Prefetcher) Done(objectID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.done[objectID]
	return ok
}

// Prefetch warms objectID and blocks until the warm completes or is skipped.
// Failures are logged and swallowed; a prefetch is best-effort and the
// serving path regenerates on demand. A narration that cached but whose audio
// failed still counts as done, since the expensive step is saved.
func (p *Prefetcher) Prefetch(ctx context.Context, objectID int) {
	p.mu.Lock()
	if _, ok := p.done[objectID]; ok {
		p.mu.Unlock()
		return
	}
	if _, ok := p.inflight[objectID]; ok {
		p.mu.Unlock()
		return
	}
	p.inflight[objectID] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inflight, objectID)
		p.mu.Unlock()
	}()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
	}

	n, err := p.narration.Narrate(ctx, objectID)
	if err != nil {
		p.logger.Warn("prefetch narration failed", "objectID", objectID, "error", err)
		return
	}

	if _, err := p.speech.Synthesize(ctx, objectID, n.Text); err != nil {
		p.logger.Warn("prefetch speech failed", "objectID", objectID, "error", err)
	}

	p.mu.Lock()
	p.done[objectID] = struct{}{}
	p.mu.Unlock()
}
