// Package server exposes the audio-guide HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/metguide/metguide/pkg/config"
	"github.com/metguide/metguide/pkg/guide"
	"github.com/metguide/metguide/pkg/models"
	"github.com/metguide/metguide/pkg/ratelimit"
)

// ObjectService retrieves normalized artwork records.
type ObjectService interface {
	GetObject(ctx context.Context, objectID int) (models.Object, error)
}

// IdentifyService matches a photo against the collection.
type IdentifyService interface {
	Identify(ctx context.Context, image string) (models.Identification, error)
}

// PrefetchService warms caches for an artwork ahead of demand.
type PrefetchService interface {
	Prefetch(ctx context.Context, objectID int)
	Done(objectID int) bool
}

// TourService serves the curated tours.
type TourService interface {
	List() (models.ToursData, []models.TourSummary, error)
	Get(id string) (models.Tour, error)
}

// RateLimiter guards the AI endpoints.
type RateLimiter interface {
	Check(ctx context.Context, identifier string) ratelimit.Result
}

// CacheStatus reports whether the durable cache tier is reachable.
type CacheStatus interface {
	Available() bool
}

// Server is the Met Guide API server.
type Server struct {
	cfg        *config.Config
	logger     *log.Logger
	met        ObjectService
	narration  guide.NarrationService
	speech     guide.SpeechService
	identifier IdentifyService
	prefetcher PrefetchService
	tours      TourService
	limiter    RateLimiter
	cache      CacheStatus
	randomID   func() int
	mux        *http.ServeMux
}

// Deps bundles everything a Server needs.
type Deps struct {
	Config     *config.Config
	Logger     *log.Logger
	Met        ObjectService
	Narration  guide.NarrationService
	Speech     guide.SpeechService
	Identifier IdentifyService
	Prefetcher PrefetchService
	Tours      TourService
	Limiter    RateLimiter
	Cache      CacheStatus
	RandomID   func() int
}

// New creates a Server wired with all dependencies.
func New(d Deps) *Server {
	s := &Server{
		cfg:        d.Config,
		logger:     d.Logger,
		met:        d.Met,
		narration:  d.Narration,
		speech:     d.Speech,
		identifier: d.Identifier,
		prefetcher: d.Prefetcher,
		tours:      d.Tours,
		limiter:    d.Limiter,
		cache:      d.Cache,
		randomID:   d.RandomID,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /object/random", s.handleRandomObject)
	s.mux.HandleFunc("GET /object/{id}", s.handleObject)
	s.mux.HandleFunc("GET /narrate", s.handleNarrate)
	s.mux.HandleFunc("GET /tts", s.handleTTS)
	s.mux.HandleFunc("POST /identify", s.handleIdentify)
	s.mux.HandleFunc("GET /tours", s.handleTours)
	s.mux.HandleFunc("POST /prefetch", s.handlePrefetch)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"requestID", requestID,
		"duration", time.Since(start),
	)
}

// ListenAndServe starts the API server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("metguide api listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForCode maps a guide failure code to an HTTP status.
func statusForCode(code guide.Code) int {
	switch code {
	case guide.CodeValidation:
		return http.StatusBadRequest
	case guide.CodeNotFound:
		return http.StatusNotFound
	case guide.CodeRateLimited:
		return http.StatusTooManyRequests
	case guide.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeGuideError renders a guide failure: taxonomy codes pick the status,
// anything else is an internal error with the fallback message.
func (s *Server) writeGuideError(w http.ResponseWriter, err error, fallback string) {
	code, ok := guide.CodeOf(err)
	if !ok {
		s.logger.Error("request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, fallback)
		return
	}

	status := statusForCode(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}

	switch code {
	case guide.CodeNotFound:
		writeJSONError(w, status, "Object not found")
	case guide.CodeUnavailable:
		writeJSONError(w, status, "OpenAI API key not configured")
	case guide.CodeValidation:
		writeJSONError(w, status, validationMessage(err))
	default:
		writeJSONError(w, status, fallback)
	}
}

// validationMessage keeps the user-facing text for validation failures
// stable regardless of the wrapped cause.
func validationMessage(err error) string {
	var ge *guide.Error
	if !errors.As(err, &ge) {
		return "Invalid request"
	}
	switch ge.Reason {
	case "text_too_long":
		return "Text exceeds the 1500 character limit"
	case "text_required":
		return "Text is required for audio generation"
	case "image_required":
		return "Image is required"
	default:
		return "Invalid request"
	}
}

func (s *Server) rateLimit(w http.ResponseWriter, r *http.Request, namespace string) bool {
	res := s.limiter.Check(r.Context(), namespace+":"+ratelimit.ClientIdentifier(r))
	if res.Allowed {
		return true
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	return false
}

var objectIDPattern = regexp.MustCompile(`^\d+$`)

// parseObjectID validates an artwork identifier from a path segment or query
// parameter. Only plain non-negative integer strings are accepted.
func parseObjectID(raw string) (int, bool) {
	if !objectIDPattern.MatchString(raw) {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
