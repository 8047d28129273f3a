package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/tours"
)

// maxIdentifyBody bounds the /identify request body; a base64 photo from a
// phone camera fits comfortably.
const maxIdentifyBody = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	openaiConfigured := s.cfg.OpenAIConfigured()

	status := http.StatusOK
	if !openaiConfigured {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status":           "ok",
		"env":              s.cfg.Env,
		"openaiConfigured": openaiConfigured,
		"cacheAvailable":   s.cache.Available(),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseObjectID(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid object ID format")
		return
	}

	obj, err := s.met.GetObject(r.Context(), id)
	if err != nil {
		if errors.Is(err, met.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Object not found")
			return
		}
		s.logger.Error("object fetch failed", "objectID", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch object from Met API")
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

// handleRandomObject serves one artwork from the curated highlight list. A
// record without images gets a stand-in image when one is known for it.
func (s *Server) handleRandomObject(w http.ResponseWriter, r *http.Request) {
	id := s.randomID()

	obj, err := s.met.GetObject(r.Context(), id)
	if err != nil {
		s.logger.Error("random object fetch failed", "objectID", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch object from Met API")
		return
	}

	met.ApplyFallbackImage(&obj)
	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleNarrate(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		writeJSONError(w, http.StatusBadRequest, "Object ID is required")
		return
	}
	id, ok := parseObjectID(rawID)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid object ID format")
		return
	}

	n, err := s.narration.Narrate(r.Context(), id)
	if err != nil {
		s.writeGuideError(w, err, "Failed to generate narration")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"narration": n.Text,
		"cached":    n.Cached,
	})
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		writeJSONError(w, http.StatusBadRequest, "Object ID is required")
		return
	}
	id, ok := parseObjectID(rawID)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid object ID format")
		return
	}

	if !s.rateLimit(w, r, "tts") {
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), id, r.URL.Query().Get("text"))
	if err != nil {
		s.writeGuideError(w, err, "Failed to generate audio")
		return
	}

	cacheState := "MISS"
	if audio.Cached {
		cacheState = "HIT"
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Bytes)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio.Bytes)
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimit(w, r, "identify") {
		return
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxIdentifyBody)).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Image is required")
		return
	}
	if body.Image == "" {
		writeJSONError(w, http.StatusBadRequest, "Image is required")
		return
	}

	result, err := s.identifier.Identify(r.Context(), body.Image)
	if err != nil {
		s.writeGuideError(w, err, "Failed to identify artwork")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTours(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		tour, err := s.tours.Get(id)
		if err != nil {
			s.writeTourError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tour)
		return
	}

	meta, summaries, err := s.tours.List()
	if err != nil {
		s.writeTourError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"generatedAt": meta.GeneratedAt,
		"tours":       summaries,
	})
}

func (s *Server) writeTourError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tours.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Tour not found")
	case errors.Is(err, tours.ErrUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "Tours data not available")
	default:
		s.logger.Error("tours request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load tours")
	}
}

// handlePrefetch kicks off a cache warm for an artwork and returns without
// waiting for it. The warm runs on a detached context so it survives the
// client hanging up.
func (s *Server) handlePrefetch(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		writeJSONError(w, http.StatusBadRequest, "Object ID is required")
		return
	}
	id, ok := parseObjectID(rawID)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid object ID format")
		return
	}

	if s.prefetcher.Done(id) {
		writeJSON(w, http.StatusOK, map[string]any{
			"objectID": id,
			"status":   "ready",
		})
		return
	}

	go s.prefetcher.Prefetch(context.Background(), id)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"objectID": id,
		"status":   "warming",
	})
}
