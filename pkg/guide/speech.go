package guide

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/cache"
	"github.com/metguide/metguide/pkg/openai"
)

const (
	speechModel = "tts-1"
	// MaxSpeechTextLen bounds the text accepted for synthesis.
	MaxSpeechTextLen = 1500
)

// speechVoices is the fixed voice set. An artwork always maps to the same
// voice so repeat listens keep a consistent narrator identity.
var speechVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// VoiceFor selects the voice for an artwork.
func VoiceFor(objectID int) string {
	return speechVoices[objectID%len(speechVoices)]
}

// Audio is a synthesized (or cache-served) narration recording.
type Audio struct {
	ObjectID int
	Bytes    []byte
	Cached   bool
}

// Synthesizer turns narration text into MP3 audio, read-through against the
// cache.
type Synthesizer struct {
	cache  CacheStore
	tts    SpeechClient
	logger *log.Logger
}

// NewSynthesizer wires a Synthesizer.
func NewSynthesizer(c CacheStore, tts SpeechClient, logger *log.Logger) *Synthesizer {
	return &Synthesizer{cache: c, tts: tts, logger: logger}
}

// Synthesize returns the audio for objectID. text is only required on a
// cache miss; over-long text is rejected before any lookup or provider call.
func (s *Synthesizer) Synthesize(ctx context.Context, objectID int, text string) (Audio, error) {
	if len(text) > MaxSpeechTextLen {
		return Audio{}, newError(CodeValidation, "text_too_long", nil)
	}

	key := cache.AudioKey(objectID)
	if raw, ok := s.cache.GetBytes(ctx, key); ok {
		return Audio{ObjectID: objectID, Bytes: raw, Cached: true}, nil
	}

	if text == "" {
		return Audio{}, newError(CodeValidation, "text_required", nil)
	}
	if !s.tts.Configured() {
		return Audio{}, newError(CodeUnavailable, "openai_not_configured", nil)
	}

	voice := VoiceFor(objectID)
	raw, err := s.tts.Speech(ctx, openai.SpeechRequest{
		Model:  speechModel,
		Voice:  voice,
		Input:  text,
		Format: "mp3",
	})
	if err != nil {
		return Audio{}, newError(CodeGeneration, "speech_request_failed", err)
	}

	s.cache.SetBytes(ctx, key, raw)

	s.logger.Info("speech synthesized",
		"objectID", objectID,
		"voice", voice,
		"bytes", len(raw),
	)

	return Audio{ObjectID: objectID, Bytes: raw, Cached: false}, nil
}
