// Package guide implements the audio-guide core: narration generation,
// speech synthesis, cache warming, and artwork identification.
package guide

import (
	"context"

	"github.com/metguide/metguide/pkg/models"
	"github.com/metguide/metguide/pkg/openai"
)

// ObjectFetcher retrieves artwork metadata from the collection API.
type ObjectFetcher interface {
	GetObject(ctx context.Context, objectID int) (models.Object, error)
}

// ObjectSearcher additionally searches the collection by free text.
type ObjectSearcher interface {
	ObjectFetcher
	Search(ctx context.Context, query string) ([]int, error)
}

// LLMClient produces text (optionally vision-assisted) from a prompt.
type LLMClient interface {
	Chat(ctx context.Context, req openai.ChatRequest) (openai.ChatResult, error)
	Configured() bool
}

// SpeechClient synthesizes speech from text.
type SpeechClient interface {
	Speech(ctx context.Context, req openai.SpeechRequest) ([]byte, error)
	Configured() bool
}

// CacheStore is the slice of the cache the guide services use.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetBytes(ctx context.Context, key string, value []byte)
}
