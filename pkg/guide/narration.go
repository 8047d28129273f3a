package guide

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/cache"
	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/openai"
)

const (
	narrationModel = "gpt-4o-mini"
	// Low temperature keeps the prose close to the supplied metadata.
	narrationTemperature = 0.3
	narrationMaxTokens   = 300
)

// Narration is a generated (or cache-served) artwork narration.
type Narration struct {
	ObjectID int    `json:"objectID"`
	Text     string `json:"narration"`
	Cached   bool   `json:"cached"`
}

// Generator produces narration text for artworks, read-through against the
// cache. There is no per-key lock: two concurrent cold requests for the same
// artwork may both generate, and the last cache write wins. Both callers
// still get a valid narration.
type Generator struct {
	cache  CacheStore
	met    ObjectFetcher
	llm    LLMClient
	logger *log.Logger
}

// NewGenerator wires a Generator.
func NewGenerator(c CacheStore, fetcher ObjectFetcher, llm LLMClient, logger *log.Logger) *Generator {
	return &Generator{cache: c, met: fetcher, llm: llm, logger: logger}
}

// Narrate returns the narration for objectID, generating and caching it on a
// miss.
func (g *Generator) Narrate(ctx context.Context, objectID int) (Narration, error) {
	key := cache.NarrationKey(objectID)
	if text, ok := g.cache.Get(ctx, key); ok {
		return Narration{ObjectID: objectID, Text: text, Cached: true}, nil
	}

	if !g.llm.Configured() {
		return Narration{}, newError(CodeUnavailable, "openai_not_configured", nil)
	}

	obj, err := g.met.GetObject(ctx, objectID)
	if err != nil {
		if errors.Is(err, met.ErrNotFound) {
			return Narration{}, newError(CodeNotFound, "object_not_found", err)
		}
		return Narration{}, newError(CodeUpstream, "met_fetch_failed", err)
	}

	res, err := g.llm.Chat(ctx, openai.ChatRequest{
		Model:       narrationModel,
		Prompt:      narrationPrompt(obj),
		Temperature: narrationTemperature,
		MaxTokens:   narrationMaxTokens,
	})
	if err != nil {
		return Narration{}, newError(CodeGeneration, "narration_request_failed", err)
	}
	if res.Content == "" {
		return Narration{}, newError(CodeGeneration, "empty_narration", nil)
	}

	g.cache.Set(ctx, key, res.Content)

	g.logger.Info("narration generated",
		"objectID", objectID,
		"promptTokens", res.PromptTokens,
		"completionTokens", res.CompletionTokens,
		"totalTokens", res.TotalTokens,
	)

	return Narration{ObjectID: objectID, Text: res.Content, Cached: false}, nil
}
