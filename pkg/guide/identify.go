package guide

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/models"
	"github.com/metguide/metguide/pkg/openai"
)

const (
	visionModel       = "gpt-4o"
	visionTemperature = 0.3
	visionMaxTokens   = 500

	maxSearchQueries = 3
	maxCandidates    = 15
)

const visionPrompt = `Analyze this image and determine if it's a photograph of an artwork (painting, sculpture, artifact, etc.)
that might be found in a museum like The Metropolitan Museum of Art.

Return a JSON object with these fields:
- is_artwork: boolean - true if this appears to be a photo of an artwork
- probable_title: string or null - your best guess at the title
- probable_artist: string or null - your best guess at the artist
- visual_keywords: string[] - 3-5 descriptive keywords for searching (e.g., "portrait", "woman", "Dutch", "17th century", "oil painting")
- art_period: string or null - the likely period (e.g., "Renaissance", "Impressionist", "Ancient Egyptian")
- medium: string or null - the likely medium (e.g., "oil on canvas", "marble sculpture", "bronze")

Return ONLY the JSON object, no markdown formatting.`

const notArtworkMessage = "This doesn't appear to be a photograph of an artwork. Try taking a photo of a painting, sculpture, or artifact."

// Identifier matches a visitor's photo against the collection: a vision pass
// extracts a structured guess, which drives collection searches, and the
// candidates are scored against the guess.
type Identifier struct {
	llm    LLMClient
	met    ObjectSearcher
	logger *log.Logger
}

// NewIdentifier wires an Identifier.
func NewIdentifier(llm LLMClient, met ObjectSearcher, logger *log.Logger) *Identifier {
	return &Identifier{llm: llm, met: met, logger: logger}
}

// Identify runs the full scan flow on a base64-encoded photo. The image may
// carry a data URL prefix; a bare base64 payload is assumed to be JPEG.
func (i *Identifier) Identify(ctx context.Context, image string) (models.Identification, error) {
	if image == "" {
		return models.Identification{}, newError(CodeValidation, "image_required", nil)
	}
	if !i.llm.Configured() {
		return models.Identification{}, newError(CodeUnavailable, "openai_not_configured", nil)
	}

	analysis, err := i.analyzeImage(ctx, image)
	if err != nil {
		return models.Identification{}, err
	}

	i.logger.Info("vision analysis",
		"isArtwork", analysis.IsArtwork,
		"title", models.Str(analysis.ProbableTitle),
		"artist", models.Str(analysis.ProbableArtist),
		"keywords", analysis.VisualKeywords,
	)

	summary := models.AnalysisSummary{
		ProbableTitle:  analysis.ProbableTitle,
		ProbableArtist: analysis.ProbableArtist,
		Keywords:       analysis.VisualKeywords,
		Period:         analysis.ArtPeriod,
		Medium:         analysis.Medium,
	}
	if summary.Keywords == nil {
		summary.Keywords = []string{}
	}

	if !analysis.IsArtwork {
		return models.Identification{
			IsArtwork: false,
			Message:   notArtworkMessage,
			Analysis:  summary,
			Results:   []models.MatchResult{},
		}, nil
	}

	candidates := i.collectCandidates(ctx, analysis)

	results := make([]models.MatchResult, 0, len(candidates))
	for _, obj := range candidates {
		score, reason := matchScore(obj, analysis)
		small := models.Str(obj.PrimaryImageSmall)
		if small == "" {
			small = models.Str(obj.PrimaryImage)
		}
		results = append(results, models.MatchResult{
			ObjectID:          obj.ObjectID,
			Title:             models.Str(obj.Title),
			ArtistDisplayName: obj.ArtistDisplayName,
			ObjectDate:        obj.ObjectDate,
			Department:        models.Str(obj.Department),
			PrimaryImageSmall: small,
			MatchScore:        score,
			MatchReason:       reason,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].MatchScore > results[b].MatchScore
	})
	if len(results) > 3 {
		results = results[:3]
	}

	return models.Identification{
		IsArtwork:       true,
		Analysis:        summary,
		Results:         results,
		TotalCandidates: len(candidates),
	}, nil
}

// analyzeImage runs the vision model and parses its JSON verdict. A response
// that cannot be parsed is treated as "not an artwork" rather than an error.
func (i *Identifier) analyzeImage(ctx context.Context, image string) (models.VisionAnalysis, error) {
	imageURL := image
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/jpeg;base64," + imageURL
	}

	res, err := i.llm.Chat(ctx, openai.ChatRequest{
		Model:       visionModel,
		Prompt:      visionPrompt,
		ImageURL:    imageURL,
		Temperature: visionTemperature,
		MaxTokens:   visionMaxTokens,
	})
	if err != nil {
		return models.VisionAnalysis{}, newError(CodeGeneration, "vision_request_failed", err)
	}

	var analysis models.VisionAnalysis
	raw := extractJSON(res.Content)
	if raw == "" || json.Unmarshal([]byte(raw), &analysis) != nil {
		i.logger.Warn("vision response was not parseable JSON")
		return models.VisionAnalysis{VisualKeywords: []string{}}, nil
	}
	if analysis.VisualKeywords == nil {
		analysis.VisualKeywords = []string{}
	}
	return analysis, nil
}

// extractJSON returns the outermost {...} span of s, or "" when absent. The
// model occasionally wraps its answer in prose or code fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// collectCandidates searches the collection with queries built from the
// analysis, most specific first, and fetches candidates that carry an image.
// Search and fetch failures for individual entries are skipped.
func (i *Identifier) collectCandidates(ctx context.Context, analysis models.VisionAnalysis) []models.Object {
	artist := models.Str(analysis.ProbableArtist)
	title := models.Str(analysis.ProbableTitle)

	var queries []string
	if artist != "" && title != "" {
		queries = append(queries, fmt.Sprintf("%s %s", artist, title))
	}
	if artist != "" {
		queries = append(queries, artist)
	}
	if title != "" {
		queries = append(queries, title)
	}
	if len(analysis.VisualKeywords) > 0 {
		queries = append(queries, strings.Join(analysis.VisualKeywords, " "))
	}
	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}

	seen := make(map[int]struct{})
	var ids []int
	for _, q := range queries {
		found, err := i.met.Search(ctx, q)
		if err != nil {
			i.logger.Warn("collection search failed", "query", q, "error", err)
			continue
		}
		for _, id := range found {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) >= maxCandidates {
			break
		}
	}
	if len(ids) > maxCandidates {
		ids = ids[:maxCandidates]
	}

	objects := make([]models.Object, 0, len(ids))
	for _, id := range ids {
		obj, err := i.met.GetObject(ctx, id)
		if err != nil {
			continue
		}
		if models.Str(obj.PrimaryImageSmall) == "" && models.Str(obj.PrimaryImage) == "" {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

// matchScore rates how well a candidate matches the vision guess. The artist
// carries the most weight, then title word overlap, then keyword hits, with a
// small bump for highlighted works.
func matchScore(obj models.Object, analysis models.VisionAnalysis) (int, string) {
	score := 0
	var reasons []string

	artist := strings.ToLower(models.Str(obj.ArtistDisplayName))
	guessArtist := strings.ToLower(models.Str(analysis.ProbableArtist))
	if artist != "" && guessArtist != "" &&
		(strings.Contains(artist, guessArtist) || strings.Contains(guessArtist, artist)) {
		score += 50
		reasons = append(reasons, "Artist match")
	}

	title := strings.ToLower(models.Str(obj.Title))
	guessTitle := strings.ToLower(models.Str(analysis.ProbableTitle))
	if title != "" && guessTitle != "" {
		overlap := wordOverlap(title, guessTitle)
		switch {
		case overlap >= 2:
			score += 30
			reasons = append(reasons, "Title match")
		case overlap >= 1:
			score += 15
			reasons = append(reasons, "Partial title match")
		}
	}

	if len(analysis.VisualKeywords) > 0 {
		objectText := strings.ToLower(fmt.Sprintf("%s %s %s",
			models.Str(obj.Title), models.Str(obj.ArtistDisplayName), models.Str(obj.Department)))
		var matched []string
		for _, kw := range analysis.VisualKeywords {
			if strings.Contains(objectText, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		score += len(matched) * 5
		if len(matched) > 0 {
			reasons = append(reasons, "Keywords: "+strings.Join(matched, ", "))
		}
	}

	if obj.IsHighlight {
		score += 5
	}

	reason := "Visual similarity"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, " • ")
	}
	return score, reason
}

func wordOverlap(a, b string) int {
	bWords := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		bWords[w] = struct{}{}
	}
	n := 0
	for _, w := range strings.Fields(a) {
		if _, ok := bWords[w]; ok {
			n++
		}
	}
	return n
}
