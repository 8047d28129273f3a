package guide

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metguide/metguide/pkg/models"
)

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, extractJSON("Here you go:\n```json\n{\"a\":1}\n```"))
	assert.Equal(t, "", extractJSON("no json here"))
}

func TestMatchScoreArtistAndTitle(t *testing.T) {
	obj := models.Object{
		ObjectID:          12127,
		Title:             models.OptStr("Madame X (Madame Pierre Gautreau)"),
		ArtistDisplayName: models.OptStr("John Singer Sargent"),
		Department:        models.OptStr("The American Wing"),
		IsHighlight:       true,
	}
	analysis := models.VisionAnalysis{
		ProbableTitle:  models.OptStr("Madame X"),
		ProbableArtist: models.OptStr("Sargent"),
		VisualKeywords: []string{"portrait", "black dress"},
	}

	score, reason := matchScore(obj, analysis)
	// Artist 50 + two-word title overlap 30 + highlight 5.
	assert.Equal(t, 85, score)
	assert.Contains(t, reason, "Artist match")
	assert.Contains(t, reason, "Title match")
}

func TestMatchScorePartialTitle(t *testing.T) {
	obj := models.Object{
		Title: models.OptStr("Self-Portrait with a Straw Hat"),
	}
	analysis := models.VisionAnalysis{
		ProbableTitle: models.OptStr("Self-Portrait"),
	}

	score, reason := matchScore(obj, analysis)
	assert.Equal(t, 15, score)
	assert.Equal(t, "Partial title match", reason)
}

func TestMatchScoreKeywords(t *testing.T) {
	obj := models.Object{
		Title:             models.OptStr("Portrait of a Woman"),
		ArtistDisplayName: models.OptStr("Rembrandt van Rijn"),
		Department:        models.OptStr("European Paintings"),
	}
	analysis := models.VisionAnalysis{
		VisualKeywords: []string{"portrait", "woman", "Dutch"},
	}

	score, reason := matchScore(obj, analysis)
	assert.Equal(t, 10, score)
	assert.Contains(t, reason, "Keywords: portrait, woman")
}

func TestMatchScoreNoSignal(t *testing.T) {
	score, reason := matchScore(models.Object{Title: models.OptStr("Vase")}, models.VisionAnalysis{})
	assert.Equal(t, 0, score)
	assert.Equal(t, "Visual similarity", reason)
}

func TestIdentifyNotArtwork(t *testing.T) {
	llm := &fakeLLM{
		configured: true,
		content:    `{"is_artwork": false, "probable_title": null, "probable_artist": null, "visual_keywords": [], "art_period": null, "medium": null}`,
	}
	id := NewIdentifier(llm, &fakeMet{}, log.New(io.Discard))

	res, err := id.Identify(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.False(t, res.IsArtwork)
	assert.Contains(t, res.Message, "doesn't appear to be a photograph of an artwork")
	assert.Empty(t, res.Results)
}

func TestIdentifyUnparseableVisionResponse(t *testing.T) {
	llm := &fakeLLM{configured: true, content: "I cannot tell what this is."}
	id := NewIdentifier(llm, &fakeMet{}, log.New(io.Discard))

	res, err := id.Identify(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.False(t, res.IsArtwork, "unparseable vision output is treated as not-an-artwork")
}

func TestIdentifyRanksAndTruncatesResults(t *testing.T) {
	llm := &fakeLLM{
		configured: true,
		content: `{"is_artwork": true, "probable_title": "Wheat Field with Cypresses", "probable_artist": "Vincent van Gogh",
			"visual_keywords": ["landscape", "cypresses"], "art_period": "Post-Impressionist", "medium": "oil on canvas"}`,
	}
	objects := map[int]models.Object{
		1: testObject(1, "Wheat Field with Cypresses"),
		2: testObject(2, "Cypresses"),
		3: testObject(3, "Olive Trees"),
		4: testObject(4, "Irises"),
	}
	m := &fakeMet{
		objects: objects,
		search: map[string][]int{
			"Vincent van Gogh Wheat Field with Cypresses": {1, 2},
			"Vincent van Gogh": {3, 4},
		},
	}
	id := NewIdentifier(llm, m, log.New(io.Discard))

	res, err := id.Identify(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.True(t, res.IsArtwork)
	assert.Equal(t, 4, res.TotalCandidates)
	require.Len(t, res.Results, 3)
	assert.Equal(t, 1, res.Results[0].ObjectID, "full title and artist match ranks first")
	assert.GreaterOrEqual(t, res.Results[0].MatchScore, res.Results[1].MatchScore)
	assert.GreaterOrEqual(t, res.Results[1].MatchScore, res.Results[2].MatchScore)
}

func TestIdentifySkipsCandidatesWithoutImages(t *testing.T) {
	llm := &fakeLLM{
		configured: true,
		content:    `{"is_artwork": true, "probable_title": "Vase", "probable_artist": null, "visual_keywords": [], "art_period": null, "medium": null}`,
	}
	noImage := models.Object{ObjectID: 8, Title: models.OptStr("Vase")}
	m := &fakeMet{
		objects: map[int]models.Object{7: testObject(7, "Vase"), 8: noImage},
		search:  map[string][]int{"Vase": {7, 8}},
	}
	id := NewIdentifier(llm, m, log.New(io.Discard))

	res, err := id.Identify(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCandidates)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 7, res.Results[0].ObjectID)
}

func TestIdentifyRequiresImage(t *testing.T) {
	id := NewIdentifier(&fakeLLM{configured: true}, &fakeMet{}, log.New(io.Discard))

	_, err := id.Identify(context.Background(), "")
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, code)
}

func TestIdentifyNotConfigured(t *testing.T) {
	id := NewIdentifier(&fakeLLM{configured: false}, &fakeMet{}, log.New(io.Discard))

	_, err := id.Identify(context.Background(), "aGVsbG8=")
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnavailable, code)
}

func TestIdentifyAddsDataURLPrefix(t *testing.T) {
	llm := &fakeLLM{
		configured: true,
		content:    `{"is_artwork": false, "probable_title": null, "probable_artist": null, "visual_keywords": [], "art_period": null, "medium": null}`,
	}
	id := NewIdentifier(llm, &fakeMet{}, log.New(io.Discard))

	_, err := id.Identify(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", llm.lastReq.ImageURL)

	_, err = id.Identify(context.Background(), "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", llm.lastReq.ImageURL)
}
