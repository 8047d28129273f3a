package guide

import (
	"fmt"
	"strings"

	"github.com/metguide/metguide/pkg/models"
)

// narrationPrompt builds the deterministic guide prompt: only the non-empty
// metadata fields, one per line, followed by fixed authorial instructions.
func narrationPrompt(obj models.Object) string {
	var details []string
	if t := models.Str(obj.Title); t != "" {
		details = append(details, fmt.Sprintf("Title: %q", t))
	}
	if a := models.Str(obj.ArtistDisplayName); a != "" {
		details = append(details, "Artist: "+a)
	}
	if b := models.Str(obj.ArtistDisplayBio); b != "" {
		details = append(details, "Artist Bio: "+b)
	}
	if d := models.Str(obj.ObjectDate); d != "" {
		details = append(details, "Date: "+d)
	}
	if m := models.Str(obj.Medium); m != "" {
		details = append(details, "Medium: "+m)
	}
	if c := models.Str(obj.Culture); c != "" {
		details = append(details, "Culture: "+c)
	}
	if p := models.Str(obj.Period); p != "" {
		details = append(details, "Period: "+p)
	}
	if c := models.Str(obj.Classification); c != "" {
		details = append(details, "Classification: "+c)
	}
	if d := models.Str(obj.Department); d != "" {
		details = append(details, "Department: "+d)
	}
	if obj.IsHighlight {
		details = append(details, "This is a highlight piece in the Met's collection.")
	}

	return `You are an enthusiastic and knowledgeable museum guide at The Metropolitan Museum of Art.
You're speaking directly to a visitor standing in front of this artwork. Do not mention the fact that you are standing in front of the artwork.

Here are the details about the artwork:
` + strings.Join(details, "\n") + `

Write a compelling 45-second narration (about 100-120 words) that:
1. Opens with something captivating about this piece - a fascinating detail, surprising fact, or emotional hook
2. Explains WHY this work matters - its historical significance, artistic innovation, or cultural impact
3. Points out one or two specific visual details the visitor should look for
4. Ends with a memorable thought that stays with them

Speak naturally and warmly, like a friend who happens to be an art expert.
Avoid: dry facts, dimensions, inventory numbers, or academic jargon.
Do NOT use phrases like "Let me tell you" or "Did you know" or "Standing in front of" - just dive right in.`
}
