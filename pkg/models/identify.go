package models

// VisionAnalysis is the structured guess the vision model produces for a
// visitor-submitted photo.
type VisionAnalysis struct {
	IsArtwork      bool     `json:"is_artwork"`
	ProbableTitle  *string  `json:"probable_title"`
	ProbableArtist *string  `json:"probable_artist"`
	VisualKeywords []string `json:"visual_keywords"`
	ArtPeriod      *string  `json:"art_period"`
	Medium         *string  `json:"medium"`
}

// MatchResult is one scored candidate from the collection search.
type MatchResult struct {
	ObjectID          int     `json:"objectID"`
	Title             string  `json:"title"`
	ArtistDisplayName *string `json:"artistDisplayName"`
	ObjectDate        *string `json:"objectDate"`
	Department        string  `json:"department"`
	PrimaryImageSmall string  `json:"primaryImageSmall"`
	MatchScore        int     `json:"matchScore"`
	MatchReason       string  `json:"matchReason"`
}

// AnalysisSummary is the client-facing projection of a vision analysis.
type AnalysisSummary struct {
	ProbableTitle  *string  `json:"probableTitle"`
	ProbableArtist *string  `json:"probableArtist"`
	Keywords       []string `json:"keywords"`
	Period         *string  `json:"period"`
	Medium         *string  `json:"medium"`
}

// Identification is the full result of the scan flow: whether the photo
// looks like an artwork at all, and if so the ranked candidate matches.
type Identification struct {
	IsArtwork       bool            `json:"isArtwork"`
	Message         string          `json:"message,omitempty"`
	Analysis        AnalysisSummary `json:"analysis"`
	Results         []MatchResult   `json:"results"`
	TotalCandidates int             `json:"totalCandidates"`
}
