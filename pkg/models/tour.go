package models

// TourObject is the trimmed artwork record embedded in a curated tour.
type TourObject struct {
	ObjectID          int     `json:"objectID"`
	Title             string  `json:"title"`
	ArtistDisplayName *string `json:"artistDisplayName"`
	ArtistDisplayBio  *string `json:"artistDisplayBio"`
	ObjectDate        *string `json:"objectDate"`
	Department        string  `json:"department"`
	PrimaryImageSmall string  `json:"primaryImageSmall"`
	IsHighlight       bool    `json:"isHighlight"`
}

// Tour is one curated walking tour through the collection.
type Tour struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	ObjectCount int          `json:"objectCount"`
	Objects     []TourObject `json:"objects"`
}

// ToursData is the on-disk shape of the generated tours file.
type ToursData struct {
	GeneratedAt string `json:"generatedAt"`
	Tours       []Tour `json:"tours"`
}

// TourPreview is a thumbnail reference used in tour list responses.
type TourPreview struct {
	ObjectID          int    `json:"objectID"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
}

// TourSummary is the list-view projection of a tour: metadata plus a few
// preview thumbnails, without the full object list.
type TourSummary struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Icon           string        `json:"icon"`
	ObjectCount    int           `json:"objectCount"`
	PreviewObjects []TourPreview `json:"previewObjects"`
}
