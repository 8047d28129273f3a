package models

// Object is the normalized artwork record served by the API.
// Optional fields are pointers so that absent upstream values marshal as
// explicit JSON nulls rather than disappearing from the payload.
type Object struct {
	ObjectID          int      `json:"objectID"`
	Title             *string  `json:"title"`
	ArtistDisplayName *string  `json:"artistDisplayName"`
	ArtistDisplayBio  *string  `json:"artistDisplayBio"`
	ObjectDate        *string  `json:"objectDate"`
	Medium            *string  `json:"medium"`
	Dimensions        *string  `json:"dimensions"`
	Department        *string  `json:"department"`
	Culture           *string  `json:"culture"`
	Period            *string  `json:"period"`
	Classification    *string  `json:"classification"`
	PrimaryImage      *string  `json:"primaryImage"`
	PrimaryImageSmall *string  `json:"primaryImageSmall"`
	AdditionalImages  []string `json:"additionalImages"`
	ObjectURL         *string  `json:"objectURL"`
	IsHighlight       bool     `json:"isHighlight"`
	AccessionNumber   *string  `json:"accessionNumber"`
	AccessionYear     *string  `json:"accessionYear"`
	CreditLine        *string  `json:"creditLine"`
	GeographyType     *string  `json:"geographyType"`
	City              *string  `json:"city"`
	Country           *string  `json:"country"`
	Repository        *string  `json:"repository"`
}

// Str returns the dereferenced value of an optional field, or "" if absent.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptStr returns a pointer to s, or nil when s is empty.
func OptStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
