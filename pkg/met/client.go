// Package met wraps the Metropolitan Museum of Art public collection API.
package met

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/metguide/metguide/pkg/models"
)

const defaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// searchCap bounds how many object IDs a single search returns.
const searchCap = 20

// ErrNotFound is returned when the collection API has no record for an id.
var ErrNotFound = errors.New("met: object not found")

// Client is a thin client for the collection API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the collection API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a collection API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawObject is the upstream payload shape; empty strings mean absent.
type rawObject struct {
	ObjectID          int      `json:"objectID"`
	Title             string   `json:"title"`
	ArtistDisplayName string   `json:"artistDisplayName"`
	ArtistDisplayBio  string   `json:"artistDisplayBio"`
	ObjectDate        string   `json:"objectDate"`
	Medium            string   `json:"medium"`
	Dimensions        string   `json:"dimensions"`
	Department        string   `json:"department"`
	Culture           string   `json:"culture"`
	Period            string   `json:"period"`
	Classification    string   `json:"classification"`
	PrimaryImage      string   `json:"primaryImage"`
	PrimaryImageSmall string   `json:"primaryImageSmall"`
	AdditionalImages  []string `json:"additionalImages"`
	ObjectURL         string   `json:"objectURL"`
	IsHighlight       bool     `json:"isHighlight"`
	AccessionNumber   string   `json:"accessionNumber"`
	AccessionYear     string   `json:"accessionYear"`
	CreditLine        string   `json:"creditLine"`
	GeographyType     string   `json:"geographyType"`
	City              string   `json:"city"`
	Country           string   `json:"country"`
	Repository        string   `json:"repository"`
}

func (raw rawObject) normalize() models.Object {
	additional := raw.AdditionalImages
	if additional == nil {
		additional = []string{}
	}
	return models.Object{
		ObjectID:          raw.ObjectID,
		Title:             models.OptStr(raw.Title),
		ArtistDisplayName: models.OptStr(raw.ArtistDisplayName),
		ArtistDisplayBio:  models.OptStr(raw.ArtistDisplayBio),
		ObjectDate:        models.OptStr(raw.ObjectDate),
		Medium:            models.OptStr(raw.Medium),
		Dimensions:        models.OptStr(raw.Dimensions),
		Department:        models.OptStr(raw.Department),
		Culture:           models.OptStr(raw.Culture),
		Period:            models.OptStr(raw.Period),
		Classification:    models.OptStr(raw.Classification),
		PrimaryImage:      models.OptStr(raw.PrimaryImage),
		PrimaryImageSmall: models.OptStr(raw.PrimaryImageSmall),
		AdditionalImages:  additional,
		ObjectURL:         models.OptStr(raw.ObjectURL),
		IsHighlight:       raw.IsHighlight,
		AccessionNumber:   models.OptStr(raw.AccessionNumber),
		AccessionYear:     models.OptStr(raw.AccessionYear),
		CreditLine:        models.OptStr(raw.CreditLine),
		GeographyType:     models.OptStr(raw.GeographyType),
		City:              models.OptStr(raw.City),
		Country:           models.OptStr(raw.Country),
		Repository:        models.OptStr(raw.Repository),
	}
}

// GetObject fetches one artwork record and normalizes it. A 404 from the
// collection API maps to ErrNotFound; any other failure is an upstream error.
func (c *Client) GetObject(ctx context.Context, objectID int) (models.Object, error) {
	u := c.baseURL + "/objects/" + strconv.Itoa(objectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Object{}, fmt.Errorf("met: create request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return models.Object{}, fmt.Errorf("met: fetch object %d: %w", objectID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return models.Object{}, ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return models.Object{}, fmt.Errorf("met: unexpected status %d for object %d", res.StatusCode, objectID)
	}

	var raw rawObject
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&raw); err != nil {
		return models.Object{}, fmt.Errorf("met: decode object %d: %w", objectID, err)
	}
	return raw.normalize(), nil
}

type searchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// Search returns object IDs matching query, restricted to records with
// images and capped to a small candidate set.
func (c *Client) Search(ctx context.Context, query string) ([]int, error) {
	u := c.baseURL + "/search?hasImages=true&q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("met: create search request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("met: search %q: %w", query, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("met: search %q: unexpected status %d", query, res.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 4<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("met: decode search response: %w", err)
	}
	if len(payload.ObjectIDs) > searchCap {
		return payload.ObjectIDs[:searchCap], nil
	}
	return payload.ObjectIDs, nil
}

// SearchDepartmentHighlights returns the IDs of highlighted, imaged records
// in one curatorial department. Unlike Search the result is not capped; the
// caller decides how many to fetch.
func (c *Client) SearchDepartmentHighlights(ctx context.Context, departmentID int) ([]int, error) {
	u := fmt.Sprintf("%s/search?departmentId=%d&isHighlight=true&hasImages=true&q=*", c.baseURL, departmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("met: create search request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("met: search department %d: %w", departmentID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("met: search department %d: unexpected status %d", departmentID, res.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 4<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("met: decode search response: %w", err)
	}
	return payload.ObjectIDs, nil
}

// Department is one curatorial department of the museum.
type Department struct {
	DepartmentID int    `json:"departmentId"`
	DisplayName  string `json:"displayName"`
}

type departmentsResponse struct {
	Departments []Department `json:"departments"`
}

// Departments lists the museum's curatorial departments.
func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/departments", nil)
	if err != nil {
		return nil, fmt.Errorf("met: create departments request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("met: fetch departments: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("met: departments: unexpected status %d", res.StatusCode)
	}

	var payload departmentsResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("met: decode departments: %w", err)
	}
	return payload.Departments, nil
}
