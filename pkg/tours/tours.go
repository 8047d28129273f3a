// Package tours serves and generates the curated walking tours. Tours are
// built offline against the collection API and written to a JSON file; the
// serving path only reads that file.
package tours

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/metguide/metguide/pkg/models"
)

var (
	// ErrUnavailable means the tours file is missing or unreadable.
	ErrUnavailable = errors.New("tours: data not available")
	// ErrNotFound means no tour carries the requested ID.
	ErrNotFound = errors.New("tours: not found")
)

const previewCount = 4

// Service reads the generated tours file. Outside development the parsed
// file is held in memory after the first read; in development every request
// re-reads so a regenerated file shows up without a restart.
type Service struct {
	path   string
	dev    bool
	logger *log.Logger
	mu     sync.Mutex
	cached *models.ToursData
}

// NewService wires a Service over the tours file at path.
func NewService(path string, dev bool, logger *log.Logger) *Service {
	return &Service{path: path, dev: dev, logger: logger}
}

func (s *Service) load() (*models.ToursData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dev && s.cached != nil {
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("tours file unreadable", "path", s.path, "error", err)
		return nil, ErrUnavailable
	}

	var data models.ToursData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("tours file malformed", "path", s.path, "error", err)
		return nil, ErrUnavailable
	}

	if !s.dev {
		s.cached = &data
	}
	return &data, nil
}

// List returns the tour list view: metadata plus preview thumbnails, without
// the full object lists.
func (s *Service) List() (models.ToursData, []models.TourSummary, error) {
	data, err := s.load()
	if err != nil {
		return models.ToursData{}, nil, err
	}

	summaries := make([]models.TourSummary, 0, len(data.Tours))
	for _, tour := range data.Tours {
		n := previewCount
		if len(tour.Objects) < n {
			n = len(tour.Objects)
		}
		previews := make([]models.TourPreview, 0, n)
		for _, obj := range tour.Objects[:n] {
			previews = append(previews, models.TourPreview{
				ObjectID:          obj.ObjectID,
				PrimaryImageSmall: obj.PrimaryImageSmall,
			})
		}
		summaries = append(summaries, models.TourSummary{
			ID:             tour.ID,
			Name:           tour.Name,
			Description:    tour.Description,
			Icon:           tour.Icon,
			ObjectCount:    tour.ObjectCount,
			PreviewObjects: previews,
		})
	}
	return models.ToursData{GeneratedAt: data.GeneratedAt}, summaries, nil
}

// Get returns one tour with its full object list.
func (s *Service) Get(id string) (models.Tour, error) {
	data, err := s.load()
	if err != nil {
		return models.Tour{}, err
	}
	for _, tour := range data.Tours {
		if tour.ID == id {
			return tour, nil
		}
	}
	return models.Tour{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
