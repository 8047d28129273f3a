package tours

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/models"
)

const (
	maxObjectsPerDepartment = 30
	// minTourObjects drops department tours too thin to be worth walking.
	minTourObjects = 5
	// librariesDepartmentID is excluded; its records are books, not gallery
	// objects.
	librariesDepartmentID = 16
)

var departmentIcons = map[int]string{
	1:  "🏺",
	3:  "🏛️",
	4:  "⚔️",
	5:  "🎭",
	6:  "🐉",
	7:  "⛪",
	8:  "👗",
	9:  "✏️",
	10: "🏺",
	11: "🖼️",
	12: "🗿",
	13: "🏛️",
	14: "☪️",
	15: "📜",
	16: "📸",
	17: "⚱️",
	18: "🎹",
	19: "📷",
	21: "🖌️",
}

var departmentDescriptions = map[int]string{
	1:  "Furniture, silver, ceramics, and decorative arts from colonial America to the early 20th century",
	3:  "Artifacts from Mesopotamia, Anatolia, and the ancient Near East",
	4:  "Weapons, armor, and military equipment from around the world",
	5:  "Art and artifacts from sub-Saharan Africa, the Pacific Islands, and the Americas",
	6:  "Paintings, sculptures, ceramics, and textiles from China, Japan, Korea, South and Southeast Asia",
	7:  "Medieval European art and architecture in a branch museum in Fort Tryon Park",
	8:  "Fashion and accessories from the 15th century to the present",
	9:  "Works on paper including prints, drawings, and illustrated books",
	10: "Art from ancient Egypt spanning 5,000 years of history",
	11: "Masterpieces of European painting from the 13th to the early 20th century",
	12: "Sculpture, furniture, ceramics, and metalwork from Renaissance to early modern Europe",
	13: "Art from ancient Greece and Rome, including sculpture, pottery, and jewelry",
	14: "Art from the Islamic world spanning 13 centuries",
	15: "Old Master and Impressionist paintings from the Robert Lehman Collection",
	17: "Art and artifacts from medieval Europe",
	18: "Musical instruments from around the world and across history",
	19: "Photographs from the invention of the medium to the present",
	21: "Art from the late 19th century to today",
}

// Collection is the slice of the collection client the generator uses.
type Collection interface {
	GetObject(ctx context.Context, objectID int) (models.Object, error)
	Departments(ctx context.Context) ([]met.Department, error)
	SearchDepartmentHighlights(ctx context.Context, departmentID int) ([]int, error)
}

// Generator builds the tours file: a curated highlights tour plus one tour
// per department, from the department's highlighted objects.
type Generator struct {
	met     Collection
	limiter *rate.Limiter
	logger  *log.Logger
	now     func() time.Time
}

// NewGenerator wires a Generator. Object fetches are paced to stay friendly
// to the public collection API.
func NewGenerator(collection Collection, logger *log.Logger) *Generator {
	return &Generator{
		met:     collection,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		logger:  logger,
		now:     time.Now,
	}
}

// Generate builds all tours and writes them as indented JSON to path.
func (g *Generator) Generate(ctx context.Context, path string) (models.ToursData, error) {
	var allTours []models.Tour

	highlights, err := g.highlightsTour(ctx)
	if err != nil {
		return models.ToursData{}, err
	}
	allTours = append(allTours, highlights)

	departments, err := g.met.Departments(ctx)
	if err != nil {
		return models.ToursData{}, fmt.Errorf("tours: fetch departments: %w", err)
	}

	var deptTours []models.Tour
	for _, dept := range departments {
		if dept.DepartmentID == librariesDepartmentID {
			continue
		}
		tour, err := g.departmentTour(ctx, dept)
		if err != nil {
			return models.ToursData{}, err
		}
		if tour != nil && len(tour.Objects) >= minTourObjects {
			deptTours = append(deptTours, *tour)
		}
	}

	sort.Slice(deptTours, func(i, j int) bool {
		return deptTours[i].Name < deptTours[j].Name
	})
	allTours = append(allTours, deptTours...)

	data := models.ToursData{
		GeneratedAt: g.now().UTC().Format(time.RFC3339),
		Tours:       allTours,
	}

	if err := g.write(data, path); err != nil {
		return models.ToursData{}, err
	}

	total := 0
	for _, t := range allTours {
		total += t.ObjectCount
	}
	g.logger.Info("tours generated", "path", path, "tours", len(allTours), "objects", total)

	return data, nil
}

func (g *Generator) highlightsTour(ctx context.Context) (models.Tour, error) {
	g.logger.Info("building highlights tour", "candidates", len(met.HighlightIDs))

	objects, err := g.fetchTourObjects(ctx, met.HighlightIDs)
	if err != nil {
		return models.Tour{}, err
	}

	return models.Tour{
		ID:          "highlights",
		Name:        "Museum Highlights",
		Description: "Hand-picked masterpieces spanning European paintings, American art, sculpture, medieval treasures, Asian art, and ancient artifacts",
		Icon:        "⭐",
		ObjectCount: len(objects),
		Objects:     objects,
	}, nil
}

func (g *Generator) departmentTour(ctx context.Context, dept met.Department) (*models.Tour, error) {
	ids, err := g.met.SearchDepartmentHighlights(ctx, dept.DepartmentID)
	if err != nil {
		g.logger.Warn("department search failed", "department", dept.DisplayName, "error", err)
		return nil, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxObjectsPerDepartment {
		ids = ids[:maxObjectsPerDepartment]
	}

	g.logger.Info("building department tour", "department", dept.DisplayName, "candidates", len(ids))

	objects, err := g.fetchTourObjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, nil
	}

	description, ok := departmentDescriptions[dept.DepartmentID]
	if !ok {
		description = fmt.Sprintf("Explore the %s collection", dept.DisplayName)
	}
	icon, ok := departmentIcons[dept.DepartmentID]
	if !ok {
		icon = "🎨"
	}

	return &models.Tour{
		ID:          fmt.Sprintf("dept-%d", dept.DepartmentID),
		Name:        dept.DisplayName,
		Description: description,
		Icon:        icon,
		ObjectCount: len(objects),
		Objects:     objects,
	}, nil
}

// fetchTourObjects fetches each candidate and keeps the ones usable in a
// tour. Individual fetch failures are skipped; a context cancellation stops
// the run.
func (g *Generator) fetchTourObjects(ctx context.Context, ids []int) ([]models.TourObject, error) {
	objects := make([]models.TourObject, 0, len(ids))
	for _, id := range ids {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		obj, err := g.met.GetObject(ctx, id)
		if err != nil {
			g.logger.Warn("object fetch failed", "objectID", id, "error", err)
			continue
		}
		tourObj, ok := toTourObject(obj)
		if !ok {
			continue
		}
		objects = append(objects, tourObj)
	}
	return objects, nil
}

// toTourObject trims an artwork record for embedding in a tour. Records
// without an image, title, or department are not usable.
func toTourObject(obj models.Object) (models.TourObject, bool) {
	image := models.Str(obj.PrimaryImageSmall)
	if image == "" {
		image = models.Str(obj.PrimaryImage)
	}
	title := strings.TrimSpace(models.Str(obj.Title))
	department := models.Str(obj.Department)
	if image == "" || title == "" || department == "" {
		return models.TourObject{}, false
	}

	return models.TourObject{
		ObjectID:          obj.ObjectID,
		Title:             title,
		ArtistDisplayName: obj.ArtistDisplayName,
		ArtistDisplayBio:  obj.ArtistDisplayBio,
		ObjectDate:        obj.ObjectDate,
		Department:        department,
		PrimaryImageSmall: image,
		IsHighlight:       obj.IsHighlight,
	}, true
}

func (g *Generator) write(data models.ToursData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tours: create data dir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("tours: marshal: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("tours: write %s: %w", path, err)
	}
	return nil
}
