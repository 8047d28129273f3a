package tours

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/metguide/metguide/pkg/met"
	"github.com/metguide/metguide/pkg/models"
)

type fakeCollection struct {
	objects     map[int]models.Object
	departments []met.Department
	highlights  map[int][]int
}

func (f *fakeCollection) GetObject(_ context.Context, objectID int) (models.Object, error) {
	obj, ok := f.objects[objectID]
	if !ok {
		return models.Object{}, met.ErrNotFound
	}
	return obj, nil
}

func (f *fakeCollection) Departments(_ context.Context) ([]met.Department, error) {
	return f.departments, nil
}

func (f *fakeCollection) SearchDepartmentHighlights(_ context.Context, departmentID int) ([]int, error) {
	return f.highlights[departmentID], nil
}

func galleryObject(id int, title, department string) models.Object {
	return models.Object{
		ObjectID:          id,
		Title:             models.OptStr(title),
		Department:        models.OptStr(department),
		PrimaryImageSmall: models.OptStr("https://images.example/small.jpg"),
		IsHighlight:       true,
	}
}

func newTestGenerator(c Collection) *Generator {
	g := NewGenerator(c, log.New(io.Discard))
	// No pacing in tests.
	g.limiter = rate.NewLimiter(rate.Inf, 1)
	g.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	return g
}

func TestGenerateWritesToursFile(t *testing.T) {
	objects := make(map[int]models.Object)
	var deptIDs []int
	for i := 0; i < 6; i++ {
		id := 500 + i
		objects[id] = galleryObject(id, "Painting", "European Paintings")
		deptIDs = append(deptIDs, id)
	}
	// One highlight from the curated list resolves; the rest are skipped.
	objects[met.HighlightIDs[0]] = galleryObject(met.HighlightIDs[0], "Masterpiece", "European Paintings")

	c := &fakeCollection{
		objects: objects,
		departments: []met.Department{
			{DepartmentID: 11, DisplayName: "European Paintings"},
		},
		highlights: map[int][]int{11: deptIDs},
	}

	path := filepath.Join(t.TempDir(), "data", "tours.json")
	data, err := newTestGenerator(c).Generate(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, data.Tours, 2)
	assert.Equal(t, "highlights", data.Tours[0].ID)
	assert.Equal(t, 1, data.Tours[0].ObjectCount)
	assert.Equal(t, "dept-11", data.Tours[1].ID)
	assert.Equal(t, "🖼️", data.Tours[1].Icon)
	assert.Equal(t, 6, data.Tours[1].ObjectCount)
	assert.Equal(t, "2026-08-01T00:00:00Z", data.GeneratedAt)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk models.ToursData
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, data.GeneratedAt, onDisk.GeneratedAt)
	require.Len(t, onDisk.Tours, 2)
}

func TestGenerateSkipsThinDepartments(t *testing.T) {
	objects := make(map[int]models.Object)
	var ids []int
	for i := 0; i < 3; i++ {
		id := 700 + i
		objects[id] = galleryObject(id, "Armor", "Arms and Armor")
		ids = append(ids, id)
	}
	objects[met.HighlightIDs[0]] = galleryObject(met.HighlightIDs[0], "Masterpiece", "European Paintings")

	c := &fakeCollection{
		objects: objects,
		departments: []met.Department{
			{DepartmentID: 4, DisplayName: "Arms and Armor"},
		},
		highlights: map[int][]int{4: ids},
	}

	data, err := newTestGenerator(c).Generate(context.Background(), filepath.Join(t.TempDir(), "tours.json"))
	require.NoError(t, err)
	require.Len(t, data.Tours, 1, "three-object department tours are dropped")
	assert.Equal(t, "highlights", data.Tours[0].ID)
}

func TestGenerateSkipsLibraries(t *testing.T) {
	objects := map[int]models.Object{
		met.HighlightIDs[0]: galleryObject(met.HighlightIDs[0], "Masterpiece", "European Paintings"),
	}
	c := &fakeCollection{
		objects: objects,
		departments: []met.Department{
			{DepartmentID: 16, DisplayName: "The Libraries"},
		},
		highlights: map[int][]int{16: {900, 901, 902, 903, 904}},
	}

	data, err := newTestGenerator(c).Generate(context.Background(), filepath.Join(t.TempDir(), "tours.json"))
	require.NoError(t, err)
	require.Len(t, data.Tours, 1)
}

func TestGenerateSortsDepartmentTours(t *testing.T) {
	objects := map[int]models.Object{
		met.HighlightIDs[0]: galleryObject(met.HighlightIDs[0], "Masterpiece", "European Paintings"),
	}
	deptObjects := func(base int, title, dept string) []int {
		var ids []int
		for i := 0; i < 5; i++ {
			id := base + i
			objects[id] = galleryObject(id, title, dept)
			ids = append(ids, id)
		}
		return ids
	}

	c := &fakeCollection{
		objects: objects,
		departments: []met.Department{
			{DepartmentID: 11, DisplayName: "European Paintings"},
			{DepartmentID: 6, DisplayName: "Asian Art"},
		},
		highlights: map[int][]int{
			11: deptObjects(1000, "Painting", "European Paintings"),
			6:  deptObjects(2000, "Scroll", "Asian Art"),
		},
	}

	data, err := newTestGenerator(c).Generate(context.Background(), filepath.Join(t.TempDir(), "tours.json"))
	require.NoError(t, err)
	require.Len(t, data.Tours, 3)
	assert.Equal(t, "highlights", data.Tours[0].ID)
	assert.Equal(t, "Asian Art", data.Tours[1].Name)
	assert.Equal(t, "European Paintings", data.Tours[2].Name)
}

func TestToTourObjectRequiresImageTitleDepartment(t *testing.T) {
	_, ok := toTourObject(models.Object{ObjectID: 1, Title: models.OptStr("Vase")})
	assert.False(t, ok, "no image")

	_, ok = toTourObject(models.Object{
		ObjectID:          2,
		Title:             models.OptStr("  "),
		Department:        models.OptStr("Asian Art"),
		PrimaryImageSmall: models.OptStr("https://images.example/x.jpg"),
	})
	assert.False(t, ok, "blank title")

	obj, ok := toTourObject(models.Object{
		ObjectID:     3,
		Title:        models.OptStr("Bowl"),
		Department:   models.OptStr("Asian Art"),
		PrimaryImage: models.OptStr("https://images.example/full.jpg"),
	})
	require.True(t, ok)
	assert.Equal(t, "https://images.example/full.jpg", obj.PrimaryImageSmall, "falls back to the full-size image")
}
