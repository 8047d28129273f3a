package met

import "github.com/metguide/metguide/pkg/models"

// FallbackImage is a substitute image for works whose collection API record
// carries none, usually for copyright reasons. Sourced from Wikimedia
// Commons.
type FallbackImage struct {
	ObjectID          int
	PrimaryImage      string
	PrimaryImageSmall string
	Source            string
	License           string
}

var fallbackImages = map[int]FallbackImage{
	// Madame X (Madame Pierre Gautreau) - John Singer Sargent
	12127: {
		ObjectID:          12127,
		PrimaryImage:      "https://upload.wikimedia.org/wikipedia/commons/a/a4/Madame_X_%28Madame_Pierre_Gautreau%29%2C_John_Singer_Sargent%2C_1884_%28unfree_frame_crop%29.jpg",
		PrimaryImageSmall: "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a4/Madame_X_%28Madame_Pierre_Gautreau%29%2C_John_Singer_Sargent%2C_1884_%28unfree_frame_crop%29.jpg/400px-Madame_X_%28Madame_Pierre_Gautreau%29%2C_John_Singer_Sargent%2C_1884_%28unfree_frame_crop%29.jpg",
		Source:            "Wikimedia Commons",
		License:           "Public Domain",
	},
}

// ApplyFallbackImage fills in the object's image fields from the fallback
// table when the source record provides none.
func ApplyFallbackImage(obj *models.Object) {
	if models.Str(obj.PrimaryImage) != "" || models.Str(obj.PrimaryImageSmall) != "" {
		return
	}
	fb, ok := fallbackImages[obj.ObjectID]
	if !ok {
		return
	}
	obj.PrimaryImage = models.OptStr(fb.PrimaryImage)
	obj.PrimaryImageSmall = models.OptStr(fb.PrimaryImageSmall)
}
