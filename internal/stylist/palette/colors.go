package palette

import (
	"outfit-workers/internal/stylist/catalog"
)

// Recommendation is the simple per-skin-tone best/avoid advice.
type Recommendation struct {
	Best  []string `json:"best"`
	Avoid []string `json:"avoid"`
}

var colorAdvice = map[string]Recommendation{
	catalog.SkinLight: {
		Best:  []string{"Navy Blue", "Emerald Green", "Maroon", "Pastel Pink", "Berry"},
		Avoid: []string{"Pale Yellow", "Beige", "White (matches skin too much)"},
	},
	catalog.SkinMedium: {
		Best:  []string{"Olive Green", "Mustard", "Royal Blue", "Coral", "Teal"},
		Avoid: []string{"Neon Colors", "Grey", "Mauve"},
	},
	catalog.SkinDark: {
		Best:  []string{"White", "Cobalt Blue", "Bright Red", "Teal", "Gold", "Pastels"},
		Avoid: []string{"Dark Brown", "Dull Grey", "Black (sometimes)"},
	},
}

var genericAdvice = Recommendation{
	Best:  []string{"Black", "White", "Navy"},
	Avoid: []string{"None"},
}

// GetColorRecommendation capitalizes skinTone and looks it up, answering
// with generic advice for anything unrecognized.
func GetColorRecommendation(skinTone string) Recommendation {
	rec, ok := colorAdvice[catalog.Capitalize(skinTone)]
	if !ok {
		rec = genericAdvice
	}
	return Recommendation{
		Best:  append([]string(nil), rec.Best...),
		Avoid: append([]string(nil), rec.Avoid...),
	}
}
