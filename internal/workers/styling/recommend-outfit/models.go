// internal/workers/styling/recommend-outfit/models.go
package recommendoutfit

import (
	"outfit-workers/internal/stylist/palette"
)

type Input struct {
	City      string `json:"city"`
	Occasion  string `json:"occasion"`
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
	Weather   string `json:"weather,omitempty"`
}

// Output is merged into the process instance variables.
type Output struct {
	RecommendationID string                 `json:"recommendationId"`
	City             string                 `json:"city"`
	Weather          string                 `json:"weather"`
	Temperature      float64                `json:"temperature"`
	WeatherSource    string                 `json:"weatherSource"`
	Outfit           string                 `json:"outfit"`
	OutfitSource     string                 `json:"outfitSource"`
	Pieces           []string               `json:"pieces"`
	Palette          palette.Palette        `json:"palette"`
	Colors           palette.Recommendation `json:"colors"`
	ModelID          string                 `json:"modelId"`
	GeneratedAt      string                 `json:"generatedAt"`
}
