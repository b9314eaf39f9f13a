package models

import (
	"time"

	"outfit-workers/internal/stylist/palette"
)

// StyleRequest is what a caller knows about the person and the day.
type StyleRequest struct {
	City      string `json:"city"`
	Occasion  string `json:"occasion"`
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
	// Weather skips the lookup when set.
	Weather string `json:"weather,omitempty"`
}

// Recommendation is the full style guide for one request.
type Recommendation struct {
	ID            string                 `json:"recommendationId"`
	City          string                 `json:"city"`
	Weather       string                 `json:"weather"`
	Temperature   float64                `json:"temperature"`
	WeatherSource string                 `json:"weatherSource"`
	Occasion      string                 `json:"occasion"`
	SkinTone      string                 `json:"skinTone"`
	Undertone     string                 `json:"undertone"`
	Outfit        string                 `json:"outfit"`
	OutfitSource  string                 `json:"outfitSource"`
	Pieces        [3]string              `json:"pieces"`
	Palette       palette.Palette        `json:"palette"`
	Colors        palette.Recommendation `json:"colors"`
	ModelID       string                 `json:"modelId"`
	GeneratedAt   time.Time              `json:"generatedAt"`
}

// IsFallback reports whether any part of the answer came from a default.
func (r *Recommendation) IsFallback() bool {
	return r.OutfitSource == "fallback" || r.WeatherSource == "fallback"
}
