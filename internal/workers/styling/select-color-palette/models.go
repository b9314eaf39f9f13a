// internal/workers/styling/select-color-palette/models.go
package selectcolorpalette

import "outfit-workers/internal/stylist/palette"

type Input struct {
	SkinTone  string `json:"skinTone"`
	Undertone string `json:"undertone"`
}

type Output struct {
	Palette        palette.Palette        `json:"palette"`
	Recommendation palette.Recommendation `json:"recommendation"`
}
