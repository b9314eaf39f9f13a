// Package palette holds the static seasonal color tables.
package palette

import (
	"outfit-workers/internal/stylist/catalog"
)

const (
	SeasonWinter = "Winter"
	SeasonSummer = "Summer"
	SeasonAutumn = "Autumn"
	SeasonSpring = "Spring"
)

// Color is one named power color.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is immutable; callers get their own copy of every slice and map.
type Palette struct {
	Season      string            `json:"season"`
	Symbol      string            `json:"symbol"`
	Description string            `json:"description"`
	Power       map[string]string `json:"power"`
	// PowerOrder lists Power's names in display order.
	PowerOrder []string `json:"powerOrder"`
	Neutrals   []string `json:"neutrals"`
	Avoid      []string `json:"avoid"`
}

// PowerColors returns Power in display order.
func (p Palette) PowerColors() []Color {
	out := make([]Color, 0, len(p.PowerOrder))
	for _, name := range p.PowerOrder {
		out = append(out, Color{Name: name, Hex: p.Power[name]})
	}
	return out
}

type season struct {
	symbol      string
	description string
	power       []Color
	neutrals    []string
	avoid       []string
}

var seasons = map[string]season{
	SeasonWinter: {
		symbol:      "❄",
		description: "Bold, sharp, high-contrast colors.",
		power: []Color{
			{"Black", "#000000"}, {"White", "#FFFFFF"}, {"Crimson", "#DC143C"},
			{"Navy", "#000080"}, {"Royal Blue", "#104E8B"}, {"Emerald", "#50C878"},
		},
		neutrals: []string{"#808080", "#C0C0C0", "#2F4F4F"},
		avoid:    []string{"#D2691E", "#FFD700", "#F4A460"},
	},
	SeasonSummer: {
		symbol:      "☀",
		description: "Soft, cool, muted pastels.",
		power: []Color{
			{"Powder Blue", "#B0E0E6"}, {"Lavender", "#E6E6FA"}, {"Rose", "#FFB6C1"},
			{"Mint", "#98FB98"}, {"Slate", "#778899"}, {"Steel", "#4682B4"},
		},
		neutrals: []string{"#F5F5F5", "#708090", "#A9A9A9"},
		avoid:    []string{"#000000", "#FFA500", "#FFFF00"},
	},
	SeasonAutumn: {
		symbol:      "🍂",
		description: "Rich, earthy, golden hues.",
		power: []Color{
			{"Olive", "#808000"}, {"Chocolate", "#8B4513"}, {"Gold", "#DAA520"},
			{"Brick Red", "#B22222"}, {"Rust", "#D2691E"}, {"Forest", "#556B2F"},
		},
		neutrals: []string{"#F5F5DC", "#DEB887", "#8B0000"},
		avoid:    []string{"#FF69B4", "#00FFFF", "#E6E6FA"},
	},
	SeasonSpring: {
		symbol:      "🌸",
		description: "Bright, fresh, vibrant shades.",
		power: []Color{
			{"Coral", "#FF7F50"}, {"Turquoise", "#40E0D0"}, {"Gold", "#FFD700"},
			{"Salmon", "#FFA07A"}, {"Aqua", "#7FFFD4"}, {"OrangeRed", "#FF4500"},
		},
		neutrals: []string{"#FFF8DC", "#F0E68C", "#D2B48C"},
		avoid:    []string{"#000000", "#696969", "#800000"},
	},
}

// SeasonFor picks the season for a skin tone and undertone. Values are
// compared exactly; anything outside the three explicit branches is
// Spring.
func SeasonFor(skinTone, undertone string) string {
	deep := skinTone == catalog.SkinMedium || skinTone == catalog.SkinDark
	switch {
	case undertone == catalog.UndertoneCool && deep:
		return SeasonWinter
	case undertone == catalog.UndertoneCool && skinTone == catalog.SkinLight:
		return SeasonSummer
	case undertone == catalog.UndertoneWarm && deep:
		return SeasonAutumn
	default:
		return SeasonSpring
	}
}

// GetColorPalette returns the seasonal palette for skinTone and undertone.
func GetColorPalette(skinTone, undertone string) Palette {
	return build(SeasonFor(skinTone, undertone))
}

// Seasons lists every palette in a fixed order.
func Seasons() []Palette {
	return []Palette{
		build(SeasonWinter),
		build(SeasonSummer),
		build(SeasonAutumn),
		build(SeasonSpring),
	}
}

func build(name string) Palette {
	s := seasons[name]
	p := Palette{
		Season:      name,
		Symbol:      s.symbol,
		Description: s.description,
		Power:       make(map[string]string, len(s.power)),
		PowerOrder:  make([]string, 0, len(s.power)),
		Neutrals:    append([]string(nil), s.neutrals...),
		Avoid:       append([]string(nil), s.avoid...),
	}
	for _, c := range s.power {
		p.Power[c.Name] = c.Hex
		p.PowerOrder = append(p.PowerOrder, c.Name)
	}
	return p
}
