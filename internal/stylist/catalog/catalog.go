// Package catalog holds the fixed category vocabularies and the outfit rule
// table used to synthesize training data.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	WeatherHot      = "Hot"
	WeatherModerate = "Moderate"
	WeatherCold     = "Cold"
	WeatherRainy    = "Rainy"

	OccasionCasual  = "Casual"
	OccasionOffice  = "Office"
	OccasionParty   = "Party"
	OccasionGym     = "Gym"
	OccasionWedding = "Wedding"

	SkinLight  = "Light"
	SkinMedium = "Medium"
	SkinDark   = "Dark"

	UndertoneCool = "Cool"
	UndertoneWarm = "Warm"
)

// Vocabularies in the order the generator draws from them.
var (
	Weathers   = []string{WeatherHot, WeatherModerate, WeatherCold, WeatherRainy}
	Occasions  = []string{OccasionCasual, OccasionOffice, OccasionParty, OccasionGym, OccasionWedding}
	SkinTones  = []string{SkinLight, SkinMedium, SkinDark}
	Undertones = []string{UndertoneCool, UndertoneWarm}
)

// PlaceholderPiece pads outfits with fewer than three pieces.
const PlaceholderPiece = "Accessories"

var ErrMissingRule = errors.New("MISSING_RULE")

// Key identifies one row of the rule table.
type Key struct {
	Weather  string
	Occasion string
}

func (k Key) String() string {
	return k.Weather + "/" + k.Occasion
}

// RuleTable maps a (weather, occasion) pair to its candidate outfits.
type RuleTable map[Key][]string

// Candidates returns the outfits for the pair, or ErrMissingRule when the
// pair has no entry or an empty list.
func (r RuleTable) Candidates(weather, occasion string) ([]string, error) {
	outfits := r[Key{Weather: weather, Occasion: occasion}]
	if len(outfits) == 0 {
		return nil, fmt.Errorf("%w: no outfits for weather=%q occasion=%q", ErrMissingRule, weather, occasion)
	}
	return outfits, nil
}

// Validate checks that every weather × occasion pair has a candidate.
func (r RuleTable) Validate(weathers, occasions []string) error {
	var missing []string
	for _, w := range weathers {
		for _, o := range occasions {
			if len(r[Key{Weather: w, Occasion: o}]) == 0 {
				missing = append(missing, Key{Weather: w, Occasion: o}.String())
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRule, strings.Join(missing, ", "))
	}
	return nil
}

// Outfits returns every distinct outfit in the table.
func (r RuleTable) Outfits() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range Weathers {
		for _, o := range Occasions {
			for _, outfit := range r[Key{Weather: w, Occasion: o}] {
				if _, ok := seen[outfit]; ok {
					continue
				}
				seen[outfit] = struct{}{}
				out = append(out, outfit)
			}
		}
	}
	return out
}

func (r RuleTable) Clone() RuleTable {
	out := make(RuleTable, len(r))
	for k, v := range r {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() RuleTable {
	return defaultRules.Clone()
}

var defaultRules = RuleTable{
	{WeatherHot, OccasionCasual}:  {"T-shirt + Shorts", "Cotton Polo + Chinos", "Linen Shirt + Jeans", "Graphic Tee + Cargo Shorts"},
	{WeatherHot, OccasionOffice}:  {"Linen Shirt + Trousers", "Cotton Formal Shirt + Chinos", "Half-Sleeve Formal Shirt"},
	{WeatherHot, OccasionParty}:   {"Printed Half-Sleeve Shirt + Jeans", "Polo T-shirt + Trousers", "Linen Blazer + T-shirt"},
	{WeatherHot, OccasionGym}:     {"Sleeveless Tank + Shorts", "Dri-Fit Tee + Shorts"},
	{WeatherHot, OccasionWedding}: {"Light Cotton Kurta", "Linen Suit", "Pastel Waistcoat Set"},

	{WeatherModerate, OccasionCasual}:  {"T-shirt + Jeans", "Checkered Shirt + Chinos", "Henley + Jeans", "Denim Shirt + Khakis"},
	{WeatherModerate, OccasionOffice}:  {"Formal Shirt + Trousers", "Business Casual Blazer + Chinos"},
	{WeatherModerate, OccasionParty}:   {"Casual Blazer + Jeans", "Party Wear Shirt + Chinos", "Solid Shirt + Trousers"},
	{WeatherModerate, OccasionGym}:     {"T-shirt + Track Pants", "Polyester Tee + Joggers"},
	{WeatherModerate, OccasionWedding}: {"Traditional Kurta Pajama", "Waistcoat Set", "Bandhgala Suit"},

	{WeatherCold, OccasionCasual}:  {"Hoodie + Jeans", "Sweatshirt + Joggers", "Denim Jacket + Jeans", "Puffer Jacket + Chinos"},
	{WeatherCold, OccasionOffice}:  {"Formal Shirt + Sweater", "Suit with Tie", "Turtleneck + Trousers"},
	{WeatherCold, OccasionParty}:   {"Leather Jacket + Jeans", "Velvet Blazer + Trousers", "Overcoat + Boots"},
	{WeatherCold, OccasionGym}:     {"Full Sleeve Dri-Fit + Track Pants", "Hoodie + Joggers"},
	{WeatherCold, OccasionWedding}: {"Sherwani + Shawl", "3-Piece Suit", "Velvet Bandhgala"},

	{WeatherRainy, OccasionCasual}:  {"Waterproof Jacket + Shorts", "Dark T-shirt + Nylon Pants"},
	{WeatherRainy, OccasionOffice}:  {"Dark Shirt + Trousers + Raincoat"},
	{WeatherRainy, OccasionParty}:   {"Short Sleeve Shirt + Dark Jeans"},
	{WeatherRainy, OccasionGym}:     {"Synthetic T-shirt + Shorts"},
	{WeatherRainy, OccasionWedding}: {"Dark Suit (Avoid Velvets)", "Short Kurta + Trousers"},
}

// SplitOutfit breaks an outfit description into top, bottom and extra
// pieces on '+'. Missing pieces are PlaceholderPiece; pieces past the
// third are dropped.
func SplitOutfit(outfit string) [3]string {
	parts := strings.Split(outfit, "+")
	var pieces [3]string
	for i := range pieces {
		if i < len(parts) {
			pieces[i] = strings.TrimSpace(parts[i])
		} else {
			pieces[i] = PlaceholderPiece
		}
	}
	return pieces
}

// Normalize trims value and capitalizes it, so "  wedding" and "WEDDING"
// both become "Wedding".
func Normalize(value string) string {
	return Capitalize(strings.TrimSpace(value))
}

// Capitalize upper-cases the first letter of value and lower-cases the
// rest. Surrounding whitespace is kept, so " light" stays unmatched.
func Capitalize(value string) string {
	if value == "" {
		return value
	}
	runes := []rune(strings.ToLower(value))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
