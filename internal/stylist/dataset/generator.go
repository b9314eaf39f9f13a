// Package dataset synthesizes labeled outfit examples from a rule table and
// reads and writes them in the CSV interchange format.
package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"outfit-workers/internal/stylist/catalog"
)

// DefaultSampleCount is the corpus size the offline tooling generates.
const DefaultSampleCount = 5000

// Example is one labeled training row.
type Example struct {
	Weather  string `json:"weather"`
	Event    string `json:"event"`
	SkinTone string `json:"skinTone"`
	Outfit   string `json:"outfit"`
}

// Corpus is an ordered, read-only sequence of examples once generated.
type Corpus []Example

// Column returns one column of the corpus by header name.
func (c Corpus) Column(name string) ([]string, error) {
	out := make([]string, len(c))
	for i, ex := range c {
		switch name {
		case ColumnWeather:
			out[i] = ex.Weather
		case ColumnEvent:
			out[i] = ex.Event
		case ColumnSkinTone:
			out[i] = ex.SkinTone
		case ColumnOutfit:
			out[i] = ex.Outfit
		default:
			return nil, fmt.Errorf("unknown corpus column %q", name)
		}
	}
	return out, nil
}

// Generator draws examples uniformly over weather × occasion × skin tone.
// A Generator is not safe for concurrent use.
type Generator struct {
	rules     catalog.RuleTable
	weathers  []string
	occasions []string
	skinTones []string
	rng       *rand.Rand
}

// NewGenerator returns a generator over the default vocabularies. A nil rng
// is replaced by a time-seeded source.
func NewGenerator(rules catalog.RuleTable, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		rules:     rules,
		weathers:  catalog.Weathers,
		occasions: catalog.Occasions,
		skinTones: catalog.SkinTones,
		rng:       rng,
	}
}

// NewSeededGenerator returns a generator whose output depends only on seed.
func NewSeededGenerator(rules catalog.RuleTable, seed int64) *Generator {
	return NewGenerator(rules, rand.New(rand.NewSource(seed)))
}

// Generate appends n examples. It fails with catalog.ErrMissingRule as soon
// as a drawn pair has no candidate outfit.
func (g *Generator) Generate(n int) (Corpus, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be non-negative, got %d", n)
	}

	corpus := make(Corpus, 0, n)
	for i := 0; i < n; i++ {
		weather := g.pick(g.weathers)
		event := g.pick(g.occasions)
		skin := g.pick(g.skinTones)

		candidates, err := g.rules.Candidates(weather, event)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}

		corpus = append(corpus, Example{
			Weather:  weather,
			Event:    event,
			SkinTone: skin,
			Outfit:   g.pick(candidates),
		})
	}
	return corpus, nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}
