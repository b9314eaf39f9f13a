package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"outfit-workers/internal/stylist/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_OutfitsStayWithinPairCandidates(t *testing.T) {
	rules := catalog.DefaultRules()
	corpus, err := NewSeededGenerator(rules, 7).Generate(3000)
	require.NoError(t, err)
	require.Len(t, corpus, 3000)

	for _, ex := range corpus {
		candidates, err := rules.Candidates(ex.Weather, ex.Event)
		require.NoError(t, err)
		assert.Contains(t, candidates, ex.Outfit)
		assert.Contains(t, catalog.SkinTones, ex.SkinTone)
	}
}

func TestGenerate_CoversEveryPair(t *testing.T) {
	corpus, err := NewSeededGenerator(catalog.DefaultRules(), 42).Generate(DefaultSampleCount)
	require.NoError(t, err)

	pairs := map[catalog.Key]bool{}
	for _, ex := range corpus {
		pairs[catalog.Key{Weather: ex.Weather, Occasion: ex.Event}] = true
	}
	assert.Len(t, pairs, len(catalog.Weathers)*len(catalog.Occasions))
}

func TestGenerate_SameSeedSameCorpus(t *testing.T) {
	a, err := NewSeededGenerator(catalog.DefaultRules(), 99).Generate(500)
	require.NoError(t, err)
	b, err := NewSeededGenerator(catalog.DefaultRules(), 99).Generate(500)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSeededGenerator(catalog.DefaultRules(), 100).Generate(500)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerate_MissingRule(t *testing.T) {
	rules := catalog.DefaultRules()
	delete(rules, catalog.Key{Weather: catalog.WeatherRainy, Occasion: catalog.OccasionWedding})

	_, err := NewSeededGenerator(rules, 1).Generate(DefaultSampleCount)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMissingRule)
}

func TestGenerate_Counts(t *testing.T) {
	g := NewGenerator(catalog.DefaultRules(), nil)

	corpus, err := g.Generate(0)
	require.NoError(t, err)
	assert.Empty(t, corpus)

	_, err = g.Generate(-1)
	assert.Error(t, err)
}

func TestCSV_RoundTrip(t *testing.T) {
	corpus, err := NewSeededGenerator(catalog.DefaultRules(), 3).Generate(50)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, corpus))
	assert.True(t, strings.HasPrefix(buf.String(), "Weather,Event,Skin_Tone,Outfit\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, corpus, got)
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "Weather,Occasion,Skin_Tone,Outfit\nHot,Gym,Light,Linen Suit\n"},
		{"short row", "Weather,Event,Skin_Tone,Outfit\nHot,Gym,Light\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedCorpus)
		})
	}
}

func TestFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "clothing_data.csv")
	corpus := Corpus{
		{Weather: "Rainy", Event: "Office", SkinTone: "Dark", Outfit: "Dark Shirt + Trousers + Raincoat"},
		{Weather: "Hot", Event: "Wedding", SkinTone: "Light", Outfit: "Linen Suit"},
	}

	require.NoError(t, SaveFile(path, corpus))
	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corpus, got)
}

func TestCorpus_Column(t *testing.T) {
	corpus := Corpus{{Weather: "Hot", Event: "Gym", SkinTone: "Light", Outfit: "x"}}

	col, err := corpus.Column(ColumnSkinTone)
	require.NoError(t, err)
	assert.Equal(t, []string{"Light"}, col)

	_, err = corpus.Column("Gender")
	assert.Error(t, err)
}
