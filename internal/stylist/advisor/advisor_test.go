package advisor

import (
	"context"
	"testing"
	"time"

	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/predictor"
	"outfit-workers/internal/stylist/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWeather struct {
	report weather.Report
	calls  []string
}

func (s *stubWeather) Lookup(_ context.Context, city string) weather.Report {
	s.calls = append(s.calls, city)
	r := s.report
	r.City = city
	return r
}

func newAdvisor(t *testing.T, ws WeatherSource) *Advisor {
	t.Helper()
	corpus, err := dataset.NewSeededGenerator(catalog.DefaultRules(), 7).Generate(2000)
	require.NoError(t, err)
	b, err := trainer.Train(corpus, trainer.DefaultOptions())
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	svc, err := predictor.New(b, log)
	require.NoError(t, err)

	a := New(ws, svc, nil, log)
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestRecommend_ComposesGuide(t *testing.T) {
	ws := &stubWeather{report: weather.Report{Category: "Hot", Temperature: 33, WeatherCode: 0, Source: weather.SourceAPI}}
	a := newAdvisor(t, ws)

	rec := a.Recommend(context.Background(), models.StyleRequest{
		City:      "Seville",
		Occasion:  "gym",
		SkinTone:  "DARK",
		Undertone: "cool",
	})

	assert.Equal(t, []string{"Seville"}, ws.calls)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Hot", rec.Weather)
	assert.Equal(t, 33.0, rec.Temperature)
	assert.Equal(t, weather.SourceAPI, rec.WeatherSource)
	assert.Equal(t, "Gym", rec.Occasion)
	assert.Equal(t, "Dark", rec.SkinTone)
	assert.Equal(t, "Cool", rec.Undertone)

	assert.Equal(t, predictor.SourceModel, rec.OutfitSource)
	assert.Equal(t, a.Predictor().Predict("Hot", "Gym", "Dark"), rec.Outfit)
	assert.Equal(t, catalog.SplitOutfit(rec.Outfit), rec.Pieces)

	assert.Equal(t, "Winter", rec.Palette.Season)
	assert.Equal(t, "White", rec.Colors.Best[0])
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), rec.GeneratedAt)
	assert.False(t, rec.IsFallback())
}

func TestRecommend_WeatherOverrideSkipsLookup(t *testing.T) {
	ws := &stubWeather{}
	a := newAdvisor(t, ws)

	rec := a.Recommend(context.Background(), models.StyleRequest{
		City:     "Oslo",
		Occasion: "Office",
		SkinTone: "Light",
		Weather:  "rainy",
	})

	assert.Empty(t, ws.calls)
	assert.Equal(t, "Rainy", rec.Weather)
	assert.Equal(t, "input", rec.WeatherSource)
	assert.Equal(t, "Spring", rec.Palette.Season)
}

func TestRecommend_WeatherFallbackIsReported(t *testing.T) {
	ws := &stubWeather{report: weather.Fallback("")}
	a := newAdvisor(t, ws)

	rec := a.Recommend(context.Background(), models.StyleRequest{City: "Atlantis", Occasion: "Party", SkinTone: "Medium", Undertone: "Warm"})

	assert.Equal(t, "Moderate", rec.Weather)
	assert.Equal(t, 25.0, rec.Temperature)
	assert.True(t, rec.IsFallback())
	assert.Equal(t, "Autumn", rec.Palette.Season)
}
