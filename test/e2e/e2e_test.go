// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfit-workers/internal/api"
	"outfit-workers/internal/bootstrap"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/predictor"
	"outfit-workers/internal/stylist/trainer"

	fetchweather "outfit-workers/internal/workers/styling/fetch-weather"
	recommendoutfit "outfit-workers/internal/workers/styling/recommend-outfit"
	selectcolorpalette "outfit-workers/internal/workers/styling/select-color-palette"
)

// openMeteo answers every city with the same forecast and counts geocoding
// calls so cache hits are visible.
func openMeteo(t *testing.T, geocodeCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls.Add(1)
		if r.URL.Query().Get("name") == "Atlantis" {
			fmt.Fprint(w, `{"results":[]}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"latitude":51.5,"longitude":-0.12}]}`)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current_weather":{"temperature":8.5,"weathercode":3}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFullE2E(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	log := logger.NewTestLogger(t)

	var geocodeCalls atomic.Int32
	weatherSrv := openMeteo(t, &geocodeCalls)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Model: config.ModelConfig{
			CorpusPath: filepath.Join(dir, "data", "clothing_data.csv"),
			BundlePath: filepath.Join(dir, "models", "outfit_model.json"),
			Samples:    5000,
			Seed:       42,
			MaxDepth:   3,
			TestSize:   0.2,
			Storage:    config.StorageFile,
		},
		Weather: config.WeatherConfig{
			GeocodingURL: weatherSrv.URL + "/geo",
			ForecastURL:  weatherSrv.URL + "/forecast",
			Timeout:      2000,
			CacheTTL:     600,
			CacheEnabled: true,
		},
		Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
		API:      config.APIConfig{RequestTimeout: 5000},
	}

	t.Log("🚀 generate → train → save → load → serve")

	// 1. Generate the corpus and write it the way the dataset tool does.
	corpus, err := dataset.NewSeededGenerator(catalog.DefaultRules(), cfg.Model.Seed).Generate(cfg.Model.Samples)
	require.NoError(t, err)
	require.NoError(t, dataset.SaveFile(cfg.Model.CorpusPath, corpus))

	// 2. Train from the file on disk and save the bundle.
	fromDisk, err := bootstrap.Corpus(cfg.Model, log)
	require.NoError(t, err)
	require.Len(t, fromDisk, 5000)

	trained, err := trainer.Train(fromDisk, bootstrap.TrainOptions(cfg.Model))
	require.NoError(t, err)
	assert.LessOrEqual(t, trained.Evaluation.Depth, 3)
	assert.Equal(t, 1000, trained.Evaluation.EvalSize)
	require.NoError(t, bundle.NewFileStore(cfg.Model.BundlePath).Save(ctx, trained))

	// 3. Load it back through the same path the binaries use.
	stylist, err := bootstrap.NewStylist(ctx, cfg, nil, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stylist.Close() })
	require.NotNil(t, stylist.Redis)
	assert.Equal(t, trained.ModelID, stylist.Bundle.ModelID)

	direct, err := predictor.New(trained, log)
	require.NoError(t, err)
	for _, w := range catalog.Weathers {
		for _, o := range catalog.Occasions {
			for _, s := range catalog.SkinTones {
				assert.Equal(t, direct.Predict(w, o, s), stylist.Predictor.Predict(w, o, s), "%s/%s/%s", w, o, s)
			}
		}
	}

	t.Run("workers", func(t *testing.T) {
		weatherOut, err := fetchweather.NewHandler(&fetchweather.Config{Timeout: 5 * time.Second, FallbackOnError: true}, stylist.Weather, nil, log).
			Execute(ctx, &fetchweather.Input{City: "London"})
		require.NoError(t, err)
		assert.Equal(t, "Cold", weatherOut.Weather)
		assert.Equal(t, 8.5, weatherOut.Temperature)

		recOut, err := recommendoutfit.NewHandler(&recommendoutfit.Config{Timeout: 5 * time.Second}, stylist.Advisor, nil, log).
			Execute(ctx, &recommendoutfit.Input{City: "London", Occasion: "Office", SkinTone: "Medium", Undertone: "Cool"})
		require.NoError(t, err)
		assert.Equal(t, "Cold", recOut.Weather)
		assert.Equal(t, "cache", recOut.WeatherSource)
		assert.Equal(t, stylist.Predictor.Predict("Cold", "Office", "Medium"), recOut.Outfit)
		assert.Equal(t, "Winter", recOut.Palette.Season)

		palOut, err := selectcolorpalette.NewHandler(&selectcolorpalette.Config{Timeout: 5 * time.Second}, nil, log).
			Execute(ctx, &selectcolorpalette.Input{SkinTone: "Dark", Undertone: "Warm"})
		require.NoError(t, err)
		assert.Equal(t, "Autumn", palOut.Palette.Season)
	})

	t.Run("api", func(t *testing.T) {
		srv := httptest.NewServer(api.NewServer(cfg.API, stylist.Advisor, stylist.Weather, log).Handler())
		t.Cleanup(srv.Close)

		resp, err := http.Post(srv.URL+"/api/v1/recommendations", "application/json",
			strings.NewReader(`{"city":"Atlantis","occasion":"wedding","skinTone":"light","undertone":"warm"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rec models.Recommendation
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
		assert.Equal(t, "Moderate", rec.Weather)
		assert.Equal(t, "fallback", rec.WeatherSource)
		assert.Equal(t, stylist.Predictor.Predict("Moderate", "Wedding", "Light"), rec.Outfit)
		assert.Equal(t, "Spring", rec.Palette.Season)

		modelResp, err := http.Get(srv.URL + "/api/v1/model")
		require.NoError(t, err)
		defer modelResp.Body.Close()
		var meta api.ModelResponse
		require.NoError(t, json.NewDecoder(modelResp.Body).Decode(&meta))
		assert.Equal(t, trained.ModelID, meta.ModelID)
	})

	// London was geocoded once; the recommendation hit the cache.
	assert.Equal(t, int32(2), geocodeCalls.Load())
	t.Log("✅ Full E2E flow successful")
}
