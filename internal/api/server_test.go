package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outfit-workers/internal/common/config"
	apperrors "outfit-workers/internal/common/errors"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/advisor"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/palette"
	"outfit-workers/internal/stylist/predictor"
	"outfit-workers/internal/stylist/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWeather struct {
	report weather.Report
	err    error
}

func (s stubWeather) Fetch(_ context.Context, city string) (weather.Report, error) {
	if s.err != nil {
		return weather.Report{}, s.err
	}
	r := s.report
	r.City = city
	return r, nil
}

func (s stubWeather) Lookup(ctx context.Context, city string) weather.Report {
	r, err := s.Fetch(ctx, city)
	if err != nil {
		return weather.Fallback(city)
	}
	return r
}

func newTestServer(t *testing.T, ws stubWeather, cfg config.APIConfig) *Server {
	t.Helper()
	corpus, err := dataset.NewSeededGenerator(catalog.DefaultRules(), 42).Generate(2000)
	require.NoError(t, err)
	b, err := trainer.Train(corpus, trainer.DefaultOptions())
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	svc, err := predictor.New(b, log)
	require.NoError(t, err)

	return NewServer(cfg, advisor.New(ws, svc, nil, log), ws, log)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var hot = stubWeather{report: weather.Report{Category: "Hot", Temperature: 32, Source: weather.SourceAPI}}

func TestHealth(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["modelId"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestCreateRecommendation(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{RequestTimeout: 2000})

	rec := do(t, s, http.MethodPost, "/api/v1/recommendations",
		`{"city":"Madrid","occasion":"office","skinTone":"medium","undertone":"warm"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[models.Recommendation](t, rec)
	assert.Equal(t, "Madrid", got.City)
	assert.Equal(t, "Hot", got.Weather)
	assert.Equal(t, "Office", got.Occasion)
	assert.Equal(t, predictor.SourceModel, got.OutfitSource)
	assert.Equal(t, catalog.SplitOutfit(got.Outfit), got.Pieces)
	assert.Equal(t, palette.SeasonAutumn, got.Palette.Season)
}

func TestCreateRecommendation_Validation(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"missing city", `{"occasion":"Gym","skinTone":"Dark"}`, http.StatusBadRequest, "INPUT_VALIDATION_FAILED"},
		{"blank city", `{"city":"   ","occasion":"Gym","skinTone":"Dark"}`, http.StatusBadRequest, "INPUT_VALIDATION_FAILED"},
		{"broken json", `{"city":`, http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/recommendations", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestCreateRecommendation_WeatherDownStillAnswers(t *testing.T) {
	down := stubWeather{err: apperrors.NewWeatherLookupFailedError("Oslo", assert.AnError)}
	s := newTestServer(t, down, config.APIConfig{})

	rec := do(t, s, http.MethodPost, "/api/v1/recommendations",
		`{"city":"Oslo","occasion":"Casual","skinTone":"Light","undertone":"Cool"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[models.Recommendation](t, rec)
	assert.Equal(t, weather.FallbackCategory, got.Weather)
	assert.Equal(t, weather.SourceFallback, got.WeatherSource)
	assert.True(t, got.IsFallback())
}

func TestCreatePrediction(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodPost, "/api/v1/predictions", `{"weather":"cold","occasion":"gym","skinTone":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[PredictionResponse](t, rec)
	assert.Equal(t, predictor.SourceModel, got.Source)
	assert.Equal(t, s.advisor.Predictor().Predict("Cold", "Gym", "Dark"), got.Outfit)
	assert.Equal(t, "exact", got.Inputs["weather"].Resolution)
	assert.Equal(t, catalog.SplitOutfit(got.Outfit), got.Pieces)

	rec = do(t, s, http.MethodPost, "/api/v1/predictions", `{"weather":"Cold"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[ErrorResponse](t, rec).Fields
	assert.Equal(t, "is required", fields["Occasion"])
	assert.Equal(t, "is required", fields["SkinTone"])
}

func TestGetPalettes(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/api/v1/palettes?skinTone=dark&undertone=cool", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, palette.SeasonWinter, decode[palette.Palette](t, rec).Season)

	rec = do(t, s, http.MethodGet, "/api/v1/palettes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]palette.Palette](t, rec)["palettes"], 4)
}

func TestGetColors(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/api/v1/colors/light", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[palette.Recommendation](t, rec)
	assert.Equal(t, "Navy Blue", got.Best[0])
}

func TestGetWeather(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/api/v1/weather?city=Rome", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[weather.Report](t, rec)
	assert.Equal(t, "Rome", got.City)
	assert.Equal(t, "Hot", got.Category)

	rec = do(t, s, http.MethodGet, "/api/v1/weather", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INPUT_VALIDATION_FAILED", decode[ErrorResponse](t, rec).Code)

	down := newTestServer(t, stubWeather{err: apperrors.NewWeatherLookupFailedError("Rome", assert.AnError)}, config.APIConfig{})
	rec = do(t, down, http.MethodGet, "/api/v1/weather?city=Rome", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "WEATHER_LOOKUP_FAILED", decode[ErrorResponse](t, rec).Code)
}

func TestGetModel(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/api/v1/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ModelResponse](t, rec)
	assert.Equal(t, []string{"Weather", "Event", "Skin_Tone"}, got.Features)
	assert.LessOrEqual(t, got.Evaluation.Depth, 3)
	assert.NotEmpty(t, got.Outfits)
	assert.Contains(t, got.Tree, "class: ")
}

func TestNotFoundRendersErrorBody(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{})

	rec := do(t, s, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, rec).Code)
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer(t, hot, config.APIConfig{RateLimit: 1, RateBurst: 2})

	var limited bool
	for i := 0; i < 5; i++ {
		rec := do(t, s, http.MethodGet, "/api/v1/colors/dark", "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			assert.Equal(t, "TOO_MANY_REQUESTS", decode[ErrorResponse](t, rec).Code)
			break
		}
	}
	assert.True(t, limited)

	// /health is outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.get("10.0.0.1")
	rl.get("10.0.0.2")
	require.Len(t, rl.visitors, 2)

	rl.evict(0)
	assert.Empty(t, rl.visitors)
}
