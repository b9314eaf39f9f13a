// Package weather derives a weather category for a city from the
// Open-Meteo geocoding and forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"outfit-workers/internal/common/config"
	apperrors "outfit-workers/internal/common/errors"
	httpclient "outfit-workers/internal/common/http"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/metrics"
	"outfit-workers/internal/stylist/catalog"
)

const (
	FallbackCategory    = catalog.WeatherModerate
	FallbackTemperature = 25.0

	SourceAPI      = "api"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// ErrCityNotFound is returned by Fetch when geocoding has no match.
var ErrCityNotFound = errors.New("city not found")

// WMO codes for drizzle, rain and rain showers.
var rainCodes = map[int]bool{
	51: true, 53: true, 55: true,
	61: true, 63: true, 65: true,
	80: true, 81: true, 82: true,
}

// Categorize maps a WMO weather code and a temperature in °C onto the
// four weather categories the model was trained on.
func Categorize(code int, temperature float64) string {
	switch {
	case rainCodes[code]:
		return catalog.WeatherRainy
	case temperature >= 30:
		return catalog.WeatherHot
	case temperature >= 20:
		return catalog.WeatherModerate
	default:
		return catalog.WeatherCold
	}
}

// Report is the outcome of one lookup.
type Report struct {
	City        string  `json:"city"`
	Category    string  `json:"weather"`
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weatherCode"`
	Source      string  `json:"source"`
}

// Fallback is the report used whenever a lookup fails.
func Fallback(city string) Report {
	return Report{
		City:        city,
		Category:    FallbackCategory,
		Temperature: FallbackTemperature,
		WeatherCode: -1,
		Source:      SourceFallback,
	}
}

// Cache is the subset of a key/value store the client uses. A missing key
// is reported as an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Client struct {
	http         *httpclient.Client
	geocodingURL string
	forecastURL  string
	cache        Cache
	cacheTTL     time.Duration
	logger       logger.Logger
}

// NewClient builds a client from the weather config section. cache may be
// nil.
func NewClient(cfg config.WeatherConfig, cache Cache, log logger.Logger) *Client {
	return &Client{
		http:         httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		cache:        cache,
		cacheTTL:     time.Duration(cfg.CacheTTL) * time.Second,
		logger:       log.WithFields(map[string]interface{}{"component": "weather"}),
	}
}

// Lookup never fails: any error yields Fallback(city).
func (c *Client) Lookup(ctx context.Context, city string) Report {
	report, err := c.Fetch(ctx, city)
	if err != nil {
		c.logger.Warn("weather lookup failed, using fallback", map[string]interface{}{
			"city":  city,
			"error": err,
		})
		metrics.WeatherLookups.WithLabelValues(SourceFallback).Inc()
		return Fallback(strings.TrimSpace(city))
	}
	metrics.WeatherLookups.WithLabelValues(report.Source).Inc()
	return report
}

// Fetch resolves city through the cache, then geocoding and forecast.
func (c *Client) Fetch(ctx context.Context, city string) (Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Report{}, apperrors.NewInputValidationError("city is required")
	}

	if report, ok := c.cached(ctx, city); ok {
		return report, nil
	}

	lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return Report{}, apperrors.NewWeatherLookupFailedError(city, err)
	}

	temp, code, err := c.forecast(ctx, lat, lon)
	if err != nil {
		return Report{}, apperrors.NewWeatherLookupFailedError(city, err)
	}

	report := Report{
		City:        city,
		Category:    Categorize(code, temp),
		Temperature: temp,
		WeatherCode: code,
		Source:      SourceAPI,
	}
	c.store(ctx, report)
	return report, nil
}

type geocodingResponse struct {
	Results []struct {
		Name      string   `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

func (c *Client) geocode(ctx context.Context, city string) (float64, float64, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var resp geocodingResponse
	if err := c.http.GetJSON(ctx, c.geocodingURL+"?"+q.Encode(), &resp); err != nil {
		return 0, 0, fmt.Errorf("geocode: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	r := resp.Results[0]
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, fmt.Errorf("geocode: result for %q has no coordinates", city)
	}
	return *r.Latitude, *r.Longitude, nil
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (c *Client) forecast(ctx context.Context, lat, lon float64) (float64, int, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current_weather", "true")

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, c.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return 0, 0, fmt.Errorf("forecast: %w", err)
	}
	cw := resp.CurrentWeather
	if cw == nil || cw.Temperature == nil || cw.WeatherCode == nil {
		return 0, 0, fmt.Errorf("forecast: response has no current_weather")
	}
	return *cw.Temperature, *cw.WeatherCode, nil
}

func cacheKey(city string) string {
	return "weather:city:" + strings.ToLower(city)
}

func (c *Client) cached(ctx context.Context, city string) (Report, bool) {
	if c.cache == nil {
		return Report{}, false
	}
	raw, err := c.cache.Get(ctx, cacheKey(city))
	if err != nil {
		return Report{}, false
	}
	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		c.logger.Debug("ignoring unreadable cache entry", map[string]interface{}{"city": city, "error": err})
		return Report{}, false
	}
	report.Source = SourceCache
	return report, true
}

func (c *Client) store(ctx context.Context, report Report) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(report.City), data, c.cacheTTL); err != nil {
		c.logger.Debug("weather cache write failed", map[string]interface{}{"city": report.City, "error": err})
	}
}
