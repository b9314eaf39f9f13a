// internal/workers/styling/fetch-weather/models.go
package fetchweather

type Input struct {
	City string `json:"city"`
}

type Output struct {
	City        string  `json:"city"`
	Weather     string  `json:"weather"`
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weatherCode"`
	Source      string  `json:"source"`
}
