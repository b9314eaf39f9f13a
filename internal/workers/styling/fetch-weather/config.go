// internal/workers/styling/fetch-weather/config.go
package fetchweather

import (
	"time"

	"outfit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// FallbackOnError completes the job with the default report instead of
	// failing it when the weather service cannot answer.
	FallbackOnError bool
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout) - time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		Timeout:         timeout,
		FallbackOnError: true,
	}
}
