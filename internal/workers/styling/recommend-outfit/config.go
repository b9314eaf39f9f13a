// internal/workers/styling/recommend-outfit/config.go
package recommendoutfit

import (
	"time"

	"outfit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig derives the handler deadline from the worker's job timeout,
// leaving a second to report the result.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout) - time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout}
}
