// internal/workers/styling/select-color-palette/config.go
package selectcolorpalette

import (
	"time"

	"outfit-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{Timeout: timeout}
}
