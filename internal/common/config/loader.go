// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// config.<env>.yaml overlays the base file when present.
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	// MODEL_S3_BUCKET overrides model.s3.bucket and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // test/e2e
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets and deployment-specific values from
// conventional env names when the config file left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}

	if cfg.Camunda.BrokerAddress == "" {
		if val := os.Getenv("ZEEBE_ADDRESS"); val != "" {
			cfg.Camunda.BrokerAddress = val
		}
	}

	if cfg.Model.S3.Bucket == "" {
		if val := os.Getenv("MODEL_S3_BUCKET"); val != "" {
			cfg.Model.S3.Bucket = val
		}
	}
	if cfg.Model.S3.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Model.S3.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "outfit-workers"
	}

	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Model defaults
	if cfg.Model.CorpusPath == "" {
		cfg.Model.CorpusPath = "data/clothing_data.csv"
	}
	if cfg.Model.BundlePath == "" {
		cfg.Model.BundlePath = "models/outfit_model.json"
	}
	if cfg.Model.Samples == 0 {
		cfg.Model.Samples = 5000
	}
	if cfg.Model.Seed == 0 {
		cfg.Model.Seed = 42
	}
	if cfg.Model.MaxDepth == 0 {
		cfg.Model.MaxDepth = 3
	}
	if cfg.Model.TestSize == 0 {
		cfg.Model.TestSize = 0.2
	}
	if cfg.Model.Storage == "" {
		cfg.Model.Storage = StorageFile
	}
	if cfg.Model.S3.Key == "" {
		cfg.Model.S3.Key = "models/outfit_model.json"
	}
	if cfg.Model.S3.Region == "" {
		cfg.Model.S3.Region = "us-east-1"
	}

	// Weather defaults
	if cfg.Weather.GeocodingURL == "" {
		cfg.Weather.GeocodingURL = defaultGeocodingURL
	}
	if cfg.Weather.ForecastURL == "" {
		cfg.Weather.ForecastURL = defaultForecastURL
	}
	if cfg.Weather.Timeout == 0 {
		cfg.Weather.Timeout = 5000
	}
	if cfg.Weather.CacheTTL == 0 {
		cfg.Weather.CacheTTL = 600
	}

	// API / server defaults
	if cfg.API.Address == "" {
		cfg.API.Address = ":8081"
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = 10
	}
	if cfg.API.RateBurst == 0 {
		cfg.API.RateBurst = 20
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 10000
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields. The zeebe broker
// is checked by the worker manager only; the API runs without it.
func validateConfig(cfg *Config) error {
	if cfg.Model.MaxDepth < 1 {
		return fmt.Errorf("model.max_depth must be >= 1")
	}
	if cfg.Model.TestSize <= 0 || cfg.Model.TestSize >= 1 {
		return fmt.Errorf("model.test_size must be in (0, 1)")
	}
	if cfg.Model.Samples < 0 {
		return fmt.Errorf("model.samples must not be negative")
	}

	switch cfg.Model.Storage {
	case StorageFile:
	case StorageS3:
		if cfg.Model.S3.Bucket == "" {
			return fmt.Errorf("model.s3.bucket is required when model.storage is s3")
		}
	default:
		return fmt.Errorf("model.storage must be %q or %q, got %q", StorageFile, StorageS3, cfg.Model.Storage)
	}

	if cfg.Weather.CacheEnabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when weather.cache_enabled is set")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
