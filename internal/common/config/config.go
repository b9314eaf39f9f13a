// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Model    ModelConfig             `mapstructure:"model"`
	Weather  WeatherConfig           `mapstructure:"weather"`
	API      APIConfig               `mapstructure:"api"`
	Server   ServerConfig            `mapstructure:"server"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig backs the weather cache. An empty Address disables it.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Model lifecycle ---

const (
	StorageFile = "file"
	StorageS3   = "s3"
)

// ModelConfig covers corpus generation, training and where the trained
// bundle lives.
type ModelConfig struct {
	CorpusPath     string   `mapstructure:"corpus_path"`
	BundlePath     string   `mapstructure:"bundle_path"`
	RulesPath      string   `mapstructure:"rules_path"` // optional JSON rule table
	Samples        int      `mapstructure:"samples"`
	Seed           int64    `mapstructure:"seed"`
	MaxDepth       int      `mapstructure:"max_depth"`
	TestSize       float64  `mapstructure:"test_size"`
	Storage        string   `mapstructure:"storage"` // file | s3
	S3             S3Config `mapstructure:"s3"`
	TrainOnMissing bool     `mapstructure:"train_on_missing"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Key      string `mapstructure:"key"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // set for MinIO / localstack
}

// --- Collaborators and surfaces ---

type WeatherConfig struct {
	GeocodingURL string `mapstructure:"geocoding_url"`
	ForecastURL  string `mapstructure:"forecast_url"`
	Timeout      int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL     int    `mapstructure:"cache_ttl"` // seconds
	CacheEnabled bool   `mapstructure:"cache_enabled"`
}

type APIConfig struct {
	Address        string  `mapstructure:"address"`
	RateLimit      float64 `mapstructure:"rate_limit"` // requests per second per client
	RateBurst      int     `mapstructure:"rate_burst"`
	RequestTimeout int     `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig is the worker manager's health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
