// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	// PlaceholderMapboxToken is the value shipped in example env files. It is
	// treated the same as an absent token.
	PlaceholderMapboxToken = "your_mapbox_secret_token_here"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// CompletionConfig configures the OpenAI-compatible chat completion API.
type CompletionConfig struct {
	APIKey         string `mapstructure:"API_KEY" yaml:"api_key"`
	BaseURL        string `mapstructure:"BASE_URL" yaml:"base_url"`
	Model          string `mapstructure:"MODEL" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	MaxTokens      int    `mapstructure:"MAX_TOKENS" yaml:"max_tokens"`
}

// Timeout returns the per-call deadline for completion requests.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GeocodingConfig configures the Mapbox forward geocoding client.
type GeocodingConfig struct {
	AccessToken       string  `mapstructure:"ACCESS_TOKEN" yaml:"access_token"`
	BaseURL           string  `mapstructure:"BASE_URL" yaml:"base_url"`
	TimeoutSeconds    int     `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"REQUESTS_PER_SECOND" yaml:"requests_per_second"`
	// Concurrency bounds the number of lookups in flight for one batch.
	Concurrency int `mapstructure:"CONCURRENCY" yaml:"concurrency"`
}

// Enabled reports whether a usable access token is configured.
func (c GeocodingConfig) Enabled() bool {
	return c.AccessToken != "" && c.AccessToken != PlaceholderMapboxToken
}

// Timeout returns the per-lookup deadline.
func (c GeocodingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PexelsConfig holds the optional destination image fallback key.
type PexelsConfig struct {
	APIKey string `mapstructure:"API_KEY" yaml:"api_key"`
}

// PipelineConfig tunes the generation pipeline.
type PipelineConfig struct {
	BatchSize   int `mapstructure:"BATCH_SIZE" yaml:"batch_size"`
	MaxAttempts int `mapstructure:"MAX_ATTEMPTS" yaml:"max_attempts"`
	BaseDelayMs int `mapstructure:"BASE_DELAY_MS" yaml:"base_delay_ms"`
	MaxDelayMs  int `mapstructure:"MAX_DELAY_MS" yaml:"max_delay_ms"`
	// DefaultsFile optionally points at a YAML file overriding the built-in
	// placeholder values used by the normalizer.
	DefaultsFile string `mapstructure:"DEFAULTS_FILE" yaml:"defaults_file"`
}

// DatabaseConfig holds the optional PostgreSQL connection used for the
// generation attempt log. An empty URL disables the store.
type DatabaseConfig struct {
	URL            string `mapstructure:"URL" yaml:"url"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	RunMigrations  bool   `mapstructure:"RUN_MIGRATIONS" yaml:"run_migrations"`
}

// Enabled reports whether the attempt store should be wired.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// WorkerPoolConfig bounds the background writer that persists attempt records.
type WorkerPoolConfig struct {
	MaxWorkers             int `mapstructure:"MAX_WORKERS" yaml:"max_workers"`
	QueueSize              int `mapstructure:"QUEUE_SIZE" yaml:"queue_size"`
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// Maximum generate requests per client within one window
	GenerateRequestsPerMinute int `mapstructure:"GENERATE_REQUESTS_PER_MINUTE" yaml:"generate_requests_per_minute"`
	// Window duration in seconds for rate limiting
	WindowSeconds int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Completion CompletionConfig `mapstructure:"COMPLETION" yaml:"completion"`
	Geocoding  GeocodingConfig  `mapstructure:"GEOCODING" yaml:"geocoding"`
	Pexels     PexelsConfig     `mapstructure:"PEXELS" yaml:"pexels"`
	Pipeline   PipelineConfig   `mapstructure:"PIPELINE" yaml:"pipeline"`
	Database   DatabaseConfig   `mapstructure:"DATABASE" yaml:"database"`
	WorkerPool WorkerPoolConfig `mapstructure:"WORKER_POOL" yaml:"worker_pool"`
	Redis      RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.VERSION", "dev")

	v.SetDefault("COMPLETION.BASE_URL", "https://api.perplexity.ai")
	v.SetDefault("COMPLETION.MODEL", "sonar-pro")
	v.SetDefault("COMPLETION.TIMEOUT_SECONDS", 90)
	v.SetDefault("COMPLETION.MAX_TOKENS", 20000)

	v.SetDefault("GEOCODING.BASE_URL", "https://api.mapbox.com")
	v.SetDefault("GEOCODING.TIMEOUT_SECONDS", 10)
	v.SetDefault("GEOCODING.REQUESTS_PER_SECOND", 10.0)
	v.SetDefault("GEOCODING.CONCURRENCY", 4)

	v.SetDefault("PIPELINE.BATCH_SIZE", 10)
	v.SetDefault("PIPELINE.MAX_ATTEMPTS", 3)
	v.SetDefault("PIPELINE.BASE_DELAY_MS", 1000)
	v.SetDefault("PIPELINE.MAX_DELAY_MS", 3000)
	v.SetDefault("PIPELINE.DEFAULTS_FILE", "")

	v.SetDefault("DATABASE.URL", "")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 5)
	v.SetDefault("DATABASE.RUN_MIGRATIONS", true)

	v.SetDefault("WORKER_POOL.MAX_WORKERS", 2)
	v.SetDefault("WORKER_POOL.QUEUE_SIZE", 100)
	v.SetDefault("WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)

	v.SetDefault("RATE_LIMIT.GENERATE_REQUESTS_PER_MINUTE", 5)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		{"SERVER.VERSION", "APP_VERSION"},
		// Completion API
		{"COMPLETION.API_KEY", "PERPLEXITY_API_KEY"},
		{"COMPLETION.BASE_URL", "PERPLEXITY_BASE_URL"},
		{"COMPLETION.MODEL", "PERPLEXITY_MODEL"},
		{"COMPLETION.TIMEOUT_SECONDS", "COMPLETION_TIMEOUT_SECONDS"},
		{"COMPLETION.MAX_TOKENS", "COMPLETION_MAX_TOKENS"},
		// Geocoding
		{"GEOCODING.ACCESS_TOKEN", "MAPBOX_ACCESS_TOKEN"},
		{"GEOCODING.BASE_URL", "MAPBOX_BASE_URL"},
		{"GEOCODING.TIMEOUT_SECONDS", "GEOCODING_TIMEOUT_SECONDS"},
		{"GEOCODING.REQUESTS_PER_SECOND", "GEOCODING_REQUESTS_PER_SECOND"},
		{"GEOCODING.CONCURRENCY", "GEOCODING_CONCURRENCY"},
		// Images
		{"PEXELS.API_KEY", "PEXELS_API_KEY"},
		// Pipeline
		{"PIPELINE.BATCH_SIZE", "PIPELINE_BATCH_SIZE"},
		{"PIPELINE.MAX_ATTEMPTS", "PIPELINE_MAX_ATTEMPTS"},
		{"PIPELINE.BASE_DELAY_MS", "PIPELINE_BASE_DELAY_MS"},
		{"PIPELINE.MAX_DELAY_MS", "PIPELINE_MAX_DELAY_MS"},
		{"PIPELINE.DEFAULTS_FILE", "PIPELINE_DEFAULTS_FILE"},
		// Database config
		{"DATABASE.URL", "DATABASE_URL"},
		{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},
		{"DATABASE.RUN_MIGRATIONS", "DB_RUN_MIGRATIONS"},
		// Attempt log writer
		{"WORKER_POOL.MAX_WORKERS", "WORKER_POOL_MAX_WORKERS"},
		{"WORKER_POOL.QUEUE_SIZE", "WORKER_POOL_QUEUE_SIZE"},
		{"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", "WORKER_POOL_SHUTDOWN_TIMEOUT_SECONDS"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Rate limit config
		{"RATE_LIMIT.GENERATE_REQUESTS_PER_MINUTE", "RATE_LIMIT_GENERATE_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"completion_base_url", v.GetString("COMPLETION.BASE_URL"),
		"completion_model", v.GetString("COMPLETION.MODEL"),
		"completion_api_key", logger.MaskSensitiveString(v.GetString("COMPLETION.API_KEY"), 4, 4),
		"geocoding_token", logger.MaskSensitiveString(v.GetString("GEOCODING.ACCESS_TOKEN"), 4, 4),
		"database_url", logger.MaskConnectionString(v.GetString("DATABASE.URL")),
		"batch_size", v.GetInt("PIPELINE.BATCH_SIZE"),
		"max_attempts", v.GetInt("PIPELINE.MAX_ATTEMPTS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg, log); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config, log *zap.SugaredLogger) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if err := validateCompletion(&cfg.Completion); err != nil {
		return err
	}
	if err := validateGeocoding(&cfg.Geocoding, log); err != nil {
		return err
	}
	if err := validatePipeline(&cfg.Pipeline); err != nil {
		return err
	}

	if cfg.Pexels.APIKey == "" {
		log.Warn("PEXELS_API_KEY not set, destination image fallback will return empty results")
	}

	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}
	if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
		log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
	}

	if cfg.RateLimit.GenerateRequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit generate requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if cfg.Database.Enabled() && cfg.Database.MaxConnections <= 0 {
		return fmt.Errorf("database max connections must be positive")
	}
	if cfg.Database.Enabled() && (cfg.WorkerPool.MaxWorkers <= 0 || cfg.WorkerPool.QueueSize <= 0) {
		return fmt.Errorf("worker pool size and queue must be positive when the attempt store is enabled")
	}

	return nil
}

// validateCompletion rejects configurations that cannot reach a completion API.
// The service has nothing to offer without one.
func validateCompletion(c *CompletionConfig) error {
	if c.APIKey == "" {
		return fmt.Errorf("PERPLEXITY_API_KEY is required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid completion base URL: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("completion model is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("completion timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("completion max tokens must be positive")
	}
	return nil
}

// validateGeocoding only warns on a missing token: recommendations are still
// served, just without coordinates.
func validateGeocoding(c *GeocodingConfig, log *zap.SugaredLogger) error {
	if !c.Enabled() {
		log.Warn("Mapbox access token not configured, recommendations will not carry coordinates")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid geocoding base URL: %w", err)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("geocoding timeout must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("geocoding requests per second must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("geocoding concurrency must be positive")
	}
	return nil
}

func validatePipeline(c *PipelineConfig) error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("pipeline batch size must be positive")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("pipeline max attempts must be positive")
	}
	if c.BaseDelayMs < 0 || c.MaxDelayMs < 0 {
		return fmt.Errorf("pipeline delays must not be negative")
	}
	if c.MaxDelayMs < c.BaseDelayMs {
		return fmt.Errorf("pipeline max delay (%dms) is below base delay (%dms)", c.MaxDelayMs, c.BaseDelayMs)
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
