package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// Values are resolved in order: defaults, the YAML file named by
// CONFIG_FILE, then environment variables (including a local .env file).
type Config struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`

	// GitHub configuration
	GitHubURL      string `yaml:"github_url"`
	GitHubToken    string `yaml:"github_token"`
	GitHubUsername string `yaml:"github_username"`

	ActivityCacheTTL time.Duration `yaml:"activity_cache_ttl"`
	ProjectsCacheTTL time.Duration `yaml:"projects_cache_ttl"`
	ProjectsLimit    int           `yaml:"projects_limit"`

	HTTPTimeout         time.Duration `yaml:"http_timeout"`
	GitHubRatePerSecond float64       `yaml:"github_rate_per_second"`
	GitHubRateBurst     int           `yaml:"github_rate_burst"`

	// DisplayTimezone is an IANA zone name used to render entry timestamps.
	DisplayTimezone string `yaml:"display_timezone"`

	// CacheWarmInterval of zero disables background warming.
	CacheWarmInterval time.Duration `yaml:"cache_warm_interval"`

	// Empty RedisURL keeps the activity envelope in process memory, or in
	// ActivityCacheFile when that is set.
	RedisURL          string `yaml:"redis_url"`
	RedisKeyPrefix    string `yaml:"redis_key_prefix"`
	ActivityCacheFile string `yaml:"activity_cache_file"`

	// Empty OTelEndpoint disables trace export.
	OTelEndpoint    string `yaml:"otel_endpoint"`
	OTelServiceName string `yaml:"otel_service_name"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:                8080,
		Env:                 "development",
		LogLevel:            "info",
		GitHubURL:           "https://api.github.com",
		GitHubUsername:      "dsnsgithub",
		ActivityCacheTTL:    5 * time.Minute,
		ProjectsCacheTTL:    10 * time.Minute,
		ProjectsLimit:       8,
		HTTPTimeout:         30 * time.Second,
		GitHubRatePerSecond: 10,
		GitHubRateBurst:     5,
		DisplayTimezone:     "UTC",
		RedisKeyPrefix:      "activity-feed",
		OTelServiceName:     "activity-feed",
	}
}

// Load loads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.Env = getEnvOrDefault("APP_ENV", c.Env)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)

	c.GitHubURL = getEnvOrDefault("GITHUB_URL", c.GitHubURL)
	c.GitHubToken = getEnvOrDefault("GITHUB_TOKEN", c.GitHubToken)
	c.GitHubUsername = getEnvOrDefault("GITHUB_USERNAME", c.GitHubUsername)

	c.ActivityCacheTTL = getEnvDuration("ACTIVITY_CACHE_TTL", c.ActivityCacheTTL)
	c.ProjectsCacheTTL = getEnvDuration("PROJECTS_CACHE_TTL", c.ProjectsCacheTTL)
	c.ProjectsLimit = getEnvInt("PROJECTS_LIMIT", c.ProjectsLimit)

	c.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.GitHubRatePerSecond = getEnvFloat("GITHUB_RATE_PER_SECOND", c.GitHubRatePerSecond)
	c.GitHubRateBurst = getEnvInt("GITHUB_RATE_BURST", c.GitHubRateBurst)

	c.DisplayTimezone = getEnvOrDefault("DISPLAY_TIMEZONE", c.DisplayTimezone)
	c.CacheWarmInterval = getEnvDuration("CACHE_WARM_INTERVAL", c.CacheWarmInterval)

	c.RedisURL = getEnvOrDefault("REDIS_URL", c.RedisURL)
	c.RedisKeyPrefix = getEnvOrDefault("REDIS_KEY_PREFIX", c.RedisKeyPrefix)
	c.ActivityCacheFile = getEnvOrDefault("ACTIVITY_CACHE_FILE", c.ActivityCacheFile)

	c.OTelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTelEndpoint)
	c.OTelServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", c.OTelServiceName)
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDebug reports whether debug logs are emitted.
func (c *Config) IsDebug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// HasGitHubToken returns true if requests to GitHub are authenticated.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// HasRedis returns true if the activity envelope is shared through Redis.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// Location resolves DisplayTimezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
