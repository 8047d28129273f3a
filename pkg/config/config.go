package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all Met Guide configuration.
type Config struct {
	Listen       string          `yaml:"listen" env:"METGUIDE_LISTEN"`
	Env          string          `yaml:"env" env:"METGUIDE_ENV"`
	OpenAIAPIKey string          `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	MetBaseURL   string          `yaml:"met_base_url" env:"METGUIDE_MET_BASE_URL"`
	ToursPath    string          `yaml:"tours_path" env:"METGUIDE_TOURS_PATH"`
	Cache        CacheConfig     `yaml:"cache"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	Log          LogConfig       `yaml:"log"`
}

// CacheConfig controls the narration/audio cache store. When RedisURL is set
// the remote tier is used; otherwise SQLitePath selects a durable local tier;
// with neither, the cache is memory-only.
type CacheConfig struct {
	RedisURL   string        `yaml:"redis_url" env:"REDIS_URL"`
	SQLitePath string        `yaml:"sqlite_path" env:"METGUIDE_CACHE_DB"`
	TTL        time.Duration `yaml:"ttl" env:"METGUIDE_CACHE_TTL"`
}

// RateLimitConfig tunes the per-client request limiter on AI endpoints.
type RateLimitConfig struct {
	Limit  int           `yaml:"limit" env:"METGUIDE_RATE_LIMIT"`
	Window time.Duration `yaml:"window" env:"METGUIDE_RATE_WINDOW"`
}

// LogConfig controls logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level" env:"METGUIDE_LOG_LEVEL"`
	Format string `yaml:"format" env:"METGUIDE_LOG_FORMAT"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:     ":8080",
		Env:        "development",
		MetBaseURL: "https://collectionapi.metmuseum.org/public/collection/v1",
		ToursPath:  "data/tours.json",
		Cache: CacheConfig{
			TTL: 30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Limit:  10,
			Window: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (with
// ${VAR} expansion) if one is given, then environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// OpenAIConfigured reports whether an AI provider key is present.
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAIAPIKey != ""
}
