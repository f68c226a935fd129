// Package config loads and validates the service configuration from YAML
// files under config/, with baked-in defaults so every surface works without
// a config file present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/righthome/righthome/internal/scoring"
)

// Config is the root configuration for the service.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	Narrative NarrativeConfig `yaml:"narrative"`
}

// ScoringConfig holds the weight vector and tier thresholds.
type ScoringConfig struct {
	Weights scoring.Weights        `yaml:"weights"`
	Tiers   scoring.TierThresholds `yaml:"tiers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port" validate:"gte=1,lte=65535"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// RedisConfig holds the optional score cache settings.
type RedisConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addr      string   `yaml:"addr"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db" validate:"gte=0"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTL       Duration `yaml:"ttl"`
}

// DatabaseConfig holds the optional property store settings.
type DatabaseConfig struct {
	Enabled bool     `yaml:"enabled"`
	DSN     string   `yaml:"dsn"`
	Timeout Duration `yaml:"timeout"`
}

// NarrativeConfig holds settings for the external narrative generator.
type NarrativeConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Endpoint          string   `yaml:"endpoint" validate:"omitempty,url"`
	Token             string   `yaml:"token"`
	Model             string   `yaml:"model"`
	Timeout           Duration `yaml:"timeout"`
	MaxRetries        int      `yaml:"max_retries" validate:"gte=0,lte=10"`
	RequestsPerMinute int      `yaml:"requests_per_minute" validate:"gte=0"`
	MaxLength         int      `yaml:"max_length" validate:"gte=0"`
	Temperature       float64  `yaml:"temperature" validate:"gte=0,lte=2"`
}

// narrativeTokenEnv overrides the narrative token so it can stay out of
// config files.
const narrativeTokenEnv = "RIGHTHOME_NARRATIVE_TOKEN"

// Default returns the baked-in configuration.
func Default() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: scoring.DefaultWeights(),
			Tiers:   scoring.DefaultTierThresholds(),
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  Seconds(10),
			WriteTimeout: Seconds(10),
			IdleTimeout:  Seconds(60),
		},
		Redis: RedisConfig{
			Enabled:   false,
			Addr:      "localhost:6379",
			KeyPrefix: "righthome:",
			TTL:       Seconds(900),
		},
		Database: DatabaseConfig{
			Enabled: false,
			Timeout: Seconds(5),
		},
		Narrative: NarrativeConfig{
			Enabled:           false,
			Endpoint:          "https://api-inference.huggingface.co/models/google/flan-t5-large",
			Model:             "google/flan-t5-large",
			Timeout:           Seconds(30),
			MaxRetries:        2,
			RequestsPerMinute: 30,
			MaxLength:         512,
			Temperature:       0.7,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
// An empty path returns validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if token := os.Getenv(narrativeTokenEnv); token != "" {
		cfg.Narrative.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct tags plus the scoring invariants the tags cannot
// express (weight sum, threshold ordering).
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config values: %w", err)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring weights: %w", err)
	}
	if err := c.Scoring.Tiers.Validate(); err != nil {
		return fmt.Errorf("tier thresholds: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	return filepath.Join("config", "scoring.yaml")
}
