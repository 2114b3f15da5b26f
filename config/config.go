package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres        PostgresConfig        `yaml:"postgres"`
	NATS            NATSConfig            `yaml:"nats"`
	HTTP            HTTPConfig            `yaml:"http"`
	JWT             JWTConfig             `yaml:"jwt"`
	ResultsProvider ResultsProviderConfig `yaml:"results_provider"`
	Scoring         ScoringConfig         `yaml:"scoring"`
	Exchange        ExchangeConfig        `yaml:"exchange"`
	Queue           QueueConfig           `yaml:"queue"`
	Observability   ObservabilityConfig   `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// NATSConfig holds NATS configuration. An empty URL disables the results bridge.
type NATSConfig struct {
	URL      string `yaml:"url" env:"NATS_URL"`
	NKeySeed string `yaml:"nkey_seed" env:"NATS_NKEY_SEED"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret   string `yaml:"secret" env:"JWT_SECRET"`
	Issuer   string `yaml:"issuer" env:"JWT_ISSUER"`
	Audience string `yaml:"audience" env:"JWT_AUDIENCE"`
}

// ResultsProviderConfig points at the competition results API.
type ResultsProviderConfig struct {
	BaseURL           string        `yaml:"base_url" env:"RESULTS_PROVIDER_URL"`
	APIKey            string        `yaml:"api_key" env:"RESULTS_PROVIDER_API_KEY"`
	Timeout           time.Duration `yaml:"timeout" env:"RESULTS_PROVIDER_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"RESULTS_PROVIDER_RPS"`
	Burst             int           `yaml:"burst" env:"RESULTS_PROVIDER_BURST"`
}

// ScoringConfig holds the level weight table.
type ScoringConfig struct {
	LevelWeights  map[string]float64 `yaml:"level_weights" env:"SCORING_LEVEL_WEIGHTS"`
	DefaultWeight float64            `yaml:"default_weight" env:"SCORING_DEFAULT_WEIGHT"`
}

// ExchangeConfig holds the rotation clock settings.
type ExchangeConfig struct {
	Timezone string `yaml:"timezone" env:"EXCHANGE_TIMEZONE"`
}

// QueueConfig holds river settings.
type QueueConfig struct {
	MaxWorkers   int           `yaml:"max_workers" env:"QUEUE_MAX_WORKERS"`
	SnoozeFor    time.Duration `yaml:"snooze_for" env:"QUEUE_SNOOZE_FOR"`
	MigrateRiver bool          `yaml:"migrate_river" env:"QUEUE_MIGRATE_RIVER"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	Environment string `yaml:"environment" env:"ENV"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

func defaults() Config {
	return Config{
		HTTP: HTTPConfig{Address: ":8080", RateLimit: 5, RateBurst: 10},
		ResultsProvider: ResultsProviderConfig{
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Scoring:       ScoringConfig{DefaultWeight: 1.0},
		Exchange:      ExchangeConfig{Timezone: "UTC"},
		Queue:         QueueConfig{MaxWorkers: 5, SnoozeFor: 5 * time.Minute},
		Observability: ObservabilityConfig{Environment: "development", LogLevel: "info", ServiceName: "frolf-fantasy"},
	}
}

// LoadConfig loads a .env file if present, then the YAML file, then applies
// environment overrides. A missing YAML file falls back to the environment.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("config: postgres dsn is required (DATABASE_URL)")
	}
	if c.Scoring.DefaultWeight < 0 {
		return fmt.Errorf("config: scoring default_weight %v must be >= 0", c.Scoring.DefaultWeight)
	}
	for level, w := range c.Scoring.LevelWeights {
		if w < 0 {
			return fmt.Errorf("config: scoring weight for %q is %v, must be >= 0", level, w)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: exchange timezone: %w", err)
	}
	return nil
}

// Location resolves the exchange timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Exchange.Timezone)
}
