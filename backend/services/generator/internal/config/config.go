package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "plugsim/backend/libs/config"
	"plugsim/backend/services/generator/internal/calendar"
	"plugsim/backend/services/generator/internal/dataset"
	"plugsim/backend/services/generator/internal/daylight"
)

// Source modes.
const (
	SourceInProcess = "inprocess"
	SourceHTTP      = "http"
)

// Config defines generator configuration.
type Config struct {
	Plan struct {
		FirstDay        string  `yaml:"firstDay" toml:"firstDay" env:"GEN_PLAN_FIRST_DAY"`
		Days            int     `yaml:"days" toml:"days" env:"GEN_PLAN_DAYS"`
		Hours           int     `yaml:"hours" toml:"hours" env:"GEN_PLAN_HOURS"`
		IntervalMinutes int     `yaml:"intervalMinutes" toml:"intervalMinutes" env:"GEN_PLAN_INTERVAL_MINUTES"`
		MeterID         int     `yaml:"meterId" toml:"meterId" env:"GEN_PLAN_METER_ID"`
		WeightScale     float64 `yaml:"weightScale" toml:"weightScale" env:"GEN_PLAN_WEIGHT_SCALE"`
	} `yaml:"plan" toml:"plan"`
	Source struct {
		Mode           string `yaml:"mode" toml:"mode" env:"GEN_SOURCE_MODE"`
		BaseURL        string `yaml:"baseUrl" toml:"baseUrl" env:"GEN_SOURCE_BASE_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" toml:"timeoutSeconds" env:"GEN_SOURCE_TIMEOUT_SECONDS"`
		Username       string `yaml:"username" toml:"username" env:"GEN_SOURCE_USERNAME"`
		Password       string `yaml:"password" toml:"password" env:"GEN_SOURCE_PASSWORD"`
		JWTSecret      string `yaml:"jwtSecret" toml:"jwtSecret" env:"GEN_SOURCE_JWT_SECRET"`
	} `yaml:"source" toml:"source"`
	Random struct {
		Seed uint64 `yaml:"seed" toml:"seed" env:"GEN_RANDOM_SEED"`
	} `yaml:"random" toml:"random"`
	Output struct {
		Folder      string `yaml:"folder" toml:"folder" env:"GEN_OUTPUT_FOLDER"`
		DatasetName string `yaml:"datasetName" toml:"datasetName" env:"GEN_OUTPUT_DATASET_NAME"`
		Gzip        bool   `yaml:"gzip" toml:"gzip" env:"GEN_OUTPUT_GZIP"`
	} `yaml:"output" toml:"output"`
	Database struct {
		DSN string `yaml:"dsn" toml:"dsn" env:"GEN_DATABASE_DSN"`
	} `yaml:"database" toml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" toml:"addr" env:"GEN_REDIS_ADDR"`
		Password   string `yaml:"password" toml:"password" env:"GEN_REDIS_PASSWORD"`
		DB         int    `yaml:"db" toml:"db" env:"GEN_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" toml:"ttlSeconds" env:"GEN_REDIS_TTL_SECONDS"`
	} `yaml:"redis" toml:"redis"`
}

// Defaults returns a config holding the stock run: 100 days of 15-minute slots from 2022-01-01.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Plan.FirstDay = "2022-01-01"
	cfg.Plan.Days = 100
	cfg.Plan.Hours = 24
	cfg.Plan.IntervalMinutes = 15
	cfg.Plan.WeightScale = daylight.DefaultScale
	cfg.Source.Mode = SourceInProcess
	cfg.Source.BaseURL = "http://127.0.0.1:8000"
	cfg.Output.Folder = "./"
	cfg.Output.DatasetName = dataset.DefaultName
	cfg.Redis.TTLSeconds = 7 * 24 * 3600
	return cfg
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := Defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	if _, err := c.FirstDay(); err != nil {
		return fmt.Errorf("config: plan firstDay: %w", err)
	}
	if c.Plan.Days < 0 {
		return errors.New("config: plan days must not be negative")
	}
	if c.Plan.Hours <= 0 || c.Plan.Hours > 24 {
		return errors.New("config: plan hours must be within 1..24")
	}
	if c.Plan.IntervalMinutes <= 0 {
		return errors.New("config: plan intervalMinutes must be positive")
	}
	if c.Plan.WeightScale <= 0 {
		return errors.New("config: plan weightScale must be positive")
	}
	switch c.SourceMode() {
	case SourceInProcess:
	case SourceHTTP:
		if strings.TrimSpace(c.Source.BaseURL) == "" {
			return errors.New("config: source baseUrl is required in http mode")
		}
	default:
		return fmt.Errorf("config: unknown source mode %q", c.Source.Mode)
	}
	if c.Source.TimeoutSeconds < 0 {
		return errors.New("config: source timeoutSeconds must not be negative")
	}
	if c.Redis.TTLSeconds < 0 {
		return errors.New("config: redis ttlSeconds must not be negative")
	}
	return nil
}

// FirstDay parses plan.firstDay.
func (c *Config) FirstDay() (time.Time, error) {
	return calendar.ParseDate(c.Plan.FirstDay)
}

// SourceMode returns the normalized source mode.
func (c *Config) SourceMode() string {
	return strings.ToLower(strings.TrimSpace(c.Source.Mode))
}

// Timeout returns the HTTP client timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// RedisTTL returns how long run records are kept.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}
