package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "plugsim/backend/libs/config"
)

const defaultPort = "8000"

// Config defines plug-service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" toml:"port" env:"PLUG_HTTP_PORT"`
	} `yaml:"http" toml:"http"`
	Random struct {
		Seed uint64 `yaml:"seed" toml:"seed" env:"PLUG_RANDOM_SEED"`
	} `yaml:"random" toml:"random"`
	Auth struct {
		Username     string `yaml:"username" toml:"username" env:"PLUG_AUTH_USERNAME"`
		PasswordHash string `yaml:"passwordHash" toml:"passwordHash" env:"PLUG_AUTH_PASSWORD_HASH"`
		JWTSecret    string `yaml:"jwtSecret" toml:"jwtSecret" env:"PLUG_AUTH_JWT_SECRET"`
	} `yaml:"auth" toml:"auth"`
	WS struct {
		StatusIntervalSeconds int `yaml:"statusIntervalSeconds" toml:"statusIntervalSeconds" env:"PLUG_WS_STATUS_INTERVAL"`
	} `yaml:"ws" toml:"ws"`
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.WS.StatusIntervalSeconds = 1

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if (c.Auth.Username == "") != (c.Auth.PasswordHash == "") {
		return errors.New("config: auth username and passwordHash must be set together")
	}
	if c.WS.StatusIntervalSeconds < 0 {
		return errors.New("config: ws statusIntervalSeconds must not be negative")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// StatusInterval returns the websocket push period.
func (c *Config) StatusInterval() time.Duration {
	if c.WS.StatusIntervalSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.WS.StatusIntervalSeconds) * time.Second
}
