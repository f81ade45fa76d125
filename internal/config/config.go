package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath         = "CONFIG_PATH"
	EnvDBConnection       = "DB_CONNECTION"
	EnvTokenExpireMinutes = "TOKEN_EXPIRE_MINUTES"
	EnvPort               = "PORT"
)

// DefaultTokenExpireMinutes is the token refresh window when unconfigured.
const DefaultTokenExpireMinutes = 1

// DefaultPort is the listen port when unconfigured.
const DefaultPort = 8080

// ErrMissingDatabaseDSN indicates no database DSN is present in the config.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` in config file or env DB_CONNECTION)")

// Config holds resolved application configuration values.
type Config struct {
	DatabaseDSN        string `yaml:"database-dsn"`
	TokenExpireMinutes int    `yaml:"token-expire-minutes"`
	Port               int    `yaml:"port"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file and applies environment overrides. A
// missing config file is not an error as long as the DSN is set via env.
func Load(configPath string) (Config, error) {
	cfg := Config{
		TokenExpireMinutes: DefaultTokenExpireMinutes,
		Port:               DefaultPort,
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	}

	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTokenExpireMinutes)); raw != "" {
		if minutes, errParse := strconv.Atoi(raw); errParse == nil && minutes > 0 {
			cfg.TokenExpireMinutes = minutes
		}
	}
	if raw := strings.TrimSpace(os.Getenv(EnvPort)); raw != "" {
		if port, errParse := strconv.Atoi(raw); errParse == nil && port > 0 && port <= 65535 {
			cfg.Port = port
		}
	}

	if cfg.TokenExpireMinutes <= 0 {
		cfg.TokenExpireMinutes = DefaultTokenExpireMinutes
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = DefaultPort
	}
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, ErrMissingDatabaseDSN
	}
	return cfg, nil
}
