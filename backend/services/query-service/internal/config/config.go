package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "visiflow/backend/libs/config"
)

// Config defines query service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"QUERY_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN      string        `yaml:"dsn" env:"QUERY_POSTGRES_DSN"`
		MaxConns int           `yaml:"max_conns" env:"QUERY_POSTGRES_MAX_CONNS"`
		Timeout  time.Duration `yaml:"timeout" env:"QUERY_POSTGRES_TIMEOUT"`
	} `yaml:"database"`
	CORS struct {
		AllowedOrigins  []string `yaml:"allowed_origins" env:"QUERY_ALLOWED_ORIGINS"`
		AllowedSuffixes []string `yaml:"allowed_suffixes" env:"QUERY_ALLOWED_SUFFIXES"`
	} `yaml:"cors"`
}

// Load configuration using the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8092"
	cfg.Database.MaxConns = 10
	cfg.Database.Timeout = 15 * time.Second
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000", "https://climmatech.com"}
	cfg.CORS.AllowedSuffixes = []string{".climmatech.com"}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8092"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
