package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "visiflow/backend/libs/config"
)

// Config defines ingest service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"INGEST_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN      string `yaml:"dsn" env:"INGEST_POSTGRES_DSN"`
		MaxConns int    `yaml:"max_conns" env:"INGEST_POSTGRES_MAX_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"INGEST_REDIS_ADDR"`
		Password string `yaml:"password" env:"INGEST_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"INGEST_REDIS_DB"`
	} `yaml:"redis"`
	Validation struct {
		Policy    string        `yaml:"policy" env:"INGEST_VALIDATION_POLICY"`
		KeyPrefix string        `yaml:"key_prefix" env:"INGEST_DEVICE_KEY_PREFIX"`
		Timeout   time.Duration `yaml:"timeout" env:"INGEST_VALIDATION_TIMEOUT"`
	} `yaml:"validation"`
	Persist struct {
		Timeout time.Duration `yaml:"timeout" env:"INGEST_PERSIST_TIMEOUT"`
	} `yaml:"persist"`
	Archive struct {
		Bucket          string        `yaml:"bucket" env:"INGEST_ARCHIVE_BUCKET"`
		Region          string        `yaml:"region" env:"INGEST_ARCHIVE_REGION"`
		Prefix          string        `yaml:"prefix" env:"INGEST_ARCHIVE_PREFIX"`
		Endpoint        string        `yaml:"endpoint" env:"INGEST_ARCHIVE_ENDPOINT"`
		AccessKeyID     string        `yaml:"access_key_id" env:"INGEST_ARCHIVE_ACCESS_KEY_ID"`
		SecretAccessKey string        `yaml:"secret_access_key" env:"INGEST_ARCHIVE_SECRET_ACCESS_KEY"`
		UsePathStyle    bool          `yaml:"use_path_style" env:"INGEST_ARCHIVE_USE_PATH_STYLE"`
		Timeout         time.Duration `yaml:"timeout" env:"INGEST_ARCHIVE_TIMEOUT"`
	} `yaml:"archive"`
}

// Load configuration using the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8091"
	cfg.Database.MaxConns = 10
	cfg.Validation.Timeout = 3 * time.Second
	cfg.Persist.Timeout = 10 * time.Second
	cfg.Archive.Timeout = 10 * time.Second

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8091"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ArchiveEnabled reports whether the lake sink is configured.
func (c *Config) ArchiveEnabled() bool {
	return strings.TrimSpace(c.Archive.Bucket) != ""
}
