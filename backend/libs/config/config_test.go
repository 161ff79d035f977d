package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TEST_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN      string `yaml:"dsn" env:"TEST_DB_DSN"`
		MaxConns int    `yaml:"max_conns" env:"TEST_DB_MAX_CONNS"`
	} `yaml:"database"`
	Timeout time.Duration `yaml:"timeout" env:"TEST_TIMEOUT"`
	Origins []string      `yaml:"origins" env:"TEST_ORIGINS"`
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TEST_HTTP_PORT", "9000")
	t.Setenv("TEST_DB_MAX_CONNS", "25")
	t.Setenv("TEST_TIMEOUT", "45s")
	t.Setenv("TEST_ORIGINS", "http://a.example, http://b.example")

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Port != "9000" {
		t.Fatalf("port = %s", cfg.HTTP.Port)
	}
	if cfg.Database.MaxConns != 25 {
		t.Fatalf("max conns = %d", cfg.Database.MaxConns)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[0] != "http://a.example" || cfg.Origins[1] != "http://b.example" {
		t.Fatalf("origins = %v", cfg.Origins)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "http:\n  port: \"8080\"\ndatabase:\n  dsn: postgres://file\n  max_conns: 5\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_DB_DSN", "postgres://env")

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Fatalf("port = %s, want file value", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Fatalf("dsn = %s, want env override", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 5 {
		t.Fatalf("max conns = %d", cfg.Database.MaxConns)
	}
}

func TestLoadRejectsNonPointer(t *testing.T) {
	if err := Load(testConfig{}); err == nil {
		t.Fatal("expected error for non-pointer target")
	}
	if err := Load(nil); err == nil {
		t.Fatal("expected error for nil target")
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("TEST_DB_MAX_CONNS", "lots")
	var cfg testConfig
	if err := Load(&cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
