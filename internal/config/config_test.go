package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL() = %v, want 24h", cfg.CacheTTL())
	}
	if cfg.GitTimeout() != 5*time.Second {
		t.Errorf("GitTimeout() = %v, want 5s", cfg.GitTimeout())
	}
	if cfg.Detection.SampleFiles != 10 {
		t.Errorf("SampleFiles = %d, want 10", cfg.Detection.SampleFiles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cache.TTL != "24h" {
		t.Errorf("Cache.TTL = %q, want 24h", cfg.Cache.TTL)
	}
	if cfg.Detection.SampleFiles != 10 {
		t.Errorf("SampleFiles = %d, want 10", cfg.Detection.SampleFiles)
	}
}

func TestLoadConfig_FromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	dir := filepath.Join(xdg, "adaptive")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"cache": {"ttl": "1h", "dir": "/tmp/adaptive-cache"}, "logging": {"level": "debug"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL() = %v, want 1h", cfg.CacheTTL())
	}
	if cfg.Cache.Dir != "/tmp/adaptive-cache" {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if !cfg.Cache.Enabled {
		t.Error("unset cache.enabled should keep its default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ADAPTIVE_CACHE_TTL", "30m")
	t.Setenv("ADAPTIVE_CACHE_ENABLED", "false")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.CacheTTL() != 30*time.Minute {
		t.Errorf("CacheTTL() = %v, want 30m", cfg.CacheTTL())
	}
	if cfg.Cache.Enabled {
		t.Error("ADAPTIVE_CACHE_ENABLED=false should disable the cache")
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadConfig_InvalidTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cache": {"ttl": "forever"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "cache.ttl" {
		t.Errorf("Field = %q, want cache.ttl", cfgErr.Field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero sample files", func(c *Config) { c.Detection.SampleFiles = 0 }, "detection.sampleFiles"},
		{"bad git timeout", func(c *Config) { c.Detection.GitTimeout = "-1s" }, "detection.gitTimeout"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.maxBackups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("Validate() = %v, want ConfigError on %s", err, tt.field)
			}
		})
	}
}
