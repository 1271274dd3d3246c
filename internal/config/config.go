package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ADAPTIVE_CACHE_TTL.
const EnvPrefix = "ADAPTIVE"

// Config represents the complete adaptive configuration
type Config struct {
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Detection DetectionConfig `json:"detection" mapstructure:"detection"`
	Templates TemplatesConfig `json:"templates" mapstructure:"templates"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// CacheConfig controls the on-disk detection cache
type CacheConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Dir overrides ~/.cache/adaptive-claude-agents
	Dir string `json:"dir" mapstructure:"dir"`
	// TTL is a Go duration string
	TTL string `json:"ttl" mapstructure:"ttl"`
}

// DetectionConfig bounds the cost of evidence scanning
type DetectionConfig struct {
	SampleFiles int    `json:"sampleFiles" mapstructure:"sampleFiles"`
	GitTimeout  string `json:"gitTimeout" mapstructure:"gitTimeout"`
}

// TemplatesConfig locates the agent template tree
type TemplatesConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "24h",
		},
		Detection: DetectionConfig{
			SampleFiles: 10,
			GitTimeout:  "5s",
		},
		Logging: LoggingConfig{
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration. An explicit configFile must exist; otherwise
// config.json is searched in $XDG_CONFIG_HOME/adaptive and ~/.config/adaptive,
// and defaults are used when none is found. ADAPTIVE_* variables override
// file values.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("detection.sampleFiles", d.Detection.SampleFiles)
	v.SetDefault("detection.gitTimeout", d.Detection.GitTimeout)
	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}

func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "adaptive"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "adaptive"))
	}
	return dirs
}

// CacheTTL returns the parsed cache time-to-live.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// GitTimeout returns the wall-clock limit for each git invocation.
func (c *Config) GitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Detection.GitTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if d, err := time.ParseDuration(c.Cache.TTL); err != nil || d <= 0 {
		return &ConfigError{Field: "cache.ttl", Message: "must be a positive duration such as 24h"}
	}
	if d, err := time.ParseDuration(c.Detection.GitTimeout); err != nil || d <= 0 {
		return &ConfigError{Field: "detection.gitTimeout", Message: "must be a positive duration such as 5s"}
	}
	if c.Detection.SampleFiles < 1 {
		return &ConfigError{Field: "detection.sampleFiles", Message: "must be at least 1"}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
