package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Locale  string        `yaml:"locale"`
}

type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	UserAgent string `yaml:"user_agent"`
}

// Storage drivers
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type StorageConfig struct {
	Driver string `yaml:"driver"` // badger, sqlite or memory
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

type MetricsConfig struct {
	Port int `yaml:"port"` // 0 disables the metrics server
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:3000",
			Timeout:   30,
			UserAgent: "neomovies-cli/1.0",
		},
		Storage: StorageConfig{
			Driver: DriverBadger,
			Path:   "./data/local",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			HTTPPort: 4545,
		},
		Locale: "ru",
	}
}

// Load reads configuration from a YAML file and applies environment
// overrides. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEO_API_URL"); v != "" {
		c.API.BaseURL = v
	} else if v := os.Getenv("NEXT_PUBLIC_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("NEO_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("NEO_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("NEO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

// RequestTimeout returns the API timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.Timeout) * time.Second
}

// EnsureDirectories creates required directories
func (c *Config) EnsureDirectories() error {
	var dirs []string
	switch c.Storage.Driver {
	case DriverBadger:
		dirs = append(dirs, c.Storage.Path)
	case DriverSQLite:
		dirs = append(dirs, filepath.Dir(c.Storage.Path))
	}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
