// Package config loads grimoire's optional YAML config file, the .env file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig   = "GRIMOIRE_CONFIG"
	EnvDB       = "GRIMOIRE_DB"
	EnvLogLevel = "GRIMOIRE_LOG_LEVEL"
	EnvGemini   = "GEMINI_API_KEY"
	EnvAPIKey   = "API_KEY"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "grimoire.yaml"

// Config is the process-level configuration. The saved API settings take
// precedence over APIKey and BaseURL, which only fill in what they leave
// empty.
type Config struct {
	DB       string `yaml:"db"`
	LogLevel string `yaml:"log_level"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// Load reads the config file at path, or $GRIMOIRE_CONFIG, or ./grimoire.yaml
// when present, then applies environment overrides. A missing file is only
// an error when it was named explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultFile
	}

	cfg := &Config{}
	fileCfg, err := LoadFile(path)
	switch {
	case err == nil:
		cfg = fileCfg
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv()
	if cfg.DB == "" {
		cfg.DB = DefaultDBPath()
	}
	return cfg, nil
}

// LoadFile reads and validates one YAML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level: %s", cfg.LogLevel)
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url must be an http(s) URL: %s", cfg.BaseURL)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.DB = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := ResolveAPIKey(); v != "" {
		c.APIKey = v
	}
}

// ResolveAPIKey returns $GEMINI_API_KEY, falling back to $API_KEY.
func ResolveAPIKey() string {
	if v := strings.TrimSpace(os.Getenv(EnvGemini)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath is ~/.grimoire/state.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".grimoire", "state.db")
}
