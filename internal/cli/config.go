package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/inkwell-studio/inkwell/pkg/provider"
)

// Config holds CLI configuration, read from ~/.config/inkwell/config.toml
// and overridable through environment variables. Every field has a working
// default, so a missing file is not an error.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// ProviderConfig configures the model provider.
type ProviderConfig struct {
	APIKey  string `toml:"api_key"` // ANTHROPIC_API_KEY overrides
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // "file" (default) or "mongo"
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "file" (default), "redis", or "none"
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// configPath returns the default config file location.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file and applies environment overrides.
// A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Provider.Model = provider.DefaultModel
	cfg.Store.Backend = "file"
	cfg.Cache.Backend = "file"
	cfg.Server.Addr = ":8420"

	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if model := os.Getenv("INKWELL_MODEL"); model != "" {
		cfg.Provider.Model = model
	}
	if addr := os.Getenv("INKWELL_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}
