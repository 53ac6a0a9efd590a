package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/provider"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("INKWELL_MODEL", "")
	t.Setenv("INKWELL_ADDR", "")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Provider.Model != provider.DefaultModel {
		t.Errorf("model = %q, want the provider default", cfg.Provider.Model)
	}
	if cfg.Store.Backend != "file" || cfg.Cache.Backend != "file" {
		t.Errorf("backends = %q/%q, want file/file", cfg.Store.Backend, cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8420" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("INKWELL_MODEL", "")
	t.Setenv("INKWELL_ADDR", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[provider]
model = "claude-opus-4-20250514"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Provider.Model != "claude-opus-4-20250514" {
		t.Errorf("model = %q", cfg.Provider.Model)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("INKWELL_MODEL", "claude-haiku-4-20250514")
	t.Setenv("INKWELL_ADDR", ":7777")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Provider.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Provider.APIKey)
	}
	if cfg.Provider.Model != "claude-haiku-4-20250514" {
		t.Errorf("model = %q", cfg.Provider.Model)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("addr = %q, env should beat the file", cfg.Server.Addr)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("malformed config should error")
	}
}
