package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/inkwell-studio/inkwell/pkg/cache"
	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/render/export"
	"github.com/inkwell-studio/inkwell/pkg/store"
	"github.com/inkwell-studio/inkwell/pkg/studio"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "inkwell"

// =============================================================================
// Factories
// =============================================================================

// newStore opens the configured document store backend.
func newStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}

// newCache opens the configured artifact cache backend. Cache failures
// degrade to a null cache: rendering works without one, just slower.
func newCache(ctx context.Context, cfg *Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if cfg.Cache.Backend == "redis" {
		if c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}); err == nil {
			return c
		}
		return cache.NewNullCache()
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		dir = d
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// newExporter builds an exporter wired to the configured cache.
func newExporter(ctx context.Context, cfg *Config, noCache bool) *export.Exporter {
	return export.New(
		export.WithCache(newCache(ctx, cfg, noCache)),
		export.WithLogger(loggerFromContext(ctx)),
	)
}

// newStudio builds a studio backed by the configured provider.
func newStudio(ctx context.Context, cfg *Config) (*studio.Studio, error) {
	client, err := provider.NewAnthropic(provider.Config{
		APIKey:  cfg.Provider.APIKey,
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
	})
	if err != nil {
		return nil, err
	}
	return studio.New(client, studio.WithLogger(loggerFromContext(ctx)))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/inkwell/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
