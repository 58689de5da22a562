package main

import (
	"context"
	"net/http"

	"github.com/couchcryptid/coffee-map/internal/adapter/citycache"
	"github.com/couchcryptid/coffee-map/internal/adapter/mapbox"
	"github.com/couchcryptid/coffee-map/internal/adapter/source"
	"github.com/couchcryptid/coffee-map/internal/config"
	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/pipeline"
)

type cityStore interface {
	pipeline.CityStore
	Len(ctx context.Context) (int, error)
	Close() error
}

// app is the loading stack shared by the subcommands.
type app struct {
	chain    *source.Chain
	resolver *pipeline.Resolver
	loader   *pipeline.Loader
	store    cityStore
}

func newApp(cfg *config.Config) *app {
	chain := source.NewChain(source.FromConfig(cfg, &http.Client{}), cfg.SourceTimeout, metrics, logger)
	store := openCityStore(cfg.CityCachePath)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxRate, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "rate", cfg.MapboxRate)
	} else {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
	}

	resolver := pipeline.NewResolver(store, geocoder, cfg.GeocodeConcurrency, metrics, logger)
	return &app{
		chain:    chain,
		resolver: resolver,
		loader:   pipeline.NewLoader(chain, resolver, logger, metrics),
		store:    store,
	}
}

// openCityStore opens the sqlite cache, falling back to memory when the path
// is empty or the file cannot be opened.
func openCityStore(path string) cityStore {
	if path == "" {
		return citycache.NewMemoryStore()
	}
	store, err := citycache.Open(path)
	if err != nil {
		logger.Warn("city cache unavailable, using memory", "path", path, "error", err)
		return citycache.NewMemoryStore()
	}
	return store
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.Error("city cache close error", "error", err)
	}
}
