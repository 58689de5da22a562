// Package pipeline loads the tasting sheet into a dataset and holds the
// derived map state served to clients.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// Extractor reads all rows of the sheet.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Row, error)
}

// CityResolver maps city names to coordinates.
type CityResolver interface {
	ResolveAll(ctx context.Context, names []string) (domain.CityMap, error)
}

// Publisher ships a built dataset downstream.
type Publisher interface {
	Publish(ctx context.Context, ds domain.Dataset) error
}

// Loader runs one fetch, map and resolve cycle.
type Loader struct {
	extractor Extractor
	resolver  CityResolver
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLoader creates a Loader with the given stages and observability.
func NewLoader(e Extractor, r CityResolver, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		extractor: e,
		resolver:  r,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load builds a fresh dataset. A failed extract aborts before any city is
// resolved.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()

	rows, err := l.extractor.Extract(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("extract rows: %w", err)
	}

	records, dropped := transformRows(rows, l.metrics)
	if dropped > 0 {
		l.logger.Warn("rows dropped", "dropped", dropped, "rows", len(rows))
	}

	names := domain.CityNames(records)
	cities, err := l.resolver.ResolveAll(ctx, names)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("resolve cities: %w", err)
	}

	ds := domain.NewDataset(records, cities, dropped)
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("dataset loaded",
		"records", len(records),
		"dropped", dropped,
		"cities", len(names),
		"owner", ds.OwnerLabel,
		"duration", time.Since(start),
	)
	return ds, nil
}
