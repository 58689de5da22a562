package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// CityStore persists resolved cities between loads.
type CityStore interface {
	Get(ctx context.Context, name string) (domain.CityPoint, error)
	Put(ctx context.Context, name string, pt domain.CityPoint) error
}

// Resolver turns city names into coordinates. For each name it prefers a
// stored entry that carries a country code, then the geocoder, then a stored
// entry without a country, then the built-in city table.
type Resolver struct {
	store       CityStore
	geocoder    domain.Geocoder
	concurrency int
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewResolver creates a Resolver. A nil geocoder limits resolution to the
// store and the built-in table.
func NewResolver(store CityStore, geocoder domain.Geocoder, concurrency int, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		store:       store,
		geocoder:    geocoder,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
	}
}

// ResolveAll resolves distinct names concurrently. Names that cannot be
// resolved are absent from the result. The only error is the context's.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) (domain.CityMap, error) {
	cities := domain.CityMap{}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			pt, ok := r.resolve(ctx, name)
			if !ok {
				return nil
			}
			mu.Lock()
			cities.Add(name, pt)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *Resolver) resolve(ctx context.Context, name string) (domain.CityPoint, bool) {
	cached, err := r.store.Get(ctx, name)
	hasCached := err == nil
	if hasCached && cached.CountryCode != "" {
		r.metrics.GeocodeCache.WithLabelValues("persistent", "hit").Inc()
		return cached, true
	}
	r.metrics.GeocodeCache.WithLabelValues("persistent", "miss").Inc()

	if r.geocoder != nil {
		result, err := r.geocoder.ForwardGeocode(ctx, name)
		switch {
		case err != nil:
			r.logger.Warn("geocoding failed", "city", name, "error", err)
		case result.Empty():
			r.logger.Debug("geocoding returned no results", "city", name)
		default:
			pt := result.CityPoint()
			if err := r.store.Put(ctx, name, pt); err != nil {
				r.logger.Warn("city cache write failed", "city", name, "error", err)
			}
			return pt, true
		}
	}

	if hasCached {
		r.metrics.GeocodeCache.WithLabelValues("fallback", "hit").Inc()
		return cached, true
	}
	if pt, ok := domain.StaticCity(name); ok {
		r.metrics.GeocodeCache.WithLabelValues("fallback", "hit").Inc()
		return pt, true
	}
	r.metrics.GeocodeCache.WithLabelValues("fallback", "miss").Inc()
	r.logger.Debug("city unresolved", "city", name)
	return domain.CityPoint{}, false
}
