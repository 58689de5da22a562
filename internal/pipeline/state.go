package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// ErrUnknownProcess is returned for a filter naming no process category.
var ErrUnknownProcess = errors.New("unknown process category")

const baseTitle = "My coffee experience"

// Filter selects which records feed the map layers. An empty Process means
// every category.
type Filter struct {
	Process  domain.Process `json:"process"`
	MineOnly bool           `json:"mineOnly"`
}

// ParseFilter validates a process name; "" and "all" select every category.
func ParseFilter(process string, mineOnly bool) (Filter, error) {
	f := Filter{MineOnly: mineOnly}
	if process == "" || process == "all" {
		return f, nil
	}
	p, ok := domain.ParseProcess(process)
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrUnknownProcess, process)
	}
	f.Process = p
	return f, nil
}

// View is everything derived from the dataset for one filter. Layers use the
// filtered records; metrics and achievements always cover the full dataset.
type View struct {
	Filter        Filter                     `json:"filter"`
	Title         string                     `json:"title"`
	Records       int                        `json:"records"`
	Points        domain.FeatureCollection   `json:"points"`
	Routes        domain.FeatureCollection   `json:"routes"`
	Cities        domain.FeatureCollection   `json:"cities"`
	Countries     []string                   `json:"countries"`
	CountryFilter []any                      `json:"countryFilter"`
	Metrics       domain.Snapshot            `json:"metrics"`
	Achievements  []domain.AchievementResult `json:"achievements"`
	Earned        int                        `json:"earned"`
	LoadedAt      time.Time                  `json:"loadedAt"`
}

// Highlight is the selection of one point, the filter that picks out its
// routes, and the image URLs to try for its photo.
type Highlight struct {
	Record domain.Record `json:"record"`
	Filter []any         `json:"filter"`
	Photos []string      `json:"photos,omitempty"`
}

// DatasetLoader produces a fresh dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// State owns the current dataset and filter. Every filter change or reload
// recomputes the whole view. Independent States share nothing.
type State struct {
	loader    DatasetLoader
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu      sync.RWMutex
	dataset domain.Dataset
	loaded  bool
	filter  Filter
	view    View
	results []domain.AchievementResult
	snap    domain.Snapshot
}

// NewState creates a State holding an empty dataset, so its view is valid
// (empty layers) before the first load. loader may be nil when datasets are
// only set directly.
func NewState(loader DatasetLoader, logger *slog.Logger, metrics *observability.Metrics) *State {
	s := &State{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		dataset: domain.Dataset{Cities: domain.CityMap{}},
	}
	s.snap = domain.ComputeMetrics(nil, s.dataset.Cities)
	s.results = domain.Evaluate(s.snap)
	s.view = s.buildView(Filter{})
	return s
}

// WithPublisher publishes every dataset loaded through Reload.
func (s *State) WithPublisher(p Publisher) *State {
	s.publisher = p
	return s
}

// SetDataset replaces the dataset and recomputes the view with the current
// filter.
func (s *State) SetDataset(ds domain.Dataset) {
	snap := domain.ComputeMetrics(ds.Records, ds.Cities)
	results := domain.Evaluate(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.loaded = true
	s.snap = snap
	s.results = results
	s.view = s.buildView(s.filter)
	s.metrics.DatasetLoaded.Set(1)
}

// SetFilter replaces the filter and returns the recomputed view.
func (s *State) SetFilter(f Filter) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.view = s.buildView(f)
	return s.view
}

// Filter returns the active filter.
func (s *State) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// View returns the view computed for the active filter.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Dataset returns the current dataset, which is empty before the first load.
func (s *State) Dataset() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Highlight finds the first filtered record whose rounded farm coordinate
// matches and returns the route filter for it.
func (s *State) Highlight(lng5, lat5 float64) (Highlight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lng5, lat5 = domain.Round5(lng5), domain.Round5(lat5)
	for _, rec := range filterRecords(s.dataset.Records, s.filter, s.dataset.Owner) {
		if rec.FarmLng5 == lng5 && rec.FarmLat5 == lat5 {
			return Highlight{
				Record: rec,
				Filter: domain.RouteHighlightFilter(rec, s.dataset.Cities),
				Photos: domain.PhotoCandidates(rec.PhotoURL),
			}, true
		}
	}
	return Highlight{}, false
}

// Reload loads a fresh dataset and swaps it in. On failure the previous
// dataset stays in place.
func (s *State) Reload(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("no loader configured")
	}
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	s.SetDataset(ds)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ds); err != nil {
			return fmt.Errorf("publish dataset: %w", err)
		}
	}
	return nil
}

// CheckReadiness returns nil once a dataset has been loaded.
func (s *State) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return errors.New("no dataset loaded yet")
	}
	return nil
}

// Run reloads every interval until the context is cancelled. Failed reloads
// are retried with exponential backoff capped at the interval.
func (s *State) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	s.logger.Info("refresh loop started", "interval", interval)

	initial := min(200*time.Millisecond, interval)
	backoff := initial
	wait := interval
	for {
		if !sleepWithContext(ctx, wait) {
			s.logger.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		}
		if err := s.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("reload failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff, interval)
			continue
		}
		backoff = initial
		wait = interval
	}
}

// buildView derives the layers for f. Callers hold the write lock.
func (s *State) buildView(f Filter) View {
	records := filterRecords(s.dataset.Records, f, s.dataset.Owner)
	cities := s.dataset.Cities
	countries := domain.VisitedCountries(records)

	title := baseTitle
	switch {
	case f.MineOnly && s.dataset.Owner != "":
		title = baseTitle + ": " + s.dataset.Owner
	case s.dataset.OwnerLabel != "":
		title = baseTitle + ": " + s.dataset.OwnerLabel
	}

	return View{
		Filter:        f,
		Title:         title,
		Records:       len(records),
		Points:        domain.PointFeatures(records),
		Routes:        domain.RouteFeatures(domain.BuildRoutes(records, cities)),
		Cities:        domain.CityFeatures(domain.BuildCityAggregates(records, cities)),
		Countries:     countries,
		CountryFilter: domain.VisitedFilter(countries),
		Metrics:       s.snap,
		Achievements:  domain.Visible(s.results),
		Earned:        domain.EarnedCount(s.results),
		LoadedAt:      s.dataset.LoadedAt,
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
