// Package source fetches tasting sheet rows from remote CSV exports,
// published HTML tables, local files, and a bundled dataset.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/coffee-map/internal/config"
	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// ErrAllSourcesFailed is returned when every source in a chain failed.
var ErrAllSourcesFailed = errors.New("all sources failed")

// Source kinds, used as the metrics label.
const (
	KindCSV    = "csv"
	KindHTML   = "html"
	KindFile   = "file"
	KindStatic = "static"
)

// Source yields sheet rows.
type Source interface {
	// Kind names the source type.
	Kind() string
	// Location identifies the concrete source in logs.
	Location() string
	Fetch(ctx context.Context) ([]domain.Row, error)
}

// Result is the outcome of a successful chain fetch.
type Result struct {
	Rows     []domain.Row
	Kind     string
	Location string
}

// Chain tries sources in order and returns the first that succeeds. An
// empty sheet is a success.
type Chain struct {
	sources []Source
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewChain creates a chain. A zero timeout leaves each fetch bounded only by
// the caller's context.
func NewChain(sources []Source, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Chain {
	return &Chain{
		sources: sources,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch walks the chain.
func (c *Chain) Fetch(ctx context.Context) (Result, error) {
	var errs []error
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		rows, err := c.fetchOne(ctx, src)
		if err != nil {
			c.metrics.SourceFetches.WithLabelValues(src.Kind(), "error").Inc()
			c.logger.Warn("source failed, trying next",
				"kind", src.Kind(),
				"location", src.Location(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s %s: %w", src.Kind(), src.Location(), err))
			continue
		}

		c.metrics.SourceFetches.WithLabelValues(src.Kind(), "success").Inc()
		c.metrics.RowsRead.Add(float64(len(rows)))
		c.logger.Info("rows fetched",
			"kind", src.Kind(),
			"location", src.Location(),
			"rows", len(rows),
		)
		return Result{Rows: rows, Kind: src.Kind(), Location: src.Location()}, nil
	}
	if len(errs) == 0 {
		return Result{}, fmt.Errorf("%w: no sources configured", ErrAllSourcesFailed)
	}
	return Result{}, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}

// Extract returns only the rows of a successful fetch.
func (c *Chain) Extract(ctx context.Context) ([]domain.Row, error) {
	res, err := c.Fetch(ctx)
	return res.Rows, err
}

func (c *Chain) fetchOne(ctx context.Context, src Source) ([]domain.Row, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return src.Fetch(ctx)
}

// FromConfig lists the configured sources in chain order: CSV URLs, HTML
// URLs, the fallback file, then the bundled sheet.
func FromConfig(cfg *config.Config, client *http.Client) []Source {
	var sources []Source
	for _, u := range cfg.CSVURLs {
		sources = append(sources, NewHTTPCSV(u, client))
	}
	for _, u := range cfg.HTMLURLs {
		sources = append(sources, NewHTMLTable(u, client))
	}
	if cfg.FallbackCSV != "" {
		sources = append(sources, NewFileCSV(cfg.FallbackCSV))
	}
	return append(sources, NewStatic())
}
