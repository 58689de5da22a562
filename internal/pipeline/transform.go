package pipeline

import (
	"strings"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// transformRows maps rows to records and counts both outcomes.
func transformRows(rows []domain.Row, metrics *observability.Metrics) ([]domain.Record, int) {
	records, dropped := domain.MapRows(rows)
	metrics.RecordsBuilt.Add(float64(len(records)))
	metrics.RowsDropped.Add(float64(dropped))
	return records, dropped
}

// filterRecords returns the records matching f, preserving order.
func filterRecords(records []domain.Record, f Filter, owner string) []domain.Record {
	if f.Process == "" && !f.MineOnly {
		return records
	}
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if f.Process != "" && r.ProcessNorm != f.Process {
			continue
		}
		if f.MineOnly && strings.TrimSpace(r.Uploader) != owner {
			continue
		}
		out = append(out, r)
	}
	return out
}
