package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/coffee-map/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "city", "Tbilisi")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "Tbilisi", entry["city"])
}

func TestNewLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "text"})

	logger.Info("dataset loaded", "records", 3)
	assert.Contains(t, buf.String(), "msg=\"dataset loaded\"")
	assert.Contains(t, buf.String(), "records=3")
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "TEXT")
	logger.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(in))
		})
	}
}

func TestNewMetricsForTesting(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RowsRead.Add(3)
	a.SourceFetches.WithLabelValues("csv", "success").Inc()

	assert.InDelta(t, 3, counterValue(t, a.RowsRead), 0)
	assert.InDelta(t, 0, counterValue(t, b.RowsRead), 0)
	assert.InDelta(t, 1, counterValue(t, a.SourceFetches.WithLabelValues("csv", "success")), 0)
	assert.Len(t, a.collectors(), 11)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
