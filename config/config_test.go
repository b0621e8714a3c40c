package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amp-labs/amp-flux/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 23, cfg.TotalItems)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchDelay)
	assert.Equal(t, -1, cfg.FailAtOffset)
	assert.Equal(t, pagination.OverlapReject, cfg.Overlap)
	assert.True(t, cfg.Recovery)
	assert.Equal(t, 4, cfg.Workers)
	assert.Empty(t, cfg.MetricsAddr)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "amp-flux-pager", cfg.Telemetry.ServiceName)
	assert.Nil(t, cfg.Failures())
}

func TestOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := FromMap(map[string]string{
		"PAGER_PAGE_SIZE":             "10",
		"PAGER_TOTAL_ITEMS":           "100",
		"PAGER_FETCH_DELAY":           "2s",
		"PAGER_FAIL_AT_OFFSET":        "10",
		"PAGER_OVERLAP":               "allow",
		"PAGER_RECOVERY":              "false",
		"BACKGROUND_WORKER_COUNT":     "8",
		"METRICS_ADDR":                ":9090",
		"LOG_JSON":                    "true",
		"LOG_LEVEL":                   "debug",
		"OTEL_ENABLED":                "true",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
		"OTEL_SERVICE_NAME":           "pager-test",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 100, cfg.TotalItems)
	assert.Equal(t, 2*time.Second, cfg.FetchDelay)
	assert.Equal(t, pagination.OverlapAllow, cfg.Overlap)
	assert.False(t, cfg.Recovery)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, "pager-test", cfg.Telemetry.ServiceName)

	fail := cfg.Failures()
	require.NotNil(t, fail)
	require.NoError(t, fail(0))
	require.ErrorIs(t, fail(10), pagination.ErrNetwork)
	require.NoError(t, fail(10))
}

func TestInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
		err     error
	}{
		{"zero page size", map[string]string{"PAGER_PAGE_SIZE": "0"}, ErrInvalidPageSize},
		{"negative total", map[string]string{"PAGER_TOTAL_ITEMS": "-3"}, ErrInvalidTotal},
		{"negative delay", map[string]string{"PAGER_FETCH_DELAY": "-1s"}, ErrInvalidDelay},
		{"no workers", map[string]string{"BACKGROUND_WORKER_COUNT": "0"}, ErrInvalidWorkerCount},
		{"unknown overlap", map[string]string{"PAGER_OVERLAP": "queue"}, ErrParsingConfig},
		{"not a number", map[string]string{"PAGER_PAGE_SIZE": "five"}, ErrParsingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromMap(tt.environ)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidateOverlap(t *testing.T) {
	t.Parallel()

	cfg, err := FromMap(nil)
	require.NoError(t, err)

	cfg.Overlap = pagination.OverlapPolicy(7)
	require.ErrorIs(t, cfg.Validate(), ErrInvalidOverlapPolicy)
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAGER_PAGE_SIZE=7\n# comment\nPAGER_OVERLAP=allow\n"), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.PageSize)
	assert.Equal(t, pagination.OverlapAllow, cfg.Overlap)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

// Load reads the process environment.
//
//nolint:paralleltest
func TestLoad(t *testing.T) {
	t.Setenv("PAGER_PAGE_SIZE", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PageSize)
}
