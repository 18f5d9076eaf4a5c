package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/procmine/internal/eventlog"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.CSVOptions()
	require.NoError(t, err)
	assert.Equal(t, eventlog.DefaultCSVOptions(), opts)

	assert.Equal(t, 1200, cfg.ChartOptions().Width)
	assert.Equal(t, "procmine.db", cfg.Store.Path)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
csv:
  delimiter: ","
  timestamp_format: "%Y-%m-%d %H:%M:%S"
chart:
  width: 800
`))
	require.NoError(t, err)

	opts, err := cfg.CSVOptions()
	require.NoError(t, err)
	assert.Equal(t, ',', opts.Delimiter)
	assert.Equal(t, "Case ID", opts.CaseColumn, "unset fields keep defaults")
	assert.Equal(t, "%Y-%m-%d %H:%M:%S", opts.TimestampFormat)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, 600, cfg.Chart.Height)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeEmptyTimestampFormat(t *testing.T) {
	cfg, err := Decode(strings.NewReader("csv: {timestamp_format: \"\"}\n"))
	require.NoError(t, err)
	opts, err := cfg.CSVOptions()
	require.NoError(t, err)
	assert.Empty(t, opts.TimestampFormat)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"unknown field", "csv: {seperator: ','}\n", "seperator"},
		{"unknown section", "charts: {}\n", "charts"},
		{"long delimiter", "csv: {delimiter: ';;'}\n", "single character"},
		{"empty column", "csv: {case_column: ''}\n", "CaseColumn"},
		{"bad format", "csv: {timestamp_format: '%Q'}\n", "unsupported strftime directive"},
		{"tiny chart", "chart: {width: 10}\n", "Width"},
		{"zero dots", "chart: {dot_size: 0}\n", "DotSize"},
		{"empty store path", "store: {path: ''}\n", "Path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "procmine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: {path: cache.db}\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cache.db", cfg.Store.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("chart: {width: 1}\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
