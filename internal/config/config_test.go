package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-analytics/internal/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_UnreadablePath(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sales_data.txt", cfg.InputFile)
	assert.Equal(t, "auto", cfg.Encoding)
	assert.Equal(t, "data/enriched_sales_data.txt", cfg.EnrichedFile)
	assert.Equal(t, "output/sales_report.txt", cfg.ReportFile)
	assert.Equal(t, "https://dummyjson.com/products?limit=100", cfg.Catalog.URL)
	assert.Equal(t, 10, cfg.Catalog.TimeoutSeconds)
	assert.True(t, cfg.CatalogEnabled())
	assert.Equal(t, 5, cfg.Analysis.TopProducts)
	assert.Equal(t, 10, cfg.Analysis.LowPerformerThreshold)
	assert.Equal(t, 12, cfg.Analysis.DailyTrendLimit)
	assert.Equal(t, 8, cfg.Analysis.LowPerformerLimit)
	assert.Equal(t, 15, cfg.Analysis.UnmatchedLimit)
	assert.Equal(t, "T", cfg.Validation.TransactionPrefix)
	assert.Equal(t, "P", cfg.Validation.ProductPrefix)
	assert.Equal(t, "C", cfg.Validation.CustomerPrefix)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := writeConfig(t, `
input_file: data/sales.txt
encoding: LATIN-1
logging:
  level: DEBUG
  format: json
catalog:
  enabled: false
  timeout_seconds: 3
analysis:
  top_products: 3
  unmatched_limit: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/sales.txt", cfg.InputFile)
	assert.Equal(t, "latin-1", cfg.Encoding)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.CatalogEnabled())
	assert.Equal(t, 3, cfg.Catalog.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Analysis.TopProducts)
	assert.Equal(t, 5, cfg.Analysis.TopCustomers)
	assert.Equal(t, 20, cfg.Analysis.UnmatchedLimit)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			want:    "Config.Logging.Format must be one of",
		},
		{
			name:    "bad url",
			content: "catalog:\n  url: not a url\n",
			want:    "Config.Catalog.URL must be a valid URL",
		},
		{
			name:    "negative threshold",
			content: "analysis:\n  low_performer_threshold: -1\n",
			want:    "Config.Analysis.LowPerformerThreshold must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "input_file: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := writeConfig(t, string(data))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
