package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
	assert.Len(t, ShortID(id), 8)
	assert.Equal(t, "plain", ShortID("plain"))
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 12, 1, 14, 30, 22, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		params map[string]string
		want   string
	}{
		{
			name:   "no placeholders",
			format: "output/sales_report.txt",
			want:   "output/sales_report.txt",
		},
		{
			name:   "date and time",
			format: "output/report_{date}_{time}.txt",
			want:   "output/report_20241201_143022.txt",
		},
		{
			name:   "timestamp",
			format: "report_{timestamp}.xlsx",
			want:   "report_20241201_143022.xlsx",
		},
		{
			name:   "explicit run id",
			format: "report_{run_id}.txt",
			params: map[string]string{"run_id": "a1b2c3d4-e5f6-7890-abcd-ef1234567890"},
			want:   "report_a1b2c3d4.txt",
		},
		{
			name:   "custom param",
			format: "{region}/report.txt",
			params: map[string]string{"region": "North"},
			want:   "North/report.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, tt.params, now))
		})
	}
}

func TestGenerateOutputFileName_GeneratedRunID(t *testing.T) {
	name := GenerateOutputFileName("report_{run_id}.txt", nil, time.Now())
	assert.NotContains(t, name, "{run_id}")
	assert.Len(t, name, len("report_.txt")+8)
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.txt")
	require.NoError(t, EnsureParentDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("report.txt"))
}

func TestFileHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))
	assert.True(t, FileExists(path))

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}
