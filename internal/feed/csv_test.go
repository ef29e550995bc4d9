package feed

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := `timestamp,open,high,low,close,volume
2024-01-01T00:00:00Z,100,101,99,100.5,1000
2024-01-02,100.5,102,100,101,1200
1704326400,101,103,100.5,102.5,900
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Timestamp)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[1].Timestamp)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), bars[2].Timestamp)
	assert.Equal(t, 900.0, bars[2].Volume)
}

func TestReadCSV_VolumeOptionalAndColumnOrder(t *testing.T) {
	in := "Close,Open,High,Low,Timestamp\n10,9,11,8,2024-01-01\n"
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 9.0, bars[0].Open)
	assert.Equal(t, 10.0, bars[0].Close)
	assert.Equal(t, 0.0, bars[0].Volume)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ErrNoBars.Error()},
		{"header only", "timestamp,open,high,low,close\n", ErrNoBars.Error()},
		{"missing column", "timestamp,open,high,close\n", `missing column "low"`},
		{"bad number", "timestamp,open,high,low,close\n2024-01-01,x,1,1,1\n", "invalid open"},
		{"bad time", "timestamp,open,high,low,close\nyesterday,1,1,1,1\n", "invalid timestamp"},
		{"duplicate time", "timestamp,open,high,low,close\n2024-01-01,1,1,1,1\n2024-01-01,1,1,1,1\n", "line 3"},
		{"unordered", "timestamp,open,high,low,close\n2024-01-02,1,1,1,1\n2024-01-01,1,1,1,1\n", "is not after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,open,high,low,close\n2024-01-01,1,2,0.5,1.5\n"), 0o644))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadCSV_LogsOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,open,high,low,close\n2024-01-01,1,2,0.5,1.5\n2024-01-02,1,2,0.5,1.5\n"), 0o644))

	_, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "Loaded bars"))
	assert.Contains(t, buf.String(), "count=2")
}
