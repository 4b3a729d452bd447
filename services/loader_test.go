package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-dashboard/storage"
)

func TestResolveMetricPriority(t *testing.T) {
	tests := []struct {
		columns []string
		want    string
	}{
		{[]string{"cnt"}, "cnt"},
		{[]string{"cnt_day"}, "cnt_day"},
		{[]string{"cnt_hour"}, "cnt_hour"},
		{[]string{"cnt_hour", "cnt_day", "cnt"}, "cnt"},
		{[]string{"cnt_hour", "season", "cnt_day"}, "cnt_day"},
	}
	for _, tt := range tests {
		got, err := ResolveMetric(tt.columns)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ResolveMetric(%v)", tt.columns)
	}
}

func TestResolveMetricMissing(t *testing.T) {
	_, err := ResolveMetric([]string{"season", "count", "total"})
	assert.ErrorIs(t, err, ErrMissingMetricColumn)
	assert.True(t, IsFatal(err))
}

func TestLoaderMissingFileIsFatal(t *testing.T) {
	src := storage.NewCSVSource(filepath.Join(t.TempDir(), "all_df.csv"))
	_, err := NewLoader(src, newTestLogger()).Load(context.Background())

	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.True(t, IsFatal(err))
}

func TestLoaderResolvesDayDataset(t *testing.T) {
	ds := dataset(t, "season,cnt_day\n1,10\n")
	assert.Equal(t, "cnt_day", ds.MetricColumn)
	assert.Equal(t, 1, ds.Rows())
}

func TestLoaderRejectsDatasetWithoutMetric(t *testing.T) {
	path := writeCSV(t, "season,casual\n1,10\n")
	_, err := NewLoader(storage.NewCSVSource(path), newTestLogger()).Load(context.Background())
	assert.ErrorIs(t, err, ErrMissingMetricColumn)
}
