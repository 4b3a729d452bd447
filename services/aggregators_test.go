package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-dashboard/models"
)

func aggregate(t *testing.T, view models.View, ds models.Dataset) *models.Summary {
	t.Helper()
	agg, err := AggregatorFor(view)
	require.NoError(t, err)
	s, err := Aggregate(agg, ds)
	require.NoError(t, err)
	return s
}

func means(s *models.Summary) map[int]float64 {
	out := make(map[int]float64, len(s.Groups))
	for _, g := range s.Groups {
		out[g.Key] = g.Mean
	}
	return out
}

func TestSeasonalMean(t *testing.T) {
	ds := dataset(t, "season,cnt\n1,10\n1,20\n2,5\n")
	s := aggregate(t, models.ViewSeasonal, ds)

	assert.Equal(t, map[int]float64{1: 15.0, 2: 5.0}, means(s))
	assert.Equal(t, "Spring", s.Groups[0].Label)
	assert.Equal(t, "Summer", s.Groups[1].Label)
	assert.Equal(t, 2, s.Groups[0].Rows)
}

func TestSeasonalOrderFollowsCode(t *testing.T) {
	ds := dataset(t, "season,cnt\n4,1\n2,1\n3,1\n1,1\n")
	s := aggregate(t, models.ViewSeasonal, ds)

	labels := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		labels[i] = g.Label
	}
	assert.Equal(t, []string{"Spring", "Summer", "Fall", "Winter"}, labels)
}

func TestMeanSkipsMissingValues(t *testing.T) {
	ds := dataset(t, "season,cnt\n1,10\n1,\n1,30\n")
	s := aggregate(t, models.ViewSeasonal, ds)
	assert.Equal(t, map[int]float64{1: 20.0}, means(s))
}

func TestWorkdayLabelsAndIdempotence(t *testing.T) {
	ds := dataset(t, hourlyCSV)

	first := aggregate(t, models.ViewWorkday, ds)
	second := aggregate(t, models.ViewWorkday, ds)

	assert.Equal(t, first, second)
	require.Len(t, first.Groups, 2)
	assert.Equal(t, "Holiday", first.Groups[0].Label)
	assert.Equal(t, "Working day", first.Groups[1].Label)
	assert.InDelta(t, (16.0+40+430)/3, first.Groups[0].Mean, 1e-9)
}

func TestCasualHourlyOnlyHoursPresent(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	s := aggregate(t, models.ViewCasualHourly, ds)

	assert.Equal(t, "casual", s.ValueColumn)
	assert.Equal(t, map[int]float64{0: 1.5, 1: 9, 7: 25, 23: 2}, means(s))
}

func TestCasualHourlyMissingColumnIsScoped(t *testing.T) {
	ds := dataset(t, "season,workingday,hr,registered,cnt\n1,1,0,10,12\n")
	agg, err := AggregatorFor(models.ViewCasualHourly)
	require.NoError(t, err)

	_, err = Aggregate(agg, ds)
	var mc *MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"casual"}, mc.Columns)
	assert.False(t, IsFatal(err))

	// Other views keep working on the same dataset.
	assert.NotEmpty(t, aggregate(t, models.ViewWorkday, ds).Groups)
}

func TestBucketize(t *testing.T) {
	got, upper := Bucketize([]float64{0, 50, 51, 200, 201, 1000})

	want := []models.Bucket{
		models.BucketLow, models.BucketLow,
		models.BucketMedium, models.BucketMedium,
		models.BucketHigh, models.BucketHigh,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 1000.0, upper)
}

func TestRegisteredClusteringBoundsFollowFilter(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	f := NewFilter(newTestLogger())

	all, _ := f.Apply(ds, nil)
	s := aggregate(t, models.ViewRegisteredClustering, all)
	assert.Equal(t, []float64{50, 200, 1000}, s.Bounds)
	assert.Equal(t, []string{"Low", "Medium", "High"}, []string{s.Groups[0].Label, s.Groups[1].Label, s.Groups[2].Label})

	spring, _ := f.Apply(ds, []models.Season{models.Spring, models.Summer})
	s = aggregate(t, models.ViewRegisteredClustering, spring)
	assert.Equal(t, []float64{50, 200, 190}, s.Bounds)
	require.Len(t, s.Groups, 2, "no High bucket once max drops below 200")
	assert.Equal(t, map[int]float64{0: (16.0 + 40 + 50) / 3, 1: 200}, means(s))
}

func TestSeasonFilterReachesEveryView(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	noFall, _ := NewFilter(newTestLogger()).Apply(ds, []models.Season{1, 2, 4})

	seasonal := aggregate(t, models.ViewSeasonal, noFall)
	_, ok := seasonal.Lookup(int(models.Fall))
	assert.False(t, ok)

	// The only season-3 rows are the hour-7 ones.
	hourly := aggregate(t, models.ViewCasualHourly, noFall)
	_, ok = hourly.Lookup(7)
	assert.False(t, ok)
}

func TestAggregateEmptyDataset(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	empty, _ := NewFilter(newTestLogger()).Apply(ds, []models.Season{9})

	for _, v := range models.Views {
		s := aggregate(t, v, empty)
		assert.Empty(t, s.Groups, v)
	}
}

func TestAggregatorForUnknownView(t *testing.T) {
	_, err := AggregatorFor("temperature")
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.False(t, IsFatal(err))
}

func TestUnknownCodesSortAfterKnownLabels(t *testing.T) {
	ds := dataset(t, "season,cnt\n0,5\n2,1\n7,3\n1,1\n")
	s := aggregate(t, models.ViewSeasonal, ds)

	keys := make([]int, len(s.Groups))
	for i, g := range s.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []int{1, 2, 0, 7}, keys)
	assert.Equal(t, "Season 0", s.Groups[2].Label)

	hourly := aggregate(t, models.ViewCasualHourly, dataset(t, "hr,casual,cnt\n25,1,1\n3,2,2\n-1,3,3\n"))
	keys = keys[:0]
	for _, g := range hourly.Groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []int{3, -1, 25}, keys)
}

func TestNonNumericMetricCellsAreCounted(t *testing.T) {
	ds := dataset(t, "season,cnt\n1,10\n1,abc\n1,\n2,4\n")
	s := aggregate(t, models.ViewSeasonal, ds)

	assert.Equal(t, map[int]float64{1: 10, 2: 4}, means(s))
	assert.Equal(t, 1, s.Skipped, "blank cells are missing, not skipped")
	assert.Equal(t, 1, s.Groups[0].Rows)
}
