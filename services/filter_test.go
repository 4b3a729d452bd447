package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-dashboard/models"
)

func TestDropIncompleteRemovesMissingSeasonOrWeather(t *testing.T) {
	ds := dataset(t, `
season,weathersit,cnt
1,1,10
,1,20
2,NA,30
2,2,40
`)
	out := NewFilter(newTestLogger()).DropIncomplete(ds)

	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, []string{"10", "40"}, out.Frame.Col("cnt").Records())
	assert.Equal(t, 4, ds.Rows(), "input dataset is not modified")
}

func TestFilterWithoutSeasonColumnsIsNoop(t *testing.T) {
	ds := dataset(t, "hr,casual,cnt\n0,1,2\n1,,4\n")
	f := NewFilter(newTestLogger())

	out, options := f.Apply(ds, []models.Season{models.Spring})

	assert.Equal(t, 2, out.Rows())
	assert.Empty(t, options)
}

func TestSeasonOptionsAreDistinctAndSorted(t *testing.T) {
	ds := dataset(t, "season,cnt\n3,1\n1,1\n3,1\n1.0,1\n")
	assert.Equal(t, []models.Season{models.Spring, models.Fall}, SeasonOptions(ds))
}

func TestSelectSeasons(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	f := NewFilter(newTestLogger())

	all, options := f.Apply(ds, nil)
	assert.Equal(t, 6, all.Rows(), "row with missing weathersit is dropped")
	assert.Equal(t, []models.Season{1, 2, 3, 4}, options)

	some, _ := f.Apply(ds, []models.Season{models.Summer, models.Winter})
	assert.Equal(t, []string{"2", "2", "4"}, some.Frame.Col("season").Records())

	none, _ := f.Apply(ds, []models.Season{models.Season(9)})
	assert.Equal(t, 0, none.Rows())
}

func TestFilterIsIdempotent(t *testing.T) {
	ds := dataset(t, hourlyCSV)
	f := NewFilter(newTestLogger())
	sel := []models.Season{models.Spring, models.Fall}

	once, _ := f.Apply(ds, sel)
	twice, _ := f.Apply(once, sel)

	assert.Equal(t, once.Frame.Records(), twice.Frame.Records())
}

func TestSeasonCodesOutsideIntRangeAreInvalid(t *testing.T) {
	ds := dataset(t, "season,cnt\n1e30,1\n-1e30,1\n2,1\n")
	assert.Equal(t, []models.Season{models.Summer}, SeasonOptions(ds))

	s := aggregate(t, models.ViewSeasonal, ds)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, 2, s.Groups[0].Key)
}
