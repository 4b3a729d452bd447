package services

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"
	"github.com/samber/lo"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/utils"
)

// Filter narrows a dataset to the rows used by the aggregators.
type Filter struct {
	logger *utils.Logger
}

// NewFilter creates a Filter with the given logger.
func NewFilter(logger *utils.Logger) *Filter {
	return &Filter{logger: logger}
}

// Apply drops incomplete rows, then keeps the selected seasons.
// It returns the narrowed dataset and the season options found after the drop.
// An empty selection keeps every season.
func (f *Filter) Apply(ds models.Dataset, selected []models.Season) (models.Dataset, []models.Season) {
	complete := f.DropIncomplete(ds)
	options := SeasonOptions(complete)
	return f.SelectSeasons(complete, selected), options
}

// DropIncomplete removes rows with a missing season or weathersit.
// Columns the dataset lacks are ignored.
func (f *Filter) DropIncomplete(ds models.Dataset) models.Dataset {
	required := lo.Filter([]string{models.ColSeason, models.ColWeatherSit}, func(c string, _ int) bool {
		return ds.HasColumn(c)
	})
	if len(required) == 0 || ds.Rows() == 0 {
		return ds
	}

	keep := make([]bool, ds.Rows())
	for i := range keep {
		keep[i] = true
	}
	for _, col := range required {
		for i, missing := range ds.Frame.Col(col).IsNaN() {
			if missing {
				keep[i] = false
			}
		}
	}

	out := ds.WithFrame(ds.Frame.Subset(keep))
	if dropped := ds.Rows() - out.Rows(); dropped > 0 {
		f.logger.Debug("[filter] Dropped %d incomplete rows (%d remain)", dropped, out.Rows())
	}
	return out
}

// SeasonOptions returns the distinct season codes present, ascending.
func SeasonOptions(ds models.Dataset) []models.Season {
	if !ds.HasColumn(models.ColSeason) {
		return nil
	}
	codes, valid := intCodes(ds.Frame.Col(models.ColSeason))
	present := lo.Uniq(lo.FilterMap(codes, func(c int, i int) (models.Season, bool) {
		return models.Season(c), valid[i]
	}))
	sort.Slice(present, func(i, j int) bool { return present[i] < present[j] })
	return present
}

// SelectSeasons keeps rows whose season is in selected.
// A dataset without a season column, or an empty selection, passes through.
func (f *Filter) SelectSeasons(ds models.Dataset, selected []models.Season) models.Dataset {
	if len(selected) == 0 || !ds.HasColumn(models.ColSeason) || ds.Rows() == 0 {
		return ds
	}

	codes, valid := intCodes(ds.Frame.Col(models.ColSeason))
	keep := make([]bool, len(codes))
	for i, c := range codes {
		keep[i] = valid[i] && lo.Contains(selected, models.Season(c))
	}
	return ds.WithFrame(ds.Frame.Subset(keep))
}

// intCodes converts a categorical column to integer codes.
// Missing, non-numeric, fractional and out of int32 range cells are marked invalid.
func intCodes(s series.Series) ([]int, []bool) {
	floats := s.Float()
	codes := make([]int, len(floats))
	valid := make([]bool, len(floats))
	for i, f := range floats {
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 || f != math.Trunc(f) {
			continue
		}
		codes[i] = int(f)
		valid[i] = true
	}
	return codes, valid
}
