package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"bikeshare-dashboard/models"
)

// groupKeyColumn holds the canonical integer key each aggregator groups by.
const groupKeyColumn = "group_key"

// Aggregator reduces a filtered dataset to one summary table.
type Aggregator interface {
	View() models.View
	// Required lists the columns the view needs besides the ride-count column.
	Required() []string
	reduce(ds models.Dataset) (*models.Summary, error)
}

var aggregators = map[models.View]Aggregator{
	models.ViewSeasonal:             seasonalUsage{},
	models.ViewWorkday:              workdayUsage{},
	models.ViewCasualHourly:         casualHourly{},
	models.ViewRegisteredClustering: registeredClustering{},
}

// AggregatorFor returns the aggregator behind a view.
func AggregatorFor(view models.View) (Aggregator, error) {
	agg, ok := aggregators[view]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	return agg, nil
}

// Aggregate checks the view's required columns, then runs it.
// A missing column yields a *MissingColumnsError and no summary.
func Aggregate(agg Aggregator, ds models.Dataset) (*models.Summary, error) {
	missing := lo.Filter(agg.Required(), func(c string, _ int) bool { return !ds.HasColumn(c) })
	if len(missing) > 0 {
		return nil, &MissingColumnsError{View: agg.View(), Columns: missing}
	}
	return agg.reduce(ds)
}

type seasonalUsage struct{}

func (seasonalUsage) View() models.View  { return models.ViewSeasonal }
func (seasonalUsage) Required() []string { return []string{models.ColSeason} }

func (a seasonalUsage) reduce(ds models.Dataset) (*models.Summary, error) {
	return meanByCode(ds, a.View(), models.ColSeason, ds.MetricColumn, func(code int) string {
		return models.Season(code).String()
	}, codeRange(int(models.Spring), int(models.Winter)))
}

type workdayUsage struct{}

func (workdayUsage) View() models.View  { return models.ViewWorkday }
func (workdayUsage) Required() []string { return []string{models.ColWorkingDay} }

func (a workdayUsage) reduce(ds models.Dataset) (*models.Summary, error) {
	return meanByCode(ds, a.View(), models.ColWorkingDay, ds.MetricColumn, WorkdayLabel, codeRange(0, 1))
}

// WorkdayLabel names a workingday code.
func WorkdayLabel(code int) string {
	switch code {
	case 0:
		return "Holiday"
	case 1:
		return "Working day"
	default:
		return "workingday=" + strconv.Itoa(code)
	}
}

type casualHourly struct{}

func (casualHourly) View() models.View  { return models.ViewCasualHourly }
func (casualHourly) Required() []string { return []string{models.ColCasual, models.ColHour} }

func (a casualHourly) reduce(ds models.Dataset) (*models.Summary, error) {
	return meanByCode(ds, a.View(), models.ColHour, models.ColCasual, strconv.Itoa, codeRange(0, 23))
}

type registeredClustering struct{}

func (registeredClustering) View() models.View  { return models.ViewRegisteredClustering }
func (registeredClustering) Required() []string { return []string{models.ColRegistered} }

func (a registeredClustering) reduce(ds models.Dataset) (*models.Summary, error) {
	values := ds.Frame.Col(models.ColRegistered).Float()
	buckets, upper := Bucketize(values)

	keys := make([]string, len(buckets))
	for i, b := range buckets {
		if idx := lo.IndexOf(models.Buckets, b); idx >= 0 {
			keys[i] = strconv.Itoa(idx)
		}
	}

	summary, err := groupMean(ds.Frame, keys, ds.MetricColumn, func(idx int) string {
		return string(models.Buckets[idx])
	}, codeRange(0, len(models.Buckets)-1))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", a.View(), err)
	}
	summary.View = a.View()
	if ds.Rows() > 0 && !math.IsNaN(upper) {
		summary.Bounds = []float64{models.LowUpperBound, models.MediumUpperBound, upper}
	}
	return summary, nil
}

// Bucketize assigns each registered count to a volume bucket.
// Boundaries are (-inf,50], (50,200] and (200,max] where max is taken from values.
// Missing values get an empty bucket. The returned upper bound is NaN when no value is present.
func Bucketize(values []float64) ([]models.Bucket, float64) {
	present := lo.Filter(values, func(v float64, _ int) bool { return !math.IsNaN(v) })
	upper := math.NaN()
	if len(present) > 0 {
		upper = floats.Max(present)
	}

	out := make([]models.Bucket, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case v <= models.LowUpperBound:
			out[i] = models.BucketLow
		case v <= models.MediumUpperBound:
			out[i] = models.BucketMedium
		case v <= upper:
			out[i] = models.BucketHigh
		}
	}
	return out, upper
}

// codeRange reports whether a code lies in [lo, hi].
func codeRange(lo, hi int) func(int) bool {
	return func(code int) bool { return code >= lo && code <= hi }
}

// meanByCode groups rows by the integer code in keyCol and averages valueCol.
func meanByCode(ds models.Dataset, view models.View, keyCol, valueCol string, label func(int) string, known func(int) bool) (*models.Summary, error) {
	codes, valid := intCodes(ds.Frame.Col(keyCol))
	keys := make([]string, len(codes))
	for i, c := range codes {
		if valid[i] {
			keys[i] = strconv.Itoa(c)
		}
	}

	summary, err := groupMean(ds.Frame, keys, valueCol, label, known)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", view, err)
	}
	summary.View = view
	return summary, nil
}

// groupMean averages valueCol per key, using gota's GroupBy/Aggregation.
// keys is aligned with the rows of df; an empty key drops the row, as does a
// missing or non-numeric value. Groups come back with known codes first, each
// part sorted by key.
func groupMean(df dataframe.DataFrame, keys []string, valueCol string, label func(int) string, known func(int) bool) (*models.Summary, error) {
	summary := &models.Summary{ValueColumn: valueCol, Groups: []models.Group{}}

	col := df.Col(valueCol)
	values := col.Float()
	missing := col.IsNaN()
	keep := make([]bool, len(keys))
	rows := make(map[string]int)
	for i, k := range keys {
		switch {
		case k == "" || missing[i]:
		case math.IsNaN(values[i]):
			summary.Skipped++
		default:
			keep[i] = true
			rows[k]++
		}
	}
	if len(rows) == 0 {
		return summary, nil
	}

	grouped := df.
		Mutate(series.New(keys, series.String, groupKeyColumn)).
		Mutate(series.New(values, series.Float, valueCol)).
		Select([]string{groupKeyColumn, valueCol}).
		Subset(keep)
	if grouped.Err != nil {
		return nil, fmt.Errorf("prepare groups: %w", grouped.Err)
	}

	agg := grouped.GroupBy(groupKeyColumn).
		Aggregation([]dataframe.AggregationType{dataframe.Aggregation_MEAN}, []string{valueCol})
	if agg.Err != nil {
		return nil, fmt.Errorf("group mean of %s: %w", valueCol, agg.Err)
	}

	meanCol, ok := lo.Find(agg.Names(), func(n string) bool { return n != groupKeyColumn })
	if !ok {
		return nil, fmt.Errorf("group mean of %s: no aggregate column", valueCol)
	}

	keyCells := agg.Col(groupKeyColumn).Records()
	means := agg.Col(meanCol).Float()
	for i, cell := range keyCells {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("group mean of %s: bad key %q: %w", valueCol, cell, err)
		}
		key := int(f)
		summary.Groups = append(summary.Groups, models.Group{
			Key:   key,
			Label: label(key),
			Mean:  means[i],
			Rows:  rows[strconv.Itoa(key)],
		})
	}

	sort.Slice(summary.Groups, func(i, j int) bool {
		a, b := summary.Groups[i].Key, summary.Groups[j].Key
		if known(a) != known(b) {
			return known(a)
		}
		return a < b
	})
	return summary, nil
}
