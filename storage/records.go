package storage

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NaNValues are the cell spellings treated as missing.
var NaNValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// loadOptions keeps every column as raw text so previews echo the input;
// numeric columns are converted where they are aggregated.
func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NaNValues),
	}
}

// FromRecords builds a table from a header row followed by data rows.
// A header with no data rows gives a zero-row table with those columns.
func FromRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("records: no header row")
	}
	if len(records) == 1 {
		return headerOnly(records[0])
	}
	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("records: load: %w", df.Err)
	}
	return df, nil
}

// headerOnly builds an empty string column per name; gota refuses to
// load records without data rows.
func headerOnly(header []string) (dataframe.DataFrame, error) {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("records: header: %w", df.Err)
	}
	return df, nil
}
