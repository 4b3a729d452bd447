package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"
)

// CSVSource reads the dataset from a delimited file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for path. The file is opened on each Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load opens and parses the file. A header without rows is a valid, empty table.
func (c *CSVSource) Load(ctx context.Context) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("csv: %q: %w", c.path, ErrNotFound)
		}
		return dataframe.DataFrame{}, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return dataframe.DataFrame{}, fmt.Errorf("csv: %q is a directory: %w", c.path, ErrNotFound)
	}

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("csv: read %q: %w", c.path, err)
	}
	df, err := FromRecords(records)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("csv: parse %q: %w", c.path, err)
	}
	return df, nil
}

// Describe names the file for logs and error pages.
func (c *CSVSource) Describe() string { return c.path }

// Close is a no-op; the file is closed after every Load.
func (c *CSVSource) Close() error { return nil }
