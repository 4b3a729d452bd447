package storage

import (
	"context"
	"errors"

	"github.com/go-gota/gota/dataframe"
)

// ErrNotFound is returned when the configured dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// DatasetSource is the interface any dataset backend must satisfy.
// Load returns a fresh table on every call.
type DatasetSource interface {
	Load(ctx context.Context) (dataframe.DataFrame, error)
	Describe() string
	Close() error
}
