package services

import (
	"errors"
	"fmt"
	"strings"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/storage"
)

var (
	// ErrDatasetNotFound means the configured file or table does not exist.
	ErrDatasetNotFound = storage.ErrNotFound
	// ErrMissingMetricColumn means none of models.MetricAliases is present.
	ErrMissingMetricColumn = errors.New("no ride-count column (cnt, cnt_day or cnt_hour) in dataset")
	// ErrUnknownView is returned for a view identifier the dashboard does not serve.
	ErrUnknownView = errors.New("unknown view")
)

// MissingColumnsError reports the columns a view needs but the dataset lacks.
// It only affects the view that raised it.
type MissingColumnsError struct {
	View    models.View
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("view %s: column %s not found in dataset",
		e.View.DisplayName(), strings.Join(quoted, " and "))
}

// IsScoped reports whether err only affects the current view.
func IsScoped(err error) bool {
	var mc *MissingColumnsError
	return errors.As(err, &mc)
}

// IsFatal reports whether err ends the current run.
// Every failure that is neither view-scoped nor an unknown view is fatal.
func IsFatal(err error) bool {
	return err != nil && !IsScoped(err) && !errors.Is(err, ErrUnknownView)
}
