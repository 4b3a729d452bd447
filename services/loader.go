package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/storage"
	"bikeshare-dashboard/utils"
)

// Loader reads the dataset and resolves its ride-count column.
type Loader struct {
	source storage.DatasetSource
	logger *utils.Logger
}

// NewLoader creates a Loader reading from source.
func NewLoader(source storage.DatasetSource, logger *utils.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load returns a freshly read dataset. Every error it returns is fatal.
func (l *Loader) Load(ctx context.Context) (models.Dataset, error) {
	df, err := l.source.Load(ctx)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("loader: %w", err)
	}

	metric, err := ResolveMetric(df.Names())
	if err != nil {
		return models.Dataset{}, fmt.Errorf("loader: %s: %w", l.source.Describe(), err)
	}

	l.logger.Debug("[loader] Loaded %d rows x %d columns from %s (metric: %s)",
		df.Nrow(), df.Ncol(), l.source.Describe(), metric)
	return models.Dataset{Frame: df, MetricColumn: metric}, nil
}

// ResolveMetric picks the first alias of models.MetricAliases present in columns.
func ResolveMetric(columns []string) (string, error) {
	for _, alias := range models.MetricAliases {
		if lo.Contains(columns, alias) {
			return alias, nil
		}
	}
	return "", ErrMissingMetricColumn
}
