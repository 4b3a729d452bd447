package services

import (
	"context"
	"fmt"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/utils"
)

// Request is one user interaction: a view and a season selection.
type Request struct {
	View    models.View
	Seasons []models.Season
}

// Result is everything the UI shell needs to draw one page.
type Result struct {
	Source        string
	MetricColumn  string
	Rows          int
	SeasonOptions []models.Season
	Selected      []models.Season
	Preview       models.Preview
	Summary       *models.Summary
	// ViewErr is a view-scoped failure; the rest of the result stays usable.
	ViewErr error
}

// Generator runs the load, filter, aggregate pipeline for each request.
type Generator struct {
	loader      *Loader
	filter      *Filter
	previewRows int
	describe    string
	logger      *utils.Logger
}

// NewGenerator wires the pipeline stages together.
func NewGenerator(loader *Loader, filter *Filter, previewRows int, logger *utils.Logger) *Generator {
	return &Generator{
		loader:      loader,
		filter:      filter,
		previewRows: previewRows,
		describe:    loader.source.Describe(),
		logger:      logger,
	}
}

// Run reloads the dataset and produces the result for req.
// A returned error is fatal for the run; view-scoped problems land in Result.ViewErr.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	agg, err := AggregatorFor(req.View)
	if err != nil {
		return nil, err
	}

	res, filtered, err := g.prepare(ctx, req.Seasons)
	if err != nil {
		return nil, err
	}

	summary, err := Aggregate(agg, filtered)
	switch {
	case IsScoped(err):
		g.logger.Warn("[report] %v", err)
		res.ViewErr = err
	case err != nil:
		return nil, fmt.Errorf("report %s: %w", req.View, err)
	default:
		res.Summary = summary
		if summary.Skipped > 0 {
			g.logger.Warn("[report] %s: skipped %d non-numeric %s cells", req.View, summary.Skipped, summary.ValueColumn)
		}
		g.logger.Debug("[report] %s: %d groups over %d rows", req.View, len(summary.Groups), filtered.Rows())
	}
	return res, nil
}

// Preview runs the load and filter stages only.
func (g *Generator) Preview(ctx context.Context, seasons []models.Season) (*Result, error) {
	res, _, err := g.prepare(ctx, seasons)
	return res, err
}

func (g *Generator) prepare(ctx context.Context, seasons []models.Season) (*Result, models.Dataset, error) {
	ds, err := g.loader.Load(ctx)
	if err != nil {
		g.logger.Error("[report] %v", err)
		return nil, models.Dataset{}, err
	}

	filtered, options := g.filter.Apply(ds, seasons)
	res := &Result{
		Source:        g.describe,
		MetricColumn:  ds.MetricColumn,
		Rows:          filtered.Rows(),
		SeasonOptions: options,
		Selected:      seasons,
		Preview:       Head(filtered, g.previewRows),
	}
	if len(res.Selected) == 0 {
		res.Selected = options
	}
	return res, filtered, nil
}

// Head returns the first n rows of the dataset as raw text, in table order.
func Head(ds models.Dataset, n int) models.Preview {
	n = max(min(n, ds.Rows()), 0)
	p := models.Preview{Columns: ds.Frame.Names(), Rows: [][]string{}}
	if n == 0 {
		return p
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	records := ds.Frame.Subset(idx).Records()
	if len(records) > 1 {
		p.Rows = records[1:]
	}
	return p
}
