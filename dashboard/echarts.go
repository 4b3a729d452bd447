package dashboard

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bikeshare-dashboard/models"
)

// missingBar is how echarts spells an empty data slot.
const missingBar = "-"

// RenderChart writes spec as a standalone go-echarts HTML page.
func RenderChart(w io.Writer, spec models.ChartSpec, assetsHost, subtitle string) error {
	x := make([]string, len(spec.Points))
	data := make([]opts.BarData, len(spec.Points))
	for i, p := range spec.Points {
		x[i] = p.Label
		if !p.Present {
			data[i] = opts.BarData{Name: p.Label, Value: missingBar}
			continue
		}
		data[i] = opts.BarData{
			Name:      p.Label,
			Value:     math.Round(p.Value*100) / 100,
			ItemStyle: &opts.ItemStyle{Color: p.Color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: spec.Title, Width: "100%", Height: "520px", AssetsHost: assetsHost}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel, NameLocation: "middle", NameGap: 50}),
	)
	bar.SetXAxis(x).
		AddSeries(spec.YLabel, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render %s chart: %w", spec.View, err)
	}
	return nil
}
