package dashboard

import (
	"strconv"

	"bikeshare-dashboard/models"
)

const (
	chartKind    = "bar"
	hoursPerDay  = 24
	fallbackGrey = "#9E9E9E"
)

// viewStyle is the fixed presentation of one view.
// palette is indexed by group key minus keyOffset.
type viewStyle struct {
	title     string
	xLabel    string
	yLabel    string
	palette   []string
	keyOffset int
}

var styles = map[models.View]viewStyle{
	models.ViewSeasonal: {
		title:     "Bike Usage by Season",
		xLabel:    "Season",
		yLabel:    "Average rentals",
		palette:   []string{"#ADD8E6", "#FFD700", "#FF8C00", "#8B4513"},
		keyOffset: 1,
	},
	models.ViewWorkday: {
		title:   "Bike Usage: Working Days vs Holidays",
		xLabel:  "Working day",
		yLabel:  "Average rentals",
		palette: []string{"#FF6347", "#32CD32"},
	},
	models.ViewCasualHourly: {
		title:   "Casual User Usage by Hour",
		xLabel:  "Hour",
		yLabel:  "Average casual rentals",
		palette: []string{"#FF8C00"},
	},
	models.ViewRegisteredClustering: {
		title:   "Registered User Rental Clusters",
		xLabel:  "Registered user group",
		yLabel:  "Average rentals",
		palette: []string{"#3b528b", "#21918c", "#5ec962"},
	},
}

func (s viewStyle) color(key int) string {
	if len(s.palette) == 1 {
		return s.palette[0]
	}
	if i := key - s.keyOffset; i >= 0 && i < len(s.palette) {
		return s.palette[i]
	}
	return fallbackGrey
}

// Title returns the chart title of a view.
func Title(view models.View) string {
	return styles[view].title
}

// BuildChart turns an aggregator summary into a chart description.
// The hourly view always enumerates hours 0-23; hours without data are
// marked not present.
func BuildChart(summary *models.Summary) models.ChartSpec {
	style := styles[summary.View]
	spec := models.ChartSpec{
		View:   summary.View,
		Kind:   chartKind,
		Title:  style.title,
		XLabel: style.xLabel,
		YLabel: style.yLabel,
		Points: []models.ChartPoint{},
	}

	if summary.View == models.ViewCasualHourly {
		for h := 0; h < hoursPerDay; h++ {
			p := models.ChartPoint{Label: strconv.Itoa(h), Color: style.color(h)}
			if g, ok := summary.Lookup(h); ok {
				p.Value, p.Present = g.Mean, true
			}
			spec.Points = append(spec.Points, p)
		}
		for _, g := range summary.Groups {
			if g.Key < 0 || g.Key >= hoursPerDay {
				spec.Points = append(spec.Points, point(style, g))
			}
		}
		return spec
	}

	for _, g := range summary.Groups {
		spec.Points = append(spec.Points, point(style, g))
	}
	return spec
}

func point(style viewStyle, g models.Group) models.ChartPoint {
	return models.ChartPoint{Label: g.Label, Value: g.Mean, Present: true, Color: style.color(g.Key)}
}
