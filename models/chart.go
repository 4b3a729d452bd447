package models

// ChartPoint is one bar of a chart.
// Present is false for categories the axis enumerates but the data lacks.
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
	Color   string  `json:"color"`
}

// ChartSpec is a renderer-agnostic description of a bar chart.
type ChartSpec struct {
	View   View         `json:"view"`
	Kind   string       `json:"kind"`
	Title  string       `json:"title"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Points []ChartPoint `json:"points"`
}
