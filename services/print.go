package services

import (
	"fmt"
	"io"
	"strings"

	"bikeshare-dashboard/models"
)

const barWidth = 40

// Print writes a coloured terminal report of r.
func Print(w io.Writer, view models.View, r *Result) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🚲 BIKE SHARING: %s\033[0m\n", strings.ToUpper(view.DisplayName()))
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Source        : \033[1m%s\033[0m\n", r.Source)
	fmt.Fprintf(w, "  Ride count    : \033[1m%s\033[0m\n", r.MetricColumn)
	fmt.Fprintf(w, "  Rows (filter) : \033[1m%d\033[0m\n", r.Rows)
	fmt.Fprintf(w, "  Seasons       : \033[1m%s\033[0m\n", seasonList(r.Selected))
	fmt.Fprintln(w)

	if r.ViewErr != nil {
		fmt.Fprintf(w, "  \033[1;31m%v\033[0m\n", r.ViewErr)
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Fprintf(w, "\033[1;33m  Mean %s by group\033[0m\n", r.Summary.ValueColumn)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Summary.Groups) == 0 {
		fmt.Fprintf(w, "  No rows match the current filter\n")
	}
	if r.Summary.Skipped > 0 {
		fmt.Fprintf(w, "  \033[33m%d non-numeric %s cells skipped\033[0m\n", r.Summary.Skipped, r.Summary.ValueColumn)
	}

	top := 0.0
	for _, g := range r.Summary.Groups {
		top = max(top, g.Mean)
	}
	for _, g := range r.Summary.Groups {
		n := 0
		if top > 0 {
			n = max(int(g.Mean/top*barWidth), 0)
		}
		fmt.Fprintf(w, "  %-14s %s \033[1;32m%.2f\033[0m (%d rows)\n",
			truncate(g.Label, 14), strings.Repeat("█", n), g.Mean, g.Rows)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func seasonList(seasons []models.Season) string {
	if len(seasons) == 0 {
		return "n/a"
	}
	names := make([]string, len(seasons))
	for i, s := range seasons {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
