package models

import "fmt"

// View identifies one of the dashboard's charts.
type View string

const (
	ViewSeasonal             View = "seasonal"
	ViewWorkday              View = "workday"
	ViewCasualHourly         View = "casual-hourly"
	ViewRegisteredClustering View = "registered-clustering"
)

// Views lists every view in sidebar order.
var Views = []View{ViewSeasonal, ViewWorkday, ViewCasualHourly, ViewRegisteredClustering}

var viewNames = map[View]string{
	ViewSeasonal:             "Seasonal",
	ViewWorkday:              "Workday",
	ViewCasualHourly:         "CasualHourly",
	ViewRegisteredClustering: "RegisteredClustering",
}

// DisplayName is the label shown in the navigation menu.
func (v View) DisplayName() string {
	if n, ok := viewNames[v]; ok {
		return n
	}
	return string(v)
}

// ParseView accepts either the identifier or the display name.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if s == string(v) || s == v.DisplayName() {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}
