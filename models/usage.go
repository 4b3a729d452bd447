package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Column names of the bike-sharing table.
const (
	ColSeason            = "season"
	ColWorkingDay        = "workingday"
	ColWeatherSit        = "weathersit"
	ColHour              = "hr"
	ColCasual            = "casual"
	ColRegistered        = "registered"
	ColRegisteredCluster = "registered_cluster"
)

// MetricAliases lists the accepted ride-count column names in priority order.
var MetricAliases = []string{"cnt", "cnt_day", "cnt_hour"}

// Dataset is one loaded table together with its resolved ride-count column.
// Stages derive new frames from it and never modify it in place.
type Dataset struct {
	Frame        dataframe.DataFrame
	MetricColumn string
}

// HasColumn reports whether the table carries the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Frame.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// Rows returns the number of rows in the table.
func (d Dataset) Rows() int { return d.Frame.Nrow() }

// WithFrame returns a copy of d backed by a different frame.
func (d Dataset) WithFrame(df dataframe.DataFrame) Dataset {
	return Dataset{Frame: df, MetricColumn: d.MetricColumn}
}

// Season is the 1-4 season code of the dataset.
type Season int

const (
	Spring Season = 1
	Summer Season = 2
	Fall   Season = 3
	Winter Season = 4
)

var seasonNames = map[Season]string{
	Spring: "Spring",
	Summer: "Summer",
	Fall:   "Fall",
	Winter: "Winter",
}

func (s Season) String() string {
	if n, ok := seasonNames[s]; ok {
		return n
	}
	return "Season " + strconv.Itoa(int(s))
}

// ParseSeasons reads season codes from one or more comma separated lists,
// e.g. ["1,3"] or ["1", "3"]. Blank entries are ignored.
func ParseSeasons(lists ...string) ([]Season, error) {
	var out []Season
	for _, list := range lists {
		for _, part := range strings.Split(list, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			code, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid season %q", part)
			}
			out = append(out, Season(code))
		}
	}
	return out, nil
}

// Bucket is the registered-user volume class.
type Bucket string

const (
	BucketLow    Bucket = "Low"
	BucketMedium Bucket = "Medium"
	BucketHigh   Bucket = "High"
)

// Buckets is the fixed display order of the registered clusters.
var Buckets = []Bucket{BucketLow, BucketMedium, BucketHigh}

// Upper bounds (inclusive) of the Low and Medium buckets.
const (
	LowUpperBound    = 50
	MediumUpperBound = 200
)

// Group is one row of an aggregator's summary table.
type Group struct {
	Key   int     `json:"key"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Rows  int     `json:"rows"`
}

// Summary is the output of one aggregator run.
type Summary struct {
	View        View    `json:"view"`
	ValueColumn string  `json:"value_column"`
	Groups      []Group `json:"groups"`
	// Bounds holds the bucket upper bounds of the clustering view.
	Bounds []float64 `json:"bounds,omitempty"`
	// Skipped counts rows left out because the value cell was not a number.
	Skipped int `json:"skipped,omitempty"`
}

// Lookup returns the group with the given key.
func (s *Summary) Lookup(key int) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Preview is the first rows of the current table, as raw cell text.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
