// Package chart builds the chart data of the scoreboard and renders it,
// as static images with go-chart or as interactive pages with go-echarts.
package chart

import (
	"fmt"

	"github.com/metarex-media/scoreboard-tool/scoreboard"
	"github.com/metarex-media/scoreboard-tool/trend"
)

// Kind is the type of chart
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindDonut
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	case KindDonut:
		return "donut"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Role picks the palette colour of a dataset
type Role int

const (
	RolePassed Role = iota
	RoleFailed
)

// Dataset is a single named set of values, with one value per label.
// Donut datasets hold one value per label and are coloured per value.
type Dataset struct {
	Name   string
	Role   Role
	Values []float64
}

// Data is everything needed to draw a chart
type Data struct {
	Kind   Kind
	Title  string
	Labels []trend.Label
	Series []Dataset
	YLabel string
	// YMax is the top of the y axis, 0 lets the renderer choose
	YMax float64
}

// TrendLine is the passed test trend of a framework.
func TrendLine(entry scoreboard.Entry, opts trend.SeriesOptions) (Data, error) {
	series, err := trend.BuildSeries(entry.Trend, opts)
	if err != nil {
		return Data{}, fmt.Errorf("error building the %v trend of %v: %w", opts.Mode, entry.Key, err)
	}

	d := Data{
		Kind:   KindLine,
		Title:  entry.Name,
		Labels: series.Labels,
		Series: []Dataset{{Name: "Passed", Role: RolePassed, Values: series.Values}},
	}

	if opts.Mode == trend.Percentage {
		d.YLabel = "passed unit tests (%)"
		d.YMax = 100
	} else {
		d.YLabel = "passed unit tests"
		d.YMax = headroom(series.Values)
	}

	return d, nil
}

// LatestBars compares the latest passed and failed tests of every framework.
func LatestBars(db scoreboard.Database) Data {
	latest := db.Latest()

	d := Data{
		Kind:   KindBar,
		Labels: make([]trend.Label, len(latest)),
		Series: []Dataset{
			{Name: "Passed", Role: RolePassed, Values: make([]float64, len(latest))},
			{Name: "Failed", Role: RoleFailed, Values: make([]float64, len(latest))},
		},
		YLabel: "unit tests",
	}

	totals := make([]float64, len(latest))
	for i, l := range latest {
		d.Labels[i] = trend.Label{l.Name}
		d.Series[0].Values[i] = float64(l.Passed)
		d.Series[1].Values[i] = float64(l.Failed)
		totals[i] = float64(l.Passed + l.Failed)
	}
	d.YMax = headroom(totals)

	return d
}

// Donut is the split of passed and failed tests in the latest run of a framework.
func Donut(entry scoreboard.Entry) Data {
	last, _ := entry.Trend.Last()

	return Data{
		Kind:   KindDonut,
		Title:  entry.Name,
		Labels: []trend.Label{{"Passed"}, {"Failed"}},
		Series: []Dataset{{Name: entry.Name, Values: []float64{float64(last.Passed), float64(last.Failed)}}},
	}
}

// Validate checks every dataset has a value for each label
func (d Data) Validate() error {
	if len(d.Series) == 0 {
		return fmt.Errorf("the %v chart %q has no datasets", d.Kind, d.Title)
	}

	for _, s := range d.Series {
		if len(s.Values) != len(d.Labels) {
			return fmt.Errorf("the %v chart %q has %v labels but %v values in %q", d.Kind, d.Title, len(d.Labels), len(s.Values), s.Name)
		}
	}

	return nil
}

// headroom gives space above the largest value, with a minimum axis height of 5
func headroom(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	max += max / 6
	if max < 5 {
		max = 5
	}
	return float64(int(max))
}
