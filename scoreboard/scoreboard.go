// Package scoreboard gathers the test results of every framework into
// the database the website is generated from.
package scoreboard

import (
	"errors"

	"github.com/metarex-media/scoreboard-tool/report"
	"github.com/metarex-media/scoreboard-tool/trend"
)

// NoMark is the mark of a framework without passed or failed results
const NoMark = "-"

// Entry is a single framework on the scoreboard
type Entry struct {
	// Key is the short name used in file names, e.g. onnxruntime
	Key      string
	Name     string
	Versions []trend.PackageVersion
	Trend    trend.Trend
	Coverage Coverage
	Ops      []OpStatus
	Tests    []report.TestStatus
}

// Coverage is the result of the latest run of a framework
type Coverage struct {
	Total   int
	Passed  float64
	Failed  float64
	Mark    string
	HasData bool
}

// NewCoverage calculates the coverage of the latest run in the trend.
// A run without passed or failed tests has no data instead of 0%.
func NewCoverage(t trend.Trend) Coverage {
	last, ok := t.Last()
	if !ok {
		return Coverage{Mark: NoMark}
	}

	cov := Coverage{Total: last.Total(), Mark: NoMark}
	passed, err := trend.PassedPercentage(last)
	if err != nil {
		return cov
	}

	cov.HasData = true
	cov.Passed = passed
	cov.Failed = trend.Round2(float64(last.Failed) / float64(cov.Total) * 100)
	cov.Mark = MarkCoverage(passed)

	return cov
}

// MarkCoverage grades the passed percentage from A to F,
// using the whole part of the percentage.
func MarkCoverage(percent float64) string {
	switch p := int(percent); {
	case p >= 90:
		return "A"
	case p >= 80:
		return "B"
	case p >= 70:
		return "C"
	case p >= 60:
		return "D"
	case p >= 50:
		return "E"
	default:
		return "F"
	}
}

// ErrNoFramework is returned when a framework is not in the database
var ErrNoFramework = errors.New("framework not found")
