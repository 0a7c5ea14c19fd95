package trend

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DetailsWindow is the count of recent runs shown on a details trend chart.
const DetailsWindow = 15

// Label is the x axis text for a single point.
// It has one line for plain labels, and multiple lines when it is
// annotated with package versions.
type Label []string

// String joins the lines, version lines carry their own leading newline
func (l Label) String() string {
	return strings.Join(l, "")
}

// Text returns the label as display lines, without the newline prefixes.
func (l Label) Text() []string {
	out := make([]string, len(l))
	for i, line := range l {
		out[i] = strings.TrimPrefix(line, "\n")
	}
	return out
}

// MultiLine reports if the label was annotated
func (l Label) MultiLine() bool {
	return len(l) > 1
}

// BuildLabels generates a label for every summary in the trend.
// The label is the date of the run, if annotateVersions is true then the label
// also contains a line per package version. e.g. "\nonnx: 1.5.0"
func BuildLabels(t Trend, annotateVersions bool) ([]Label, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	labels := make([]Label, len(t))
	for i, s := range t {
		if !annotateVersions || len(s.Versions) == 0 {
			labels[i] = Label{s.DateLabel()}
			continue
		}

		label := make(Label, 0, len(s.Versions)+1)
		label = append(label, s.DateLabel())
		for _, pkg := range s.Versions {
			label = append(label, fmt.Sprintf("\n%s: %s", pkg.Name, pkg.Version))
		}
		labels[i] = label
	}

	return labels, nil
}

// BuildPassedCounts returns the passed count of each summary.
func BuildPassedCounts(t Trend) ([]int, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	counts := make([]int, len(t))
	for i, s := range t {
		counts[i] = s.Passed
	}

	return counts, nil
}

// BuildPassedPercentage returns the percentage of passed tests of each
// summary, to two decimal places. An InvalidInputError is returned for the first
// summary with no passed or failed tests.
func BuildPassedPercentage(t Trend) ([]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	percents := make([]float64, len(t))
	for i, s := range t {
		p, err := passedPercentage(i, s)
		if err != nil {
			return nil, err
		}
		percents[i] = p
	}

	return percents, nil
}

// PassedPercentage is the percentage of passed tests for a single summary.
func PassedPercentage(s RunSummary) (float64, error) {
	if err := s.Validate(-1); err != nil {
		return 0, err
	}
	return passedPercentage(-1, s)
}

func passedPercentage(index int, s RunSummary) (float64, error) {
	total := s.Total()
	if total == 0 {
		return 0, &InvalidInputError{Index: index, Reason: "passed and failed are both 0, the passed percentage is undefined"}
	}

	return Round2(float64(s.Passed) / float64(total) * 100), nil
}

// Round2 rounds to two decimal places, halves are rounded away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// TruncateToLast returns a copy of the last n elements of s. If s has n elements
// or fewer, a copy of all of s is returned.
func TruncateToLast[T any](s []T, n int) []T {
	if n <= 0 {
		return []T{}
	}

	start := 0
	if len(s) > n {
		start = len(s) - n
	}

	out := make([]T, len(s)-start)
	copy(out, s[start:])

	return out
}

// PrependZeroLabelPad adds an empty label and a zero value to the start
// of the labels and values, so the charted line starts at the origin.
// The padded point is not a result.
func PrependZeroLabelPad(labels []Label, values []float64) ([]Label, []float64) {
	padLabels := make([]Label, 0, len(labels)+1)
	padLabels = append(padLabels, Label{""})
	padLabels = append(padLabels, labels...)

	padValues := make([]float64, 0, len(values)+1)
	padValues = append(padValues, 0)
	padValues = append(padValues, values...)

	return padLabels, padValues
}

// Mode is the value charted for each run
type Mode int

const (
	// Counts charts the passed test count
	Counts Mode = iota
	// Percentage charts the percentage of passed tests
	Percentage
)

func (m Mode) String() string {
	switch m {
	case Counts:
		return "passed"
	case Percentage:
		return "passed %"
	default:
		return "unknown"
	}
}

// SeriesOptions controls how a trend is turned into a series
type SeriesOptions struct {
	Mode             Mode
	AnnotateVersions bool
	// Window is the count of most recent runs to keep, 0 keeps everything
	Window int
	// Pad adds the zero origin point to the start
	Pad bool
}

// DetailsSeries are the options of the framework details chart.
func DetailsSeries() SeriesOptions {
	return SeriesOptions{Mode: Percentage, AnnotateVersions: true, Window: DetailsWindow, Pad: true}
}

// PassedSeries are the options of the plain passed count chart.
func PassedSeries() SeriesOptions {
	return SeriesOptions{Mode: Counts, Pad: true}
}

// Series is a pair of label and value slices with the same length
type Series struct {
	Labels []Label   `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
	Padded bool      `json:"padded" yaml:"padded"`
}

// Len is the number of points including any padding
func (s Series) Len() int {
	return len(s.Values)
}

// Points returns the labels and values of the runs, without the padded origin
func (s Series) Points() ([]Label, []float64) {
	if s.Padded && len(s.Values) > 0 {
		return s.Labels[1:], s.Values[1:]
	}
	return s.Labels, s.Values
}

// BuildSeries converts a trend into a series with the given options.
func BuildSeries(t Trend, o SeriesOptions) (Series, error) {
	labels, err := BuildLabels(t, o.AnnotateVersions)
	if err != nil {
		return Series{}, err
	}

	var values []float64
	switch o.Mode {
	case Percentage:
		// only the visible window needs a defined percentage
		visible := t
		if o.Window > 0 {
			visible = TruncateToLast(t, o.Window)
		}
		values, err = BuildPassedPercentage(visible)
		if err != nil {
			var invalid *InvalidInputError
			if errors.As(err, &invalid) {
				invalid.Index += len(t) - len(visible)
			}
			return Series{}, err
		}
	case Counts:
		counts, err := BuildPassedCounts(t)
		if err != nil {
			return Series{}, err
		}
		values = make([]float64, len(counts))
		for i, c := range counts {
			values[i] = float64(c)
		}
	default:
		return Series{}, fmt.Errorf("unknown series mode %d", o.Mode)
	}

	if o.Window > 0 {
		labels = TruncateToLast(labels, o.Window)
		values = TruncateToLast(values, o.Window)
	}

	series := Series{Labels: labels, Values: values}
	if o.Pad {
		series.Labels, series.Values = PrependZeroLabelPad(labels, values)
		series.Padded = true
	}

	return series, nil
}
