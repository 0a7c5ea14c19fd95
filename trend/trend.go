// Package trend handles the history of test run summaries, and the
// conversion of that history into chart ready series.
package trend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of the RunSummary date,
// e.g. "08/01/2019 20:40:05"
const DateLayout = "01/02/2006 15:04:05"

// RunSummary is the pass, fail and skip count of a single test run.
// The json keys are alphabetical so saved trends keep a stable key order.
type RunSummary struct {
	Date     string           `json:"date" yaml:"date"`
	Failed   int              `json:"failed" yaml:"failed"`
	Passed   int              `json:"passed" yaml:"passed"`
	Skipped  int              `json:"skipped" yaml:"skipped"`
	Versions []PackageVersion `json:"versions,omitempty" yaml:"versions,omitempty"`
}

// PackageVersion is a package that was installed during the test run.
type PackageVersion struct {
	Name    string  `json:"name" yaml:"name"`
	Version Version `json:"version" yaml:"version"`
}

// Version is a package version, it can be given as a json string or number
// e.g. "1.5.0" or 1.2. Numbers keep the text they were written with.
type Version string

// UnmarshalJSON accepts both string and number versions
func (v *Version) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("version %s is not a string or a number", string(b))
	}
	*v = Version(num.String())

	return nil
}

// UnmarshalJSON handles the "package_versions" key written by older collectors
// as well as "versions".
func (r *RunSummary) UnmarshalJSON(b []byte) error {
	// alias prevents recursion
	type plain RunSummary
	var body struct {
		plain
		PackageVersions []PackageVersion `json:"package_versions"`
	}

	if err := json.Unmarshal(b, &body); err != nil {
		return err
	}

	*r = RunSummary(body.plain)
	if len(r.Versions) == 0 && len(body.PackageVersions) > 0 {
		r.Versions = body.PackageVersions
	}

	return nil
}

// DateLabel returns the calendar date part of the summary date,
// the text before the first space.
func (r RunSummary) DateLabel() string {
	date, _, _ := strings.Cut(r.Date, " ")
	return date
}

// Time parses the summary date
func (r RunSummary) Time() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// Total is the count of passed and failed tests. Skipped tests are not included.
func (r RunSummary) Total() int {
	return r.Passed + r.Failed
}

// Validate checks the fields required to chart the summary.
// index is the position of the summary in its trend, and is only used
// for the error message.
func (r RunSummary) Validate(index int) error {
	switch {
	case strings.TrimSpace(r.Date) == "":
		return &MalformedSummaryError{Index: index, Field: "date", Reason: "missing date"}
	case r.Passed < 0:
		return &MalformedSummaryError{Index: index, Field: "passed", Reason: fmt.Sprintf("negative count %d", r.Passed)}
	case r.Failed < 0:
		return &MalformedSummaryError{Index: index, Field: "failed", Reason: fmt.Sprintf("negative count %d", r.Failed)}
	case r.Skipped < 0:
		return &MalformedSummaryError{Index: index, Field: "skipped", Reason: fmt.Sprintf("negative count %d", r.Skipped)}
	}

	for _, v := range r.Versions {
		if v.Name == "" {
			return &MalformedSummaryError{Index: index, Field: "versions", Reason: "package version without a name"}
		}
	}

	return nil
}

// sameResult reports whether two summaries differ only by date.
func (r RunSummary) sameResult(other RunSummary) bool {
	if r.Passed != other.Passed || r.Failed != other.Failed || r.Skipped != other.Skipped {
		return false
	}

	if len(r.Versions) != len(other.Versions) {
		return false
	}

	for i, v := range r.Versions {
		if v != other.Versions[i] {
			return false
		}
	}

	return true
}

// Trend is a chronological list of run summaries, the oldest first.
type Trend []RunSummary

// Validate checks every summary in the trend
func (t Trend) Validate() error {
	for i, s := range t {
		if err := s.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Last returns the most recent summary, false is returned
// if the trend is empty.
func (t Trend) Last() (RunSummary, bool) {
	if len(t) == 0 {
		return RunSummary{}, false
	}
	return t[len(t)-1], true
}

// Document is the json body that carries a trend, e.g. {"trend":[...]}
type Document struct {
	Trend Trend `json:"trend" yaml:"trend"`
}
