// Package report handles the results of a single test run, and their
// conversion into a trend summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/metarex-media/scoreboard-tool/trend"
)

// FileName is the default name of a report within a results folder
const FileName = "report.json"

// Test statuses, in the order they are saved in the report
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Report is the list of test names for each status of a test run.
type Report struct {
	Date    string   `json:"date,omitempty"`
	Failed  []string `json:"failed"`
	Passed  []string `json:"passed"`
	Skipped []string `json:"skipped"`
}

// New generates a report, the test ids are cleaned and sorted
func New(now time.Time, passed, failed, skipped []string) Report {
	return Report{
		Date:    now.Format(trend.DateLayout),
		Passed:  cleanIDs(passed),
		Failed:  cleanIDs(failed),
		Skipped: cleanIDs(skipped),
	}
}

// CleanTestID removes the file name from a test id,
// e.g. "test/test_backend.py::OnnxBackendNodeModelTest::test_abs_cpu"
// becomes "OnnxBackendNodeModelTest::test_abs_cpu"
func CleanTestID(id string) string {
	parts := strings.Split(id, "::")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.Contains(p, ".py") {
			continue
		}
		kept = append(kept, p)
	}

	return strings.Join(kept, "::")
}

func cleanIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = CleanTestID(id)
	}
	sort.Strings(out)

	return out
}

// Summary converts the report into a trend summary with the given package versions
func (r Report) Summary(versions []trend.PackageVersion) trend.RunSummary {
	return trend.RunSummary{
		Date:     r.Date,
		Passed:   len(r.Passed),
		Failed:   len(r.Failed),
		Skipped:  len(r.Skipped),
		Versions: versions,
	}
}

// TestStatus is the result of a single test
type TestStatus struct {
	Name   string
	Status string
}

// ByTest lists every test in the report with its status, sorted by test name.
func (r Report) ByTest() []TestStatus {
	tests := make([]TestStatus, 0, len(r.Passed)+len(r.Failed)+len(r.Skipped))

	groups := []struct {
		status string
		names  []string
	}{
		{StatusFailed, r.Failed},
		{StatusPassed, r.Passed},
		{StatusSkipped, r.Skipped},
	}

	for _, g := range groups {
		for _, name := range g.names {
			tests = append(tests, TestStatus{Name: name, Status: g.status})
		}
	}

	sort.SliceStable(tests, func(i, j int) bool { return tests[i].Name < tests[j].Name })

	return tests
}

// Load reads the report in the dir, if name is empty FileName is used.
// A missing or broken report is returned as an empty report, with the error.
func Load(dir, name string) (Report, error) {
	if name == "" {
		name = FileName
	}

	empty := Report{Failed: []string{}, Passed: []string{}, Skipped: []string{}}

	reportBytes, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return empty, fmt.Errorf("error reading report %v: %w", filepath.Join(dir, name), err)
	}

	var r Report
	if err := json.Unmarshal(reportBytes, &r); err != nil {
		return empty, fmt.Errorf("error extracting the report from %v: %w", filepath.Join(dir, name), err)
	}

	return r, nil
}

// Save writes the report to the dir as indented json.
func Save(dir, name string, r Report) error {
	if name == "" {
		name = FileName
	}

	reportBytes, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding the report %v", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error generating the results folder %v: %w", dir, err)
	}

	return os.WriteFile(filepath.Join(dir, name), reportBytes, 0o644)
}
