package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/metarex-media/scoreboard-tool/trend"
)

// RecordOptions are the inputs for recording a finished test run
type RecordOptions struct {
	// RunFile is the raw result of the run, a json object of test id lists
	// keyed by passed, failed and skipped.
	RunFile string
	// ResultsDir is where the report and the trend are saved
	ResultsDir string
	// VersionsDir contains the pip-list.json of the installed packages
	VersionsDir string
	// CorePackages are the package versions kept in the summary
	CorePackages []string
	Now          time.Time
	Logger       *slog.Logger
}

// Record saves the report of a finished test run and adds its summary
// to the trend in the results folder. The new summary is returned.
func Record(opts RecordOptions) (trend.RunSummary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("module", "report"))

	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	runBytes, err := os.ReadFile(opts.RunFile)
	if err != nil {
		return trend.RunSummary{}, fmt.Errorf("error reading the test run %v: %w", opts.RunFile, err)
	}

	var run Report
	if err := json.Unmarshal(runBytes, &run); err != nil {
		return trend.RunSummary{}, fmt.Errorf("error extracting the test run from %v: %w", opts.RunFile, err)
	}

	// the trend is checked before anything is written so a broken trend
	// leaves the results folder as it was
	history, err := trend.Load(opts.ResultsDir, "")
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("starting a new trend", slog.String("dir", opts.ResultsDir))
		history = trend.Trend{}
	case err != nil:
		return trend.RunSummary{}, err
	}

	pkgs, err := LoadPackages(opts.VersionsDir, "")
	if err != nil {
		return trend.RunSummary{}, err
	}

	rep := New(opts.Now, run.Passed, run.Failed, run.Skipped)
	if err := Save(opts.ResultsDir, "", rep); err != nil {
		return trend.RunSummary{}, err
	}
	logger.Info("saved report", slog.String("dir", opts.ResultsDir),
		slog.Int("passed", len(rep.Passed)), slog.Int("failed", len(rep.Failed)), slog.Int("skipped", len(rep.Skipped)))

	summary := rep.Summary(FilterCore(pkgs, opts.CorePackages))

	updated := trend.Update(history, summary)
	if err := trend.Save(opts.ResultsDir, "", updated); err != nil {
		return trend.RunSummary{}, err
	}
	logger.Info("updated trend", slog.Int("runs", len(updated)), slog.Bool("replaced", len(updated) == len(history)))

	return summary, nil
}
