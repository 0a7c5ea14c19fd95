package trend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the default name of a trend file within a results folder
const FileName = "trend.json"

// Load reads and decodes the trend file in the dir. If name is empty
// FileName is used.
func Load(dir, name string) (Trend, error) {
	if name == "" {
		name = FileName
	}

	trendBytes, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("error reading trend %v: %w", filepath.Join(dir, name), err)
	}

	if len(bytes.TrimSpace(trendBytes)) == 0 {
		return nil, &MalformedSummaryError{Index: -1, Field: "(root)", Reason: "empty trend file"}
	}

	return DecodeTrend(trendBytes)
}

// LoadOrDummy loads the trend in the dir, if the file is missing, empty or broken
// a trend with a single empty run dated now is returned instead.
// The error that prevented loading is returned alongside the dummy trend.
func LoadOrDummy(dir, name string, now time.Time) (Trend, error) {
	t, err := Load(dir, name)
	if err != nil {
		return Dummy(now), err
	}

	if len(t) == 0 {
		return Dummy(now), nil
	}

	return t, nil
}

// Dummy is the placeholder trend for a framework without results
func Dummy(now time.Time) Trend {
	return Trend{{Date: now.Format(DateLayout)}}
}

// Save writes the trend as indented json to dir.
func Save(dir, name string, t Trend) error {
	if name == "" {
		name = FileName
	}

	if t == nil {
		t = Trend{}
	}

	trendBytes, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding the trend %v", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error generating the results folder %v: %w", dir, err)
	}

	return os.WriteFile(filepath.Join(dir, name), trendBytes, 0o644)
}

// Update adds the summary to a copy of the trend.
// If the trend already has at least two runs and the summary matches the
// latest run apart from the date, the latest run is replaced
// so only the date is refreshed.
func Update(t Trend, s RunSummary) Trend {
	updated := make(Trend, len(t), len(t)+1)
	copy(updated, t)

	last, ok := t.Last()
	if ok && len(t) >= 2 && s.sameResult(last) {
		updated[len(updated)-1] = s
		return updated
	}

	return append(updated, s)
}
