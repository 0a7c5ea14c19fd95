package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/metarex-media/scoreboard-tool/config"
	"github.com/metarex-media/scoreboard-tool/report"
	"github.com/metarex-media/scoreboard-tool/trend"
	"golang.org/x/sync/errgroup"
)

// Database is the frameworks of a single state, sorted by score
type Database struct {
	State   string
	Entries []Entry
}

// Prepare loads every framework of the state in the config, concurrently.
// Missing or broken results never stop the scoreboard, the framework is shown
// without data and a warning is logged.
func Prepare(ctx context.Context, cfg config.Config, state string, logger *slog.Logger) (Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("module", "scoreboard"), slog.String("state", state))

	frameworks, err := cfg.State(state)
	if err != nil {
		return Database{}, err
	}

	keys := frameworks.Keys()
	entries := make([]Entry, len(keys))
	now := time.Now()

	errs, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		errs.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries[i] = LoadEntry(key, frameworks[key], now, logger)
			return nil
		})
	}

	if err := errs.Wait(); err != nil {
		return Database{}, err
	}

	SortByScore(entries)
	logger.Debug("prepared database", slog.Int("frameworks", len(entries)))

	return Database{State: state, Entries: entries}, nil
}

// LoadEntry reads the trend, report and ops table of a single framework.
func LoadEntry(key string, fw config.Framework, now time.Time, logger *slog.Logger) Entry {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("framework", key))

	name := fw.Name
	if name == "" {
		name = key
	}

	t, err := trend.LoadOrDummy(fw.ResultsDir, "", now)
	if err != nil {
		logger.Warn("using an empty trend", slog.String("error", err.Error()))
	}

	rep, err := report.Load(fw.ResultsDir, "")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("using an empty report", slog.String("error", err.Error()))
	}

	ops, err := LoadOps(fw.ResultsDir, "")
	if err != nil {
		logger.Warn("using an empty ops table", slog.String("error", err.Error()))
		ops = []OpStatus{}
	}

	last, _ := t.Last()
	versions := last.Versions
	if versions == nil {
		versions = []trend.PackageVersion{}
	}

	return Entry{
		Key:      key,
		Name:     name,
		Versions: versions,
		Trend:    t,
		Coverage: NewCoverage(t),
		Ops:      ops,
		Tests:    rep.ByTest(),
	}
}

// SortByScore orders the entries by passed percentage, highest first.
// Equal scores are ordered by key and entries without data are last.
func SortByScore(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Coverage, entries[j].Coverage
		if a.HasData != b.HasData {
			return a.HasData
		}
		if a.Passed != b.Passed {
			return a.Passed > b.Passed
		}
		return entries[i].Key < entries[j].Key
	})
}

// Find returns the entry with the key
func (db Database) Find(key string) (Entry, error) {
	for _, e := range db.Entries {
		if e.Key == key {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q is not a %s framework", ErrNoFramework, key, db.State)
}

// LatestResult is the latest passed and failed count of a framework
type LatestResult struct {
	Key    string
	Name   string
	Passed int
	Failed int
}

// Latest lists the latest result of every framework in score order.
func (db Database) Latest() []LatestResult {
	latest := make([]LatestResult, 0, len(db.Entries))
	for _, e := range db.Entries {
		last, _ := e.Trend.Last()
		latest = append(latest, LatestResult{Key: e.Key, Name: e.Name, Passed: last.Passed, Failed: last.Failed})
	}
	return latest
}
