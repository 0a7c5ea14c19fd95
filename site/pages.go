package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/metarex-media/scoreboard-tool/chart"
	"github.com/metarex-media/scoreboard-tool/config"
	"github.com/metarex-media/scoreboard-tool/scoreboard"
	"github.com/metarex-media/scoreboard-tool/trend"
)

// indexPage writes the overview of every framework in the database
func (g *Generator) indexPage(ctx context.Context, db scoreboard.Database, dir, name string) error {
	title := "ONNX Backend Scoreboard"
	if db.State == config.Development {
		title += " - Development"
	}

	values := g.common(dir, title, db.State)

	bars := emptyChart()
	if hasData(db) {
		var err error
		bars, err = g.chart(dir, strings.TrimSuffix(name, ".html")+"_latest", chart.LatestBars(db))
		if err != nil {
			return err
		}
	}
	values["chart"] = bars

	frameworks := make([]map[string]interface{}, len(db.Entries))
	for i, entry := range db.Entries {
		donut := emptyChart()
		if entry.Coverage.HasData {
			var err error
			donut, err = g.chart(dir, fmt.Sprintf("%s_donut_%s", entry.Key, stateSuffix(db.State)), chart.Donut(entry))
			if err != nil {
				return err
			}
		}

		frameworks[i] = map[string]interface{}{
			"key":          entry.Key,
			"name":         entry.Name,
			"mark":         entry.Coverage.Mark,
			"passed":       entry.Coverage.Passed,
			"total":        entry.Coverage.Total,
			"has_data":     entry.Coverage.HasData,
			"versions":     versionsContext(entry.Versions),
			"details_page": link(dir, g.Config.DeployPaths.Subpages, DetailsPageName(entry.Key, db.State)),
			"chart":        donut,
		}
	}
	values["frameworks"] = frameworks

	return g.render(ctx, g.index, filepath.Join(dir, name), values)
}

// detailsPage writes the trend, operators and unit tests of a framework
func (g *Generator) detailsPage(ctx context.Context, state string, entry scoreboard.Entry) error {
	dir := g.Config.DeployPaths.Subpages
	logger := g.Logger.With(slog.String("framework", entry.Key), slog.String("state", state))

	line, err := g.trendLine(entry)
	if err != nil {
		logger.Warn("skipping the trend chart", slog.String("error", err.Error()))
	}

	trendChart := emptyChart()
	trendPage := ""
	if err == nil {
		trendChart, err = g.chart(dir, fmt.Sprintf("%s_trend_%s", entry.Key, stateSuffix(state)), line)
		if err != nil {
			return err
		}

		if g.Config.Render.Interactive {
			var page bytes.Buffer
			if err := chart.RenderInteractive(&page, line, g.Palette, g.Config.Render.Theme); err != nil {
				return fmt.Errorf("error drawing the interactive trend of %v: %w", entry.Key, err)
			}
			if err := g.write(filepath.Join(dir, TrendPageName(entry.Key, state)), page.Bytes()); err != nil {
				return err
			}
			trendPage = TrendPageName(entry.Key, state)
		}
	}

	values := g.common(dir, entry.Name, state)

	ops := make([]map[string]string, len(entry.Ops))
	for i, op := range entry.Ops {
		ops[i] = map[string]string{"op": op.Op, "status": op.Status}
	}
	tests := make([]map[string]string, len(entry.Tests))
	for i, t := range entry.Tests {
		tests[i] = map[string]string{"name": t.Name, "status": t.Status}
	}

	values["name"] = entry.Name
	values["key"] = entry.Key
	values["mark"] = entry.Coverage.Mark
	values["passed"] = entry.Coverage.Passed
	values["failed"] = entry.Coverage.Failed
	values["total"] = entry.Coverage.Total
	values["has_data"] = entry.Coverage.HasData
	values["versions"] = versionsContext(entry.Versions)
	values["chart"] = trendChart
	values["trend_page"] = trendPage
	values["has_ops"] = len(ops) > 0
	values["ops"] = ops
	values["tests"] = tests

	return g.render(ctx, g.details, filepath.Join(dir, DetailsPageName(entry.Key, state)), values)
}

// trendLine is the passed percentage of the latest runs, if a run in the
// window has no results the passed counts are used instead.
func (g *Generator) trendLine(entry scoreboard.Entry) (chart.Data, error) {
	opts := trend.DetailsSeries()
	opts.Window = g.Config.Render.Window

	line, err := chart.TrendLine(entry, opts)
	if errors.Is(err, trend.ErrInvalidInput) {
		g.Logger.Debug("charting passed counts", slog.String("framework", entry.Key), slog.String("reason", err.Error()))
		opts.Mode = trend.Counts
		line, err = chart.TrendLine(entry, opts)
	}

	return line, err
}

// chart draws the static chart, svg charts are returned to be inlined
// and png charts are written next to the page.
func (g *Generator) chart(dir, name string, d chart.Data) (map[string]interface{}, error) {
	values := emptyChart()
	values["empty"] = false
	values["alt"] = d.Title

	var img bytes.Buffer
	format := strings.ToLower(g.Config.Render.Format)
	if err := chart.RenderStatic(&img, d, g.Palette, format); err != nil {
		return nil, fmt.Errorf("error drawing the %v chart %v: %w", d.Kind, name, err)
	}

	if format == chart.FormatPNG {
		imgName := name + ".png"
		if err := g.write(filepath.Join(dir, imgName), img.Bytes()); err != nil {
			return nil, err
		}
		values["src"] = imgName
		return values, nil
	}

	values["inline"] = true
	values["svg"] = img.String()

	return values, nil
}

func hasData(db scoreboard.Database) bool {
	for _, e := range db.Entries {
		if e.Coverage.HasData {
			return true
		}
	}
	return false
}

// emptyChart has every chart key set so sections never fall back to a parent chart
func emptyChart() map[string]interface{} {
	return map[string]interface{}{
		"empty":  true,
		"inline": false,
		"svg":    "",
		"src":    "",
		"alt":    "",
	}
}
