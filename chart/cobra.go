package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/metarex-media/scoreboard-tool/scoreboard"
	"github.com/metarex-media/scoreboard-tool/trend"
	"github.com/spf13/cobra"
)

// FormatHTML writes an interactive chart page
const FormatHTML = "html"

var chartIn string
var chartOut string
var chartFormat string
var chartName string
var chartTheme string
var chartPercent bool
var chartWindow int

func init() {
	ChartCmd.Flags().StringVar(&chartIn, "input", "", "the trend file to chart")
	ChartCmd.Flags().StringVar(&chartOut, "output", "", "the file the chart is written to, stdout is used if not set")
	ChartCmd.Flags().StringVar(&chartFormat, "format", FormatSVG, "the chart format, one of svg, png or html")
	ChartCmd.Flags().StringVar(&chartName, "name", "", "the framework name used as the chart title")
	ChartCmd.Flags().StringVar(&chartTheme, "theme", DefaultTheme, "the theme of html charts")
	ChartCmd.Flags().BoolVar(&chartPercent, "percent", false, "chart the percentage of passed tests with the package versions, as the details page does")
	ChartCmd.Flags().IntVar(&chartWindow, "window", trend.DetailsWindow, "only chart the latest n runs, 0 charts every run")
}

var ChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw the trend chart of a single framework",
	Long: `The chart command draws the passed tests of a trend file.

By default the passed test count of every run is drawn, with --percent the chart matches the
framework details page, the percentage of passed tests for the latest runs with the package versions of each run.

Charts can be drawn as svg or png images, or as an interactive html page.
	`,

	RunE: ChartRun,
}

// ChartRun is the function called to draw a chart
func ChartRun(Command *cobra.Command, args []string) error {
	if chartIn == "" {
		return fmt.Errorf("no input file chosen please use the --input flag")
	}

	inBytes, err := os.ReadFile(chartIn)
	if err != nil {
		return fmt.Errorf("error reading %v: %w", chartIn, err)
	}

	t, err := trend.Decode(inBytes)
	if err != nil {
		return err
	}

	name := chartName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(chartIn), filepath.Ext(chartIn))
	}

	opts := trend.PassedSeries()
	if chartPercent {
		opts = trend.DetailsSeries()
		opts.Window = chartWindow
	}

	d, err := TrendLine(scoreboard.Entry{Key: name, Name: name, Trend: t}, opts)
	if err != nil {
		return err
	}

	var fout io.Writer = os.Stdout
	if chartOut != "" {
		out, _ := filepath.Abs(chartOut)
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("error generating the output file %v: %w", out, err)
		}
		defer f.Close()
		fout = f
	}

	if strings.ToLower(chartFormat) == FormatHTML {
		err = RenderInteractive(fout, d, DefaultPalette(), chartTheme)
	} else {
		err = RenderStatic(fout, d, DefaultPalette(), chartFormat)
	}
	if err != nil {
		return err
	}

	if fout != os.Stdout {
		fmt.Println("Written to", chartOut)
	}

	return nil
}
