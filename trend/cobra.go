package trend

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seriesIn string
var seriesOut string
var seriesJSON bool
var seriesPercent bool
var seriesAnnotate bool
var seriesWindow int
var seriesPad bool

func init() {
	SeriesCmd.Flags().StringVar(&seriesIn, "input", "", "the trend file, either a json array of summaries or a {\"trend\": [...]} document")
	SeriesCmd.Flags().StringVar(&seriesOut, "output", "", "the file the series is written to, stdout is used if not set")
	SeriesCmd.Flags().BoolVar(&seriesJSON, "json", false, "a flag for the output format to be json, instead of the default yaml.")
	SeriesCmd.Flags().BoolVar(&seriesPercent, "percent", false, "chart the percentage of passed tests instead of the passed count")
	SeriesCmd.Flags().BoolVar(&seriesAnnotate, "annotate", false, "add the package versions of each run to its label")
	SeriesCmd.Flags().IntVar(&seriesWindow, "window", 0, "only keep the latest n runs, 0 keeps every run")
	SeriesCmd.Flags().BoolVar(&seriesPad, "pad", false, "start the series with an empty label and a zero value")
}

var SeriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Convert a trend file into chart labels and values",
	Long: `The series command reads a trend of test run summaries and writes the
chart labels and values that the scoreboard draws.

Each label is the date of the run, with --annotate each label also has a line per
package version, e.g.
- 08/08/2019
- "\nonnx: 1.6.0"

The values are the passed test counts, or with --percent the percentage of passed tests
to two decimal places. A run with no passed or failed tests has no percentage and
is reported as an error.
	`,

	RunE: SeriesRun,
}

// SeriesRun is the function called to generate the series
func SeriesRun(Command *cobra.Command, args []string) error {
	if seriesIn == "" {
		return fmt.Errorf("no input file chosen please use the --input flag")
	}

	if seriesWindow < 0 {
		return fmt.Errorf("the window of %d is invalid please choose 0 or more", seriesWindow)
	}

	inBytes, err := os.ReadFile(seriesIn)
	if err != nil {
		return fmt.Errorf("error reading %v: %w", seriesIn, err)
	}

	t, err := Decode(inBytes)
	if err != nil {
		return err
	}

	opts := SeriesOptions{Mode: Counts, AnnotateVersions: seriesAnnotate, Window: seriesWindow, Pad: seriesPad}
	if seriesPercent {
		opts.Mode = Percentage
	}

	var fout io.Writer = os.Stdout
	if seriesOut != "" {
		out, _ := filepath.Abs(seriesOut)
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("error generating the output file %v: %w", out, err)
		}
		defer f.Close()
		fout = f
	}

	if err := WriteSeries(fout, t, opts, seriesJSON); err != nil {
		return err
	}

	if fout != os.Stdout {
		fmt.Println("Written to", seriesOut)
	}

	return nil
}

// WriteSeries builds the series of a trend and writes it as yaml or json.
func WriteSeries(w io.Writer, t Trend, opts SeriesOptions, jsonFile bool) error {
	series, err := BuildSeries(t, opts)
	if err != nil {
		return err
	}

	var seriesBytes []byte
	if jsonFile {
		seriesBytes, err = json.MarshalIndent(series, "", "    ")
	} else {
		seriesBytes, err = yaml.Marshal(series)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(seriesBytes)
	return err
}
