package main

import (
	"fmt"

	"github.com/metarex-media/scoreboard-tool/chart"
	"github.com/metarex-media/scoreboard-tool/report"
	"github.com/metarex-media/scoreboard-tool/site"
	"github.com/metarex-media/scoreboard-tool/trend"
	"github.com/metarex-media/scoreboard-tool/versionstr"
	"github.com/spf13/cobra"
)

var UseLinkerOverrides string

func main() {

	doOverride := len(UseLinkerOverrides) > 1
	versionstr.Set(doOverride)

	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "scoreboard - track and publish the ONNX backend test results",
	Long: `
Scoreboard records the ONNX backend unit test results of each framework and publishes them as a static website.

Scoreboard can:
- Save the report of a test run and add it to the trend of results. Using the "record" key
- Convert a trend into the labels and values of a chart. Using the "series" key
- Draw the trend chart of a framework as an svg, png or html page. Using the "chart" key
- Generate the scoreboard website for every framework in the config. Using the "generate" key
	`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.Long)
	},
}

// add the cobra commands
func init() {
	// disable the unneeded completion options
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// add the root commands
	rootCmd.AddCommand(report.RecordCmd)
	rootCmd.AddCommand(trend.SeriesCmd)
	rootCmd.AddCommand(chart.ChartCmd)
	rootCmd.AddCommand(site.GenerateCmd)
	rootCmd.AddCommand(versionstr.VersionCmd)
}
