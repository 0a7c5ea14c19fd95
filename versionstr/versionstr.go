package versionstr

import (
	"fmt"

	"github.com/spf13/cobra"
)

// used to construct the version string when linking a release
var linkerOverride bool

// build and date are set when linking a release, e.g.
// -ldflags "-X github.com/metarex-media/scoreboard-tool/versionstr.build=<commit>"
var build string
var date string

var devBuild string = "dev"
var devDate string = "during development"

var VersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v", "Version"},
	Short:   "Print the version number of the scoreboard tool",
	Long:    `All software has versions. This is the scoreboard tool's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Scoreboard version " + long(linkerOverride))
	},
}

func short(useLinkerOverrides bool) string {
	vStr := "0.1.0"

	if useLinkerOverrides && build != "" {
		// keep the short commit hash of a full length build id
		if len(build) > 7 {
			return vStr + "." + build[:7]
		}
		return vStr + "." + build
	}

	return vStr + "." + devBuild
}

func long(useLinkerOverrides bool) string {
	vStr := fmt.Sprintf("%v (%s)", short(useLinkerOverrides), "beta")

	if useLinkerOverrides && date != "" {
		return fmt.Sprintf("%s built %s", vStr, date)
	}

	return fmt.Sprintf("%s built %s", vStr, devDate)
}

// Set chooses between the linked release version and the development version
func Set(useLinkerOverrides bool) {
	linkerOverride = useLinkerOverrides
}
