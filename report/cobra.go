package report

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/metarex-media/scoreboard-tool/config"
	"github.com/spf13/cobra"
)

var recordRun string
var recordResults string
var recordVersions string
var recordConfig string

func init() {
	RecordCmd.Flags().StringVar(&recordRun, "run", "", "the json results of the test run, lists of test ids keyed by passed, failed and skipped")
	RecordCmd.Flags().StringVar(&recordResults, "results", "", "the results folder the report and trend are saved in, the RESULTS_DIR environment variable is used if not set")
	RecordCmd.Flags().StringVar(&recordVersions, "versions", "", "the folder containing pip-list.json, the VERSION_DIR environment variable is used if not set")
	RecordCmd.Flags().StringVar(&recordConfig, "config", "", "the scoreboard config, used to find the core packages of each framework")
}

var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the results of a test run in the results folder",
	Long: `The record command saves the report of a finished test run and adds its summary to the trend.

The results folder gets:
- report.json, the sorted test ids for each of passed, failed and skipped. File names are removed from the ids.
- trend.json, the trend with the summary of this run added. If the result and package
versions match the latest run, the latest run is replaced to refresh its date instead.

The summary includes the versions of the core packages of the scoreboard frameworks,
as found in the pip-list.json of the versions folder. onnx is always a core package.
	`,

	RunE: RecordRun,
}

// recordEnv are the folders set by the test environment
type recordEnv struct {
	ResultsDir string `env:"RESULTS_DIR"`
	VersionDir string `env:"VERSION_DIR"`
}

// RecordRun is the function called to record a test run
func RecordRun(Command *cobra.Command, args []string) error {
	if recordRun == "" {
		return fmt.Errorf("no test run chosen please use the --run flag")
	}

	results, versions, err := recordFolders(recordResults, recordVersions)
	if err != nil {
		return err
	}

	cfg, err := config.Load(recordConfig)
	if err != nil {
		return err
	}
	logger := config.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)

	summary, err := Record(RecordOptions{
		RunFile:      recordRun,
		ResultsDir:   results,
		VersionsDir:  versions,
		CorePackages: cfg.CorePackages(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %v passed, %v failed and %v skipped tests in %v\n", summary.Passed, summary.Failed, summary.Skipped, results)

	return nil
}

// recordFolders picks the results and versions folders, the flags are used first,
// then the environment. The results default to the working directory and the
// versions to the results.
func recordFolders(resultsFlag, versionsFlag string) (string, string, error) {
	var env recordEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		return "", "", fmt.Errorf("error reading the results folder environment variables %v", err)
	}

	results := firstSet(resultsFlag, env.ResultsDir)
	versions := firstSet(versionsFlag, env.VersionDir)
	if results == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		results = cwd
	}
	if versions == "" {
		versions = results
	}

	return results, versions, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
