package site

import (
	"context"
	"fmt"
	"os"

	"github.com/metarex-media/scoreboard-tool/config"
	"github.com/spf13/cobra"
)

var generateConfig string

func init() {
	GenerateCmd.Flags().StringVar(&generateConfig, "config", "", "the scoreboard config file, json or yaml")
}

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the scoreboard website",
	Long: `The generate command writes the scoreboard website from the results folder of every framework in the config.

The website contains:
- index.html, the stable frameworks sorted by the percentage of passed tests
- index_dev.html, the development frameworks
- <framework>_details_stable.html and <framework>_details_dev.html, the trend, operators and unit tests of each framework
- <framework>_trend_stable.html and <framework>_trend_dev.html, interactive trend charts if render.interactive is set
- manifest.yaml, the build id and a sha256 of every file written

Frameworks without results are still shown, without a mark.
	`,

	RunE: GenerateRun,
}

// GenerateRun is the function called to generate the website
func GenerateRun(Command *cobra.Command, args []string) error {
	if generateConfig == "" {
		return fmt.Errorf("no config chosen please use the --config flag")
	}

	cfg, err := config.Load(generateConfig)
	if err != nil {
		return err
	}
	logger := config.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)

	gen, err := New(cfg, logger)
	if err != nil {
		return err
	}

	ctx := Command.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	manifest, err := gen.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Written %v files to %v, build %v\n", len(manifest.Files), cfg.DeployPaths.Index, manifest.BuildID)

	return nil
}
