package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the board configuration",
	Long: `Print the effective board configuration as YAML, after the search
order --config -> ~/.t2048/configs/board.yaml -> ./configs/board.yaml -> defaults.

With --defaults, print the built-in defaults file instead; it is a good
starting point for ~/.t2048/configs/board.yaml.

Examples:
  t2048 config
  t2048 config --config ./my-board.yaml
  t2048 config --defaults > ~/.t2048/configs/board.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults file")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg := loadBoardConfig()
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}
