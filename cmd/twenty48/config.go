package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after the search order has been applied
(--config, ~/.twenty48/config.yaml, ./configs/twenty48.yaml, built-in
defaults). The output is a valid config file.

Examples:
  twenty48 config > ~/.twenty48/config.yaml
  twenty48 config --defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("# source: %s\n", cfgSource)
	fmt.Print(string(data))
	return nil
}
