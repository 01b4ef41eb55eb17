// twenty48 plays, watches and measures 2048 agents in the terminal.
//
// Usage:
//
//	twenty48 play                  - Play a game with the keyboard
//	twenty48 play --agent NAME     - Watch an agent play
//	twenty48 simulate              - Run a batch of seeded games and summarise them
//	twenty48 dataset               - Record expectimax decisions as training samples
//	twenty48 bench                 - Quick random-play baseline
//	twenty48 scores                - Show the best stored games
//	twenty48 agents                - List available agents
//	twenty48 serve                 - Start the SSH server
//	twenty48 config                - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.twenty48/config.yaml, then embedded defaults)
//	--db <path>      - Results database (default from config)
//	--verbose        - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/config"
	"github.com/vovakirdan/twenty48/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagVerbose bool

	// Loaded in PersistentPreRunE.
	cfg       config.Config
	cfgSource string
	logger    = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "twenty48",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "twenty48",
	Short: "2048 engine with expectimax, simulation and dataset tooling",
	Long: `twenty48 plays 2048 in your terminal, lets you watch search agents play,
and runs seeded batches to measure them.

Examples:
  twenty48 play
  twenty48 play --agent expectimax --depth 4
  twenty48 simulate --agent expectimax --games 100 --out-json results.json
  twenty48 dataset --games 200 --sample-prob 0.5
  twenty48 serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides storage.db_path)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	cfg, cfgSource, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	logger.Debug("config loaded", "source", cfgSource)
	return nil
}

// openStore opens the results database named by the config.
func openStore() (*storage.Store, error) {
	return storage.Open(cfg.Storage.DBPath)
}
