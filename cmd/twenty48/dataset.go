package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/config"
	"github.com/vovakirdan/twenty48/internal/dataset"
	"github.com/vovakirdan/twenty48/internal/game"
)

var (
	flagDataGames      int
	flagDataSeed       int64
	flagDataSampleProb float64
	flagDataInvalid    bool
	flagDataMaxSteps   int
	flagDataWorkers    int
	flagDataClear      bool
	dataSearch         searchFlags

	flagExportOut    string
	flagExportEncode bool
	flagExportLimit  int
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Record expectimax decisions as training samples",
	Long: `Play games with the expectimax agent and store the position before every
move together with the chosen move in the results database. Use
'dataset export' to write the samples out as JSON Lines.

Examples:
  twenty48 dataset --games 200 --depth 3
  twenty48 dataset --games 50 --sample-prob 0.25 --seed 1000
  twenty48 dataset export --out samples.jsonl --encode`,
	Args: cobra.NoArgs,
	RunE: runDataset,
}

var datasetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored samples as JSON Lines",
	Args:  cobra.NoArgs,
	RunE:  runDatasetExport,
}

func init() {
	datasetCmd.Flags().IntVarP(&flagDataGames, "games", "n", 0, "Number of games (default from config)")
	datasetCmd.Flags().Int64Var(&flagDataSeed, "seed", 0, "First game seed (0 = random)")
	datasetCmd.Flags().Float64Var(&flagDataSampleProb, "sample-prob", 0, "Probability of keeping each decision")
	datasetCmd.Flags().BoolVar(&flagDataInvalid, "include-invalid", false, "Also record moves that did not change the board")
	datasetCmd.Flags().IntVar(&flagDataMaxSteps, "max-steps", 0, "Step limit per game (0 = play to the end)")
	datasetCmd.Flags().IntVar(&flagDataWorkers, "workers", 0, "Parallel games (0 = one per CPU)")
	datasetCmd.Flags().BoolVar(&flagDataClear, "clear", false, "Delete previously stored samples first")
	dataSearch.register(datasetCmd)

	datasetExportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout)")
	datasetExportCmd.Flags().BoolVar(&flagExportEncode, "encode", false, "Add one-hot board planes to every record")
	datasetExportCmd.Flags().IntVar(&flagExportLimit, "limit", 0, "Export at most N samples (0 = all)")
	datasetCmd.AddCommand(datasetExportCmd)
}

func runDataset(cmd *cobra.Command, _ []string) error {
	if err := applyDatasetFlags(cmd, &cfg); err != nil {
		return err
	}
	dc := cfg.Dataset

	seed := flagDataSeed
	if seed == 0 {
		seed = game.RandomSeed()
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagDataClear {
		if err := store.ClearSamples(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := dataset.Generate(ctx, dataset.Options{
		Games:          dc.Games,
		Seed:           seed,
		SampleProb:     dc.SampleProb,
		IncludeInvalid: dc.IncludeInvalid,
		MaxSteps:       dc.MaxSteps,
		Workers:        flagDataWorkers,
		Search:         cfg.SearchOptions(),
	}, store, logger)
	if err != nil {
		return err
	}

	total, err := store.CountSamples()
	if err != nil {
		return err
	}
	fmt.Printf("games=%d steps=%d samples=%d skipped=%d duration=%s stored=%d\n",
		stats.Games, stats.Steps, stats.Samples, stats.Skipped, stats.Duration.Round(time.Millisecond), total)
	fmt.Printf("seeds %d..%d, depth %d, db %s\n", seed, seed+int64(dc.Games)-1, cfg.Search.Depth, cfg.Storage.DBPath)
	return nil
}

// applyDatasetFlags overlays the dataset and search flags that were set
// onto c and validates the result.
func applyDatasetFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("games") {
		c.Dataset.Games = flagDataGames
	}
	if flags.Changed("sample-prob") {
		c.Dataset.SampleProb = flagDataSampleProb
	}
	if flags.Changed("include-invalid") {
		c.Dataset.IncludeInvalid = flagDataInvalid
	}
	if flags.Changed("max-steps") {
		c.Dataset.MaxSteps = flagDataMaxSteps
	}
	return dataSearch.apply(cmd, c)
}

func runDatasetExport(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := store.Samples(flagExportLimit)
	if err != nil {
		return err
	}

	maxPow := 0
	if flagExportEncode {
		maxPow = cfg.Dataset.MaxPow
	}

	out := os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", flagExportOut, err)
		}
		defer f.Close()
		out = f
	}

	n, err := dataset.WriteJSONL(out, samples, maxPow)
	if err != nil {
		return err
	}
	logger.Info("exported samples", "count", n, "encoded", flagExportEncode)
	return nil
}
