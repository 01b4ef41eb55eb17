package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/config"
	"github.com/vovakirdan/twenty48/internal/sim"
	"github.com/vovakirdan/twenty48/internal/storage"
)

var (
	flagSimAgent    string
	flagSimGames    int
	flagSimSeed     int64
	flagSimSeeds    string
	flagSimMaxSteps int
	flagSimWorkers  int
	flagSimProgress int
	flagSimOutJSON  string
	flagSimOutCSV   string
	flagSimQuiet    bool
	flagSimSave     bool
	simSearch       searchFlags
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run seeded games with an agent and summarise the scores",
	Long: `Play one game per seed with the chosen agent and print score percentiles,
tile reach rates and timing. Games run on a worker pool; results are
reported in seed order so runs are reproducible.

Examples:
  twenty48 simulate --agent expectimax --games 100
  twenty48 simulate --agent greedy --seeds 1,2,3 --quiet
  twenty48 simulate --agent expectimax --depth 2 --out-json r.json --out-csv r.csv
  twenty48 simulate --agent random --games 500 --save`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimAgent, "agent", "", "Agent to simulate (default from config)")
	simulateCmd.Flags().IntVarP(&flagSimGames, "games", "n", 0, "Number of games (default from config)")
	simulateCmd.Flags().Int64Var(&flagSimSeed, "seed", 0, "First seed; games use seed, seed+1, ...")
	simulateCmd.Flags().StringVar(&flagSimSeeds, "seeds", "", "Comma separated seed list (overrides --games/--seed)")
	simulateCmd.Flags().IntVar(&flagSimMaxSteps, "max-steps", 0, "Step limit per game")
	simulateCmd.Flags().IntVar(&flagSimWorkers, "workers", 0, "Parallel games (0 = one per CPU)")
	simulateCmd.Flags().IntVar(&flagSimProgress, "progress-every", 0, "Log progress every N games")
	simulateCmd.Flags().StringVar(&flagSimOutJSON, "out-json", "", "Write config, summary and per-game results as JSON")
	simulateCmd.Flags().StringVar(&flagSimOutCSV, "out-csv", "", "Write per-game results as CSV")
	simulateCmd.Flags().BoolVarP(&flagSimQuiet, "quiet", "q", false, "Print a one-line summary and no progress")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record every game in the results database")
	simSearch.register(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if err := applySimulateFlags(cmd, &cfg); err != nil {
		return err
	}
	sc := cfg.Simulate

	seeds := sim.Seeds(sc.Seed, sc.Games)
	if flagSimSeeds != "" {
		var err error
		if seeds, err = sim.ParseSeeds(flagSimSeeds); err != nil {
			return err
		}
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no games to run")
	}

	var store *storage.Store
	if flagSimSave {
		var err error
		if store, err = openStore(); err != nil {
			return err
		}
		defer store.Close()
	}

	runLogger := logger
	if flagSimQuiet {
		runLogger = logger.With()
		runLogger.SetLevel(log.WarnLevel)
	}

	opts := sim.Options{
		Agent:         sc.Agent,
		AgentOptions:  agent.Options{Search: cfg.SearchOptions()},
		Seeds:         seeds,
		MaxSteps:      sc.MaxSteps,
		Workers:       sc.Workers,
		ProgressEvery: sc.ProgressEvery,
		Logger:        runLogger,
	}
	if store != nil {
		opts.OnResult = func(r sim.GameResult) error {
			saveRecord(store, recordFromResult(sc.Agent, r))
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("simulating", "agent", sc.Agent, "games", len(seeds),
		"depth", cfg.Search.Depth, "max_cells", cfg.Search.MaxCells)
	results, err := sim.Run(ctx, opts)
	if err != nil {
		return err
	}

	summary := sim.Summarize(results)
	if flagSimQuiet {
		fmt.Println(sim.FormatQuiet(sc.Agent, summary))
	} else {
		fmt.Print(sim.FormatSummary(summary))
	}

	if flagSimOutJSON != "" {
		report := sim.Report{
			Config: sim.RunConfig{
				Agent:    sc.Agent,
				Depth:    cfg.Search.Depth,
				MaxCells: cfg.Search.MaxCells,
				Seeds:    seeds,
				MaxSteps: sc.MaxSteps,
			},
			Summary: summary,
			PerGame: results,
		}
		if err := writeFile(flagSimOutJSON, func(f *os.File) error { return sim.WriteJSON(f, report) }); err != nil {
			return err
		}
		logger.Info("wrote json", "path", flagSimOutJSON)
	}
	if flagSimOutCSV != "" {
		if err := writeFile(flagSimOutCSV, func(f *os.File) error { return sim.WriteCSV(f, results) }); err != nil {
			return err
		}
		logger.Info("wrote csv", "path", flagSimOutCSV)
	}
	return nil
}

// applySimulateFlags overlays the simulate and search flags that were set
// onto c and validates the result.
func applySimulateFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("agent") {
		c.Simulate.Agent = flagSimAgent
	}
	if flags.Changed("games") {
		c.Simulate.Games = flagSimGames
	}
	if flags.Changed("seed") {
		c.Simulate.Seed = flagSimSeed
	}
	if flags.Changed("max-steps") {
		c.Simulate.MaxSteps = flagSimMaxSteps
	}
	if flags.Changed("workers") {
		c.Simulate.Workers = flagSimWorkers
	}
	if flags.Changed("progress-every") {
		c.Simulate.ProgressEvery = flagSimProgress
	}
	return simSearch.apply(cmd, c)
}

func recordFromResult(agentName string, r sim.GameResult) storage.GameRecord {
	return storage.GameRecord{
		Agent:        agentName,
		Seed:         r.Seed,
		FinalScore:   r.FinalScore,
		MaxTile:      r.MaxTile,
		Steps:        r.Steps,
		InvalidCount: r.InvalidCount,
		MovedSteps:   r.MovedSteps,
		DurationMS:   r.DurationMS,
	}
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
