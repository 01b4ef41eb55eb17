package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/sim"
)

var (
	flagBenchGames    int
	flagBenchAgent    string
	flagBenchMaxSteps int
	flagBenchWorkers  int
	benchSearch       searchFlags
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Quick baseline: average and best score over seeds 0..n-1",
	Long: `Play seeds 0..n-1 with an agent (random by default) and print the
average and best score together with the throughput.

Examples:
  twenty48 bench
  twenty48 bench -n 1000 --workers 8
  twenty48 bench --agent expectimax --strength fast -n 20`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&flagBenchGames, "games", "n", 100, "Number of games")
	benchCmd.Flags().StringVar(&flagBenchAgent, "agent", "random", "Agent to benchmark")
	benchCmd.Flags().IntVar(&flagBenchMaxSteps, "max-steps", 5000, "Step limit per game")
	benchCmd.Flags().IntVar(&flagBenchWorkers, "workers", 0, "Parallel games (0 = one per CPU)")
	benchSearch.register(benchCmd)
}

func runBench(cmd *cobra.Command, _ []string) error {
	if err := benchSearch.apply(cmd, &cfg); err != nil {
		return err
	}

	quiet := logger.With()
	quiet.SetLevel(log.WarnLevel)

	start := time.Now()
	results, err := sim.Run(context.Background(), sim.Options{
		Agent:        flagBenchAgent,
		AgentOptions: agent.Options{Search: cfg.SearchOptions()},
		Seeds:        sim.Seeds(0, flagBenchGames),
		MaxSteps:     flagBenchMaxSteps,
		Workers:      flagBenchWorkers,
		Logger:       quiet,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no games to run")
	}
	elapsed := time.Since(start)

	scores := lo.Map(results, func(r sim.GameResult, _ int) int { return r.FinalScore })
	steps := lo.SumBy(results, func(r sim.GameResult) int { return r.Steps })
	fmt.Printf("games=%d avg_score=%.2f max_score=%d\n",
		len(results), float64(lo.Sum(scores))/float64(len(scores)), lo.Max(scores))
	fmt.Printf("elapsed=%s games/s=%.1f steps/s=%.0f\n",
		elapsed.Round(time.Millisecond),
		float64(len(results))/elapsed.Seconds(),
		float64(steps)/elapsed.Seconds())
	return nil
}
