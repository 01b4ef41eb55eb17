package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/twenty48/internal/platform/tui"
	"github.com/vovakirdan/twenty48/internal/storage"
)

var (
	flagScoresAgent string
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best stored games",
	Long: `Browse the best recorded games per agent. Human games are stored under
the agent name "human". Without a terminal, or with --plain, a table is
printed instead.

Examples:
  twenty48 scores
  twenty48 scores --plain --agent expectimax -n 20
  twenty48 scores --clear --agent random`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresAgent, "agent", "", "Only show this agent (plain mode)")
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of games to show (plain mode)")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print a table instead of the interactive view")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the stored games of --agent")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if flagScoresAgent == "" {
			return fmt.Errorf("--clear needs --agent")
		}
		if err := store.ClearGames(flagScoresAgent); err != nil {
			return err
		}
		fmt.Printf("Cleared games of %s.\n", flagScoresAgent)
		return nil
	}

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(store, width, height)
	}
	return printScores(store)
}

func printScores(store *storage.Store) error {
	games, err := store.TopGames(flagScoresAgent, flagScoresLimit)
	if err != nil {
		return err
	}

	title := "all agents"
	if flagScoresAgent != "" {
		title = flagScoresAgent
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Run 'twenty48 play' or 'twenty48 simulate --save' to record some.")
		return nil
	}

	fmt.Printf("  %-4s  %-11s  %-8s  %-6s  %-6s  %s\n", "Rank", "Agent", "Score", "Max", "Steps", "Date")
	fmt.Printf("  %-4s  %-11s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "-----", "---", "-----", "----")
	for i, g := range games {
		fmt.Printf("  %-4d  %-11s  %-8d  %-6d  %-6d  %s\n",
			i+1, g.Agent, g.FinalScore, g.MaxTile, g.Steps, g.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagScoresAgent != "" {
		stats, err := store.AgentStats(flagScoresAgent)
		if err == nil && stats.GamesCount > 0 {
			fmt.Println()
			fmt.Printf("Games: %d  Avg: %.1f  Best tile: %d  Wins: %d  Steps: %d\n",
				stats.GamesCount, stats.AvgScore, stats.BestTile, stats.Wins, stats.TotalSteps)
		}
	}
	return nil
}
