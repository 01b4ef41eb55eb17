package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/platform/tui"
	"github.com/vovakirdan/twenty48/internal/storage"
)

var (
	flagPlayAgent string
	flagPlaySeed  int64
	flagPlayTick  int
	flagPlayTrace bool
	flagPlaySteps int
	playSearch    searchFlags
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 or watch an agent play",
	Long: `Play a game of 2048 in the terminal, or watch an agent play one.

Controls:
  Arrows/WASD/hjkl  - Move
  I                 - Ask expectimax for a hint
  R                 - New game
  P/Space           - Pause (watch mode)
  +/-               - Faster/slower (watch mode)
  ?                 - Toggle help
  Q/Esc             - Quit

With --trace the agent plays without the UI and every step is printed.

Examples:
  twenty48 play
  twenty48 play --seed 7
  twenty48 play --agent expectimax --strength strong
  twenty48 play --agent greedy --tick 50
  twenty48 play --agent expectimax --trace --seed 0`,
	Args: cobra.NoArgs,
}

func init() {
	// RunE is set here rather than in the literal to break the
	// playCmd -> runPlay -> runTrace -> playCmd initialization cycle.
	playCmd.RunE = runPlay
	playCmd.Flags().StringVar(&flagPlayAgent, "agent", "", "Agent to watch (empty = play yourself)")
	playCmd.Flags().Int64Var(&flagPlaySeed, "seed", 0, "RNG seed (0 = random)")
	playCmd.Flags().IntVar(&flagPlayTick, "tick", 0, "Milliseconds between agent moves (default from config)")
	playCmd.Flags().BoolVar(&flagPlayTrace, "trace", false, "Print agent steps instead of starting the UI")
	playCmd.Flags().IntVar(&flagPlaySteps, "max-steps", 0, "Stop a traced game after this many steps (0 = no limit)")
	playSearch.register(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if err := playSearch.apply(cmd, &cfg); err != nil {
		return err
	}

	opts := agent.DefaultOptions()
	opts.Search = cfg.SearchOptions()
	opts.Seed = flagPlaySeed

	name := flagPlayAgent
	if flagPlayTrace && name == "" {
		name = cfg.Play.Agent
	}
	var a agent.Agent
	if name != "" {
		var err error
		if a, err = agent.Create(name, opts); err != nil {
			return err
		}
	}

	if flagPlayTrace {
		if a == nil {
			return fmt.Errorf("--trace needs --agent")
		}
		return runTrace(a)
	}

	tick := time.Duration(cfg.Play.TickMS) * time.Millisecond
	if cmd.Flags().Changed("tick") {
		tick = time.Duration(flagPlayTick) * time.Millisecond
	}

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open results database, games will not be saved", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return runTUI(tui.Options{
		Seed:   flagPlaySeed,
		Agent:  a,
		Search: opts.Search,
		Store:  store,
		Tick:   tick,
		Logger: logger,
	})
}

func runTUI(opts tui.Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("play needs a terminal; use --trace to print agent steps")
	}
	return tui.Run(opts)
}

// runTrace plays one game with a and prints every step.
func runTrace(a agent.Agent) error {
	seed := flagPlaySeed
	if !playCmd.Flags().Changed("seed") {
		seed = game.RandomSeed()
	}
	sess := game.NewSession(seed)

	for step := 0; !sess.Done(); step++ {
		if flagPlaySteps > 0 && step >= flagPlaySteps {
			break
		}
		dir := a.Choose(sess)
		res, err := sess.Step(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Step %d | action=%s | reward=%d | score=%d | max_tile=%d | invalid=%t\n",
			step, dir, res.Reward, res.Info.Score, res.Info.MaxTile, res.Info.InvalidMove)
	}

	fmt.Print(sess.Render())
	fmt.Printf("Final score=%d max_tile=%d seed=%d\n", sess.Score(), sess.Board().MaxTile(), seed)
	return nil
}

// saveRecord stores r, logging instead of failing when store is nil.
func saveRecord(store *storage.Store, r storage.GameRecord) {
	if store == nil {
		return
	}
	if _, err := store.SaveGame(r); err != nil {
		logger.Warn("could not save game", "agent", r.Agent, "seed", r.Seed, "error", err)
	}
}
