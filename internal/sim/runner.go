// Package sim plays batches of seeded games with an agent and summarises
// the results.
package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/game"
)

// DefaultMaxSteps bounds a game when no limit is configured.
const DefaultMaxSteps = 20000

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed         int64         `json:"seed"`
	FinalScore   int           `json:"final_score"`
	MaxTile      int           `json:"max_tile"`
	Steps        int           `json:"steps"`
	InvalidCount int           `json:"invalid_count"`
	InvalidRate  float64       `json:"invalid_rate"`
	MovedSteps   int           `json:"moved_steps"`
	Duration     time.Duration `json:"-"`
	DurationMS   float64       `json:"duration_ms"`
}

// Options configures a batch run.
type Options struct {
	Agent        string
	AgentOptions agent.Options
	Seeds        []int64
	MaxSteps     int
	Workers      int
	// ProgressEvery logs a progress line after this many finished games.
	ProgressEvery int
	// OnResult, when set, receives every result as its game ends. Calls
	// are serialised.
	OnResult func(GameResult) error
	Logger   *log.Logger
}

// Seeds returns n consecutive seeds starting at start. A count of zero or
// less yields nil.
func Seeds(start int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	return lo.Times(n, func(i int) int64 { return start + int64(i) })
}

// RunGame plays one game from seed until it ends or maxSteps steps were
// taken. A maxSteps of 0 or less uses DefaultMaxSteps.
func RunGame(ctx context.Context, a agent.Agent, seed int64, maxSteps int) (GameResult, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	sess := game.NewSession(seed)
	res := GameResult{Seed: seed}
	start := time.Now()

	for !sess.Done() && res.Steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		step, err := sess.Step(a.Choose(sess))
		if err != nil {
			return res, fmt.Errorf("sim: seed %d step %d: %w", seed, res.Steps, err)
		}
		if step.Info.Moved {
			res.MovedSteps++
		}
		if step.Info.InvalidMove {
			res.InvalidCount++
		}
		res.Steps++
	}

	res.Duration = time.Since(start)
	res.DurationMS = float64(res.Duration) / float64(time.Millisecond)
	res.FinalScore = sess.Score()
	res.MaxTile = sess.Board().MaxTile()
	res.InvalidRate = float64(res.InvalidCount) / float64(max(1, res.Steps))
	return res, nil
}

// Run plays one game per seed on a bounded worker pool. Each game gets a
// fresh agent seeded with the game seed. Results are returned in seed
// order regardless of completion order.
func Run(ctx context.Context, opts Options) ([]GameResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !agent.Exists(opts.Agent) {
		return nil, fmt.Errorf("sim: %w %q", agent.ErrUnknownAgent, opts.Agent)
	}

	results := make([]GameResult, len(opts.Seeds))
	var (
		mu       sync.Mutex
		finished []GameResult
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range opts.Seeds {
		g.Go(func() error {
			aopts := opts.AgentOptions
			aopts.Seed = seed
			a, err := agent.Create(opts.Agent, aopts)
			if err != nil {
				return err
			}

			res, err := RunGame(ctx, a, seed, opts.MaxSteps)
			if err != nil {
				return err
			}
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, res)
			if opts.OnResult != nil {
				if err := opts.OnResult(res); err != nil {
					return fmt.Errorf("sim: seed %d: %w", seed, err)
				}
			}
			logProgress(logger, finished, len(opts.Seeds), opts.ProgressEvery, time.Since(start))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func logProgress(logger *log.Logger, done []GameResult, total, every int, elapsed time.Duration) {
	n := len(done)
	if every <= 0 {
		every = 10
		if total < 50 {
			every = 5
		}
	}
	if n%every != 0 && n != total {
		return
	}

	s := Summarize(done)
	eta := time.Duration(float64(elapsed) / float64(n) * float64(total-n))
	logger.Info("progress",
		"games", fmt.Sprintf("%d/%d", n, total),
		"pct", fmt.Sprintf("%.1f", 100*float64(n)/float64(total)),
		"mean", fmt.Sprintf("%.1f", s.MeanScore),
		"p50", fmt.Sprintf("%.1f", s.P50),
		"p90", fmt.Sprintf("%.1f", s.P90),
		"invalid", fmt.Sprintf("%.4f", s.MeanInvalidRate),
		"elapsed", elapsed.Round(100*time.Millisecond),
		"eta", eta.Round(100*time.Millisecond),
	)
}
