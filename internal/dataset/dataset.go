// Package dataset records expectimax play as supervised training samples
// for policy models.
package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/search"
)

// Sample is one recorded decision. Board is the position before the move.
type Sample struct {
	GameSeed int64
	Step     int
	Board    game.Board
	Action   game.Direction
	Reward   int
	Score    int
	MaxTile  int
	Done     bool
	Depth    int
}

// SampleWriter persists batches of samples.
type SampleWriter interface {
	SaveSamples(ctx context.Context, samples []Sample) (int, error)
}

// Options configures a generation run.
type Options struct {
	Games          int
	Seed           int64
	SampleProb     float64
	IncludeInvalid bool
	// MaxSteps stops a game after this many steps; 0 plays to the end.
	MaxSteps int
	Workers  int
	Search   search.Options
}

// Stats summarises a generation run.
type Stats struct {
	Games    int
	Steps    int
	Samples  int
	Skipped  int
	Duration time.Duration
}

// keepStream separates the sampling stream from the spawn stream of the
// same game seed.
const keepStream = 0x5a3c1e

// PlayGame plays one expectimax game from seed and returns the kept samples
// and the number of steps taken.
func PlayGame(ctx context.Context, s *search.Searcher, seed int64, opts Options) ([]Sample, int, error) {
	sess := game.NewSession(seed)
	keep := rand.New(rand.NewPCG(uint64(seed), keepStream))
	depth := s.Options().Depth

	var samples []Sample
	step := 0
	for {
		if err := ctx.Err(); err != nil {
			return samples, step, err
		}

		before := sess.Board()
		dir := s.Choose(sess)
		res, err := sess.Step(dir)
		if err != nil {
			return samples, step, fmt.Errorf("dataset: game %d step %d: %w", seed, step, err)
		}

		if !res.Info.InvalidMove || opts.IncludeInvalid {
			if keep.Float64() < opts.SampleProb {
				samples = append(samples, Sample{
					GameSeed: seed,
					Step:     step,
					Board:    before,
					Action:   dir,
					Reward:   res.Reward,
					Score:    res.Info.Score,
					MaxTile:  res.Info.MaxTile,
					Done:     res.Done,
					Depth:    depth,
				})
			}
		}

		step++
		if res.Done || (opts.MaxSteps > 0 && step >= opts.MaxSteps) {
			return samples, step, nil
		}
	}
}

// Generate plays opts.Games games with seeds Seed, Seed+1, ... and hands
// each game's samples to w as soon as the game ends.
func Generate(ctx context.Context, opts Options, w SampleWriter, logger *log.Logger) (Stats, error) {
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	searcher := search.New(opts.Search)
	start := time.Now()

	var (
		mu    sync.Mutex
		stats Stats
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + int64(i)
		g.Go(func() error {
			samples, steps, err := PlayGame(ctx, searcher, seed, opts)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			n, err := w.SaveSamples(ctx, samples)
			if err != nil {
				return fmt.Errorf("dataset: save game %d: %w", seed, err)
			}
			stats.Games++
			stats.Steps += steps
			stats.Samples += n
			stats.Skipped += steps - n
			logger.Debug("game recorded", "seed", seed, "steps", steps, "samples", n)
			if stats.Games%10 == 0 || stats.Games == opts.Games {
				logger.Info("dataset progress", "games", stats.Games, "of", opts.Games, "samples", stats.Samples)
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Duration = time.Since(start)
	return stats, err
}
