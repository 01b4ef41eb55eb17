package dataset

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/search"
)

type memWriter struct {
	mu      sync.Mutex
	samples []Sample
	calls   int
	err     error
}

func (w *memWriter) SaveSamples(_ context.Context, s []Sample) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}
	w.calls++
	w.samples = append(w.samples, s...)
	return len(s), nil
}

func fastSearch() search.Options {
	opts := search.DefaultOptions()
	opts.Depth = 1
	opts.MaxCells = 2
	return opts
}

func TestPlayGameRecordsEveryMove(t *testing.T) {
	is := is.New(t)
	s := search.New(fastSearch())
	samples, steps, err := PlayGame(context.Background(), s, 11, Options{SampleProb: 1, MaxSteps: 40})
	is.NoErr(err)
	is.True(steps > 0 && steps <= 40)
	is.Equal(len(samples), steps) // expectimax never plays an illegal move

	is.Equal(samples[0].Board, game.NewSession(11).Board())
	for i, smp := range samples {
		is.Equal(smp.Step, i)
		is.Equal(smp.GameSeed, int64(11))
		is.Equal(smp.Depth, 1)
		is.True(smp.Action.Valid())
		_, delta, moved := game.ApplyMove(smp.Board, smp.Action)
		is.True(moved)
		is.Equal(delta, smp.Reward)
	}
}

func TestPlayGameSampleProbZero(t *testing.T) {
	is := is.New(t)
	samples, steps, err := PlayGame(context.Background(), search.New(fastSearch()), 3, Options{SampleProb: 0, MaxSteps: 25})
	is.NoErr(err)
	is.Equal(steps, 25)
	is.Equal(len(samples), 0)
}

func TestPlayGameSubsamples(t *testing.T) {
	is := is.New(t)
	s := search.New(fastSearch())
	full, _, err := PlayGame(context.Background(), s, 5, Options{SampleProb: 1, MaxSteps: 200})
	is.NoErr(err)
	half, _, err := PlayGame(context.Background(), s, 5, Options{SampleProb: 0.5, MaxSteps: 200})
	is.NoErr(err)

	is.True(len(half) < len(full))
	is.True(len(half) > 0)
}

func TestPlayGameCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := PlayGame(ctx, search.New(fastSearch()), 1, Options{SampleProb: 1})
	is.True(errors.Is(err, context.Canceled))
}

func TestGenerate(t *testing.T) {
	is := is.New(t)
	opts := Options{
		Games:      4,
		Seed:       100,
		SampleProb: 1,
		MaxSteps:   30,
		Workers:    2,
		Search:     fastSearch(),
	}

	run := func() ([]Sample, Stats) {
		w := &memWriter{}
		stats, err := Generate(context.Background(), opts, w, nil)
		is.NoErr(err)
		is.Equal(w.calls, opts.Games)
		sort.Slice(w.samples, func(i, j int) bool {
			a, b := w.samples[i], w.samples[j]
			if a.GameSeed != b.GameSeed {
				return a.GameSeed < b.GameSeed
			}
			return a.Step < b.Step
		})
		return w.samples, stats
	}

	first, stats := run()
	is.Equal(stats.Games, 4)
	is.Equal(stats.Samples, len(first))
	is.Equal(stats.Steps, stats.Samples+stats.Skipped)

	seeds := map[int64]bool{}
	for _, s := range first {
		seeds[s.GameSeed] = true
	}
	is.Equal(len(seeds), 4)

	second, _ := run()
	is.Equal(first, second) // same seeds, same samples
}

func TestGenerateWriterError(t *testing.T) {
	is := is.New(t)
	boom := errors.New("disk full")
	_, err := Generate(context.Background(), Options{
		Games:      2,
		SampleProb: 1,
		MaxSteps:   5,
		Search:     fastSearch(),
	}, &memWriter{err: boom}, nil)
	is.True(errors.Is(err, boom))
}

func TestEncode(t *testing.T) {
	is := is.New(t)
	b := game.Board{
		{0, 2, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 65536},
	}
	enc := Encode(b, 15)
	is.Equal(enc.Channels, 16)
	is.Equal(len(enc.Data), 16*16)

	is.Equal(enc.At(0, 0, 0), float32(1))
	is.Equal(enc.At(1, 0, 1), float32(1))
	is.Equal(enc.At(2, 0, 2), float32(1))
	is.Equal(enc.At(0, 0, 1), float32(0))
	is.Equal(enc.At(15, 3, 3), float32(1)) // 2^16 clamps to the last channel

	for r := range game.Size {
		for c := range game.Size {
			sum := float32(0)
			for ch := 0; ch < enc.Channels; ch++ {
				sum += enc.At(ch, r, c)
			}
			is.Equal(sum, float32(1)) // exactly one hot channel per cell
		}
	}
}

func TestEncodeDefaultMaxPow(t *testing.T) {
	is := is.New(t)
	is.Equal(Encode(game.Board{}, 0).Channels, DefaultMaxPow+1)
}
