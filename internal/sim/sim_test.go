package sim

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/game"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRunGameRandom(t *testing.T) {
	is := is.New(t)
	res, err := RunGame(context.Background(), agent.NewRandom(4), 4, 0)
	is.NoErr(err)

	is.Equal(res.Seed, int64(4))
	is.True(res.Steps > 0)
	is.Equal(res.InvalidCount, 0) // random only picks legal moves
	is.Equal(res.MovedSteps, res.Steps)
	is.Equal(res.InvalidRate, 0.0)
	is.True(res.MaxTile >= 4)
	is.True(res.FinalScore > 0)
}

func TestRunGameMaxSteps(t *testing.T) {
	is := is.New(t)
	res, err := RunGame(context.Background(), agent.NewRandom(1), 1, 7)
	is.NoErr(err)
	is.Equal(res.Steps, 7)
}

type stubborn struct{}

func (stubborn) Name() string { return "stubborn" }

func (stubborn) Choose(*game.Session) game.Direction { return game.Up }

func TestRunGameCountsInvalidMoves(t *testing.T) {
	is := is.New(t)
	res, err := RunGame(context.Background(), stubborn{}, 2, 30)
	is.NoErr(err)
	is.Equal(res.Steps, 30)
	is.True(res.InvalidCount > 0) // after the first UP, further UPs stop moving
	is.Equal(res.InvalidCount+res.MovedSteps, res.Steps)
	is.Equal(res.InvalidRate, float64(res.InvalidCount)/30)
}

func TestRunDeterministicAndOrdered(t *testing.T) {
	is := is.New(t)
	opts := Options{
		Agent:        "greedy",
		AgentOptions: agent.DefaultOptions(),
		Seeds:        []int64{5, 1, 9, 3},
		MaxSteps:     200,
		Workers:      3,
	}

	first, err := Run(context.Background(), opts)
	is.NoErr(err)
	is.Equal(len(first), 4)
	for i, r := range first {
		is.Equal(r.Seed, opts.Seeds[i]) // results follow seed order
	}

	second, err := Run(context.Background(), opts)
	is.NoErr(err)
	for i := range first {
		is.Equal(first[i].FinalScore, second[i].FinalScore)
		is.Equal(first[i].Steps, second[i].Steps)
	}
}

func TestRunOnResult(t *testing.T) {
	is := is.New(t)
	var seen []int64
	_, err := Run(context.Background(), Options{
		Agent:    "random",
		Seeds:    Seeds(10, 6),
		MaxSteps: 50,
		Workers:  2,
		OnResult: func(r GameResult) error {
			seen = append(seen, r.Seed)
			return nil
		},
	})
	is.NoErr(err)
	is.Equal(len(seen), 6)

	boom := errors.New("boom")
	_, err = Run(context.Background(), Options{
		Agent:    "random",
		Seeds:    Seeds(0, 3),
		MaxSteps: 10,
		OnResult: func(GameResult) error { return boom },
	})
	is.True(errors.Is(err, boom))
}

func TestRunUnknownAgent(t *testing.T) {
	is := is.New(t)
	_, err := Run(context.Background(), Options{Agent: "oracle", Seeds: Seeds(0, 1)})
	is.True(errors.Is(err, agent.ErrUnknownAgent))
}

func TestSeeds(t *testing.T) {
	is := is.New(t)
	is.Equal(Seeds(3, 4), []int64{3, 4, 5, 6})
	is.Equal(len(Seeds(0, 0)), 0)
	is.Equal(len(Seeds(0, -1)), 0) // negative counts must not panic
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []GameResult{
		{FinalScore: 100, MaxTile: 128, InvalidRate: 0, DurationMS: 10},
		{FinalScore: 200, MaxTile: 256, InvalidRate: 0.5, DurationMS: 20},
		{FinalScore: 300, MaxTile: 2048, InvalidRate: 0, DurationMS: 30},
		{FinalScore: 400, MaxTile: 64, InvalidRate: 0.5, DurationMS: 40},
	}
	s := Summarize(results)

	is.Equal(s.Games, 4)
	is.Equal(s.MeanScore, 250.0)
	is.Equal(s.MedianScore, 250.0)
	is.True(near(s.StdScore, 111.80339887498948))
	is.True(near(s.P10, 130))
	is.True(near(s.P90, 370))
	is.True(near(s.P99, 397))
	is.Equal(s.MeanMaxTile, 624.0)
	is.Equal(s.ReachRate[128], 0.75)
	is.Equal(s.ReachRate[256], 0.5)
	is.Equal(s.ReachRate[2048], 0.25)
	is.Equal(s.ReachRate[4096], 0.0)
	is.Equal(s.MeanInvalidRate, 0.25)
	is.True(near(s.TotalDurationS, 0.1))
	is.Equal(s.AvgDurationMS, 25.0)
}

func TestSummarizeEdgeCases(t *testing.T) {
	is := is.New(t)
	is.Equal(Summarize(nil).Games, 0)

	one := Summarize([]GameResult{{FinalScore: 42, MaxTile: 8}})
	is.Equal(one.P10, 42.0)
	is.Equal(one.P99, 42.0)
	is.Equal(one.StdScore, 0.0)
}

func TestParseSeeds(t *testing.T) {
	is := is.New(t)
	seeds, err := ParseSeeds("1, 2,,3 ")
	is.NoErr(err)
	is.Equal(seeds, []int64{1, 2, 3})

	seeds, err = ParseSeeds("")
	is.NoErr(err)
	is.Equal(len(seeds), 0)

	_, err = ParseSeeds("1,two")
	is.True(err != nil)
}

func TestWriteCSV(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	err := WriteCSV(&buf, []GameResult{
		{Seed: 1, FinalScore: 1234, MaxTile: 128, Steps: 90, InvalidRate: 0.0125, DurationMS: 12.3456, MovedSteps: 88},
	})
	is.NoErr(err)

	rows, err := csv.NewReader(&buf).ReadAll()
	is.NoErr(err)
	is.Equal(len(rows), 2)
	is.Equal(rows[0], csvHeader)
	is.Equal(rows[1], []string{"1", "1234", "128", "90", "0.012500", "12.346", "88"})
}

func TestWriteJSON(t *testing.T) {
	is := is.New(t)
	results := []GameResult{{Seed: 2, FinalScore: 500, MaxTile: 64, Steps: 60}}
	var buf bytes.Buffer
	err := WriteJSON(&buf, Report{
		Config:  RunConfig{Agent: "expectimax", Depth: 3, MaxCells: 4, Seeds: []int64{2}, MaxSteps: 100},
		Summary: Summarize(results),
		PerGame: results,
	})
	is.NoErr(err)

	var decoded map[string]any
	is.NoErr(json.Unmarshal(buf.Bytes(), &decoded))
	cfg := decoded["config"].(map[string]any)
	is.Equal(cfg["agent"], "expectimax")
	summary := decoded["summary"].(map[string]any)
	is.Equal(summary["mean_score"], 500.0)
	games := decoded["per_game"].([]any)
	is.Equal(len(games), 1)
}

func TestFormatSummary(t *testing.T) {
	is := is.New(t)
	s := Summarize([]GameResult{{FinalScore: 10, MaxTile: 2048}})
	out := FormatSummary(s)
	is.True(strings.Contains(out, "- games: 1\n"))
	is.True(strings.Contains(out, "- rate_2048: 1.0000\n"))
	is.True(strings.HasPrefix(FormatQuiet("random", s), "random games=1 mean=10.0"))
}
