package sim

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ReachTiles are the tiles whose reach rate Summarize reports.
var ReachTiles = []int{128, 256, 512, 1024, 2048, 4096, 8192}

// Summary aggregates a batch of results.
type Summary struct {
	Games           int             `json:"games"`
	MeanScore       float64         `json:"mean_score"`
	MedianScore     float64         `json:"median_score"`
	StdScore        float64         `json:"std_score"`
	P10             float64         `json:"p10"`
	P50             float64         `json:"p50"`
	P90             float64         `json:"p90"`
	P99             float64         `json:"p99"`
	MeanMaxTile     float64         `json:"mean_max_tile"`
	ReachRate       map[int]float64 `json:"reach_rate"`
	MeanInvalidRate float64         `json:"mean_invalid_rate"`
	TotalDuration   time.Duration   `json:"-"`
	TotalDurationS  float64         `json:"total_duration_sec"`
	AvgDurationMS   float64         `json:"avg_game_duration_ms"`
}

// Summarize computes score percentiles, reach rates and timing. An empty
// input yields a zero Summary.
func Summarize(results []GameResult) Summary {
	s := Summary{Games: len(results), ReachRate: make(map[int]float64, len(ReachTiles))}
	if len(results) == 0 {
		return s
	}

	scores := lo.Map(results, func(r GameResult, _ int) float64 { return float64(r.FinalScore) })
	tiles := lo.Map(results, func(r GameResult, _ int) float64 { return float64(r.MaxTile) })
	invalid := lo.Map(results, func(r GameResult, _ int) float64 { return r.InvalidRate })
	durations := lo.Map(results, func(r GameResult, _ int) float64 { return r.DurationMS })

	s.MeanScore = stat.Mean(scores, nil)
	s.StdScore = stat.PopStdDev(scores, nil)

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	s.MedianScore = percentile(sorted, 50)
	s.P10 = percentile(sorted, 10)
	s.P50 = s.MedianScore
	s.P90 = percentile(sorted, 90)
	s.P99 = percentile(sorted, 99)

	s.MeanMaxTile = stat.Mean(tiles, nil)
	for _, tile := range ReachTiles {
		reached := lo.CountBy(results, func(r GameResult) bool { return r.MaxTile >= tile })
		s.ReachRate[tile] = float64(reached) / float64(len(results))
	}

	s.MeanInvalidRate = stat.Mean(invalid, nil)
	s.TotalDuration = lo.SumBy(results, func(r GameResult) time.Duration { return r.Duration })
	s.TotalDurationS = floats.Sum(durations) / 1000
	s.AvgDurationMS = stat.Mean(durations, nil)
	return s
}

// percentile interpolates linearly between the closest ranks of sorted,
// placing p=0 on the first and p=100 on the last element.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(len(sorted)-1)
	below := int(math.Floor(pos))
	above := int(math.Ceil(pos))
	frac := pos - float64(below)
	return sorted[below] + (sorted[above]-sorted[below])*frac
}
