package sim

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RunConfig records how a batch was produced.
type RunConfig struct {
	Agent    string  `json:"agent"`
	Depth    int     `json:"depth"`
	MaxCells int     `json:"max_cells"`
	Seeds    []int64 `json:"seeds"`
	MaxSteps int     `json:"max_steps"`
}

// Report is the JSON document written by WriteJSON.
type Report struct {
	Config  RunConfig    `json:"config"`
	Summary Summary      `json:"summary"`
	PerGame []GameResult `json:"per_game"`
}

// WriteJSON writes an indented report.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("sim: write json: %w", err)
	}
	return nil
}

var csvHeader = []string{"seed", "final_score", "max_tile", "steps", "invalid_rate", "duration_ms", "moved_steps"}

// WriteCSV writes one row per game.
func WriteCSV(w io.Writer, results []GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("sim: write csv: %w", err)
	}
	for _, r := range results {
		row := []string{
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.FinalScore),
			strconv.Itoa(r.MaxTile),
			strconv.Itoa(r.Steps),
			strconv.FormatFloat(r.InvalidRate, 'f', 6, 64),
			strconv.FormatFloat(r.DurationMS, 'f', 3, 64),
			strconv.Itoa(r.MovedSteps),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("sim: write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("sim: write csv: %w", err)
	}
	return nil
}

// ParseSeeds parses a comma separated seed list such as "1, 2,3".
// Empty items are ignored; an empty string yields nil.
func ParseSeeds(s string) ([]int64, error) {
	var seeds []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sim: bad seed %q: %w", part, err)
		}
		seeds = append(seeds, v)
	}
	return seeds, nil
}

// FormatSummary renders s as the multi-line report printed by the CLI.
func FormatSummary(s Summary) string {
	var sb strings.Builder
	sb.WriteString("Summary\n")
	line := func(key string, v float64) {
		fmt.Fprintf(&sb, "- %s: %.4f\n", key, v)
	}
	fmt.Fprintf(&sb, "- games: %d\n", s.Games)
	line("mean_score", s.MeanScore)
	line("median_score", s.MedianScore)
	line("std_score", s.StdScore)
	line("p10", s.P10)
	line("p50", s.P50)
	line("p90", s.P90)
	line("p99", s.P99)
	line("mean_max_tile", s.MeanMaxTile)
	for _, tile := range ReachTiles {
		line("rate_"+strconv.Itoa(tile), s.ReachRate[tile])
	}
	line("mean_invalid_rate", s.MeanInvalidRate)
	line("total_duration_sec", s.TotalDurationS)
	line("avg_game_duration_ms", s.AvgDurationMS)
	return sb.String()
}

// FormatQuiet renders s as a single line.
func FormatQuiet(agent string, s Summary) string {
	return fmt.Sprintf("%s games=%d mean=%.1f p50=%.1f p90=%.1f rate_2048=%.3f invalid=%.4f",
		agent, s.Games, s.MeanScore, s.P50, s.P90, s.ReachRate[2048], s.MeanInvalidRate)
}
