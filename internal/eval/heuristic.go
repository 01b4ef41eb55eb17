// Package eval scores 2048 positions for lookahead search.
package eval

import (
	"math/bits"

	"github.com/vovakirdan/twenty48/internal/game"
)

// Weights scales each heuristic feature. The zero value scores every
// board as 0; use DefaultWeights for the tuned set.
type Weights struct {
	Empty        float64 `yaml:"empty" json:"empty"`
	MaxTile      float64 `yaml:"max_tile" json:"max_tile"`
	Monotonicity float64 `yaml:"monotonicity" json:"monotonicity"`
	Smoothness   float64 `yaml:"smoothness" json:"smoothness"`
	Score        float64 `yaml:"score" json:"score"`
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		Empty:        2.7,
		MaxTile:      1.0,
		Monotonicity: 1.0,
		Smoothness:   0.1,
	}
}

// Features are the unweighted heuristic terms of a board.
type Features struct {
	Empty        float64
	MaxTile      float64
	Monotonicity float64
	Smoothness   float64
}

type logBoard [game.Size][game.Size]float64

// log2Board replaces every tile with its exponent; empty cells stay 0.
func log2Board(b game.Board) logBoard {
	var lb logBoard
	for y := range game.Size {
		for x := range game.Size {
			if v := b[y][x]; v > 0 {
				lb[y][x] = float64(bits.Len(uint(v)) - 1)
			}
		}
	}
	return lb
}

// Extract computes the heuristic features of b.
func Extract(b game.Board) Features {
	lb := log2Board(b)

	f := Features{
		Empty:        float64(b.CountEmpty()),
		Smoothness:   smoothness(lb),
		Monotonicity: monotonicity(lb),
	}
	for y := range game.Size {
		for x := range game.Size {
			if lb[y][x] > f.MaxTile {
				f.MaxTile = lb[y][x]
			}
		}
	}
	return f
}

// Evaluate returns the weighted desirability of a board. Higher is better.
func Evaluate(b game.Board, score int, w Weights) float64 {
	f := Extract(b)
	return w.Empty*f.Empty +
		w.MaxTile*f.MaxTile +
		w.Monotonicity*f.Monotonicity +
		w.Smoothness*f.Smoothness +
		w.Score*float64(score)
}

// smoothness penalises exponent gaps between occupied neighbours.
func smoothness(lb logBoard) float64 {
	total := 0.0
	for y := range game.Size {
		for x := range game.Size {
			v := lb[y][x]
			if v == 0 {
				continue
			}
			if x+1 < game.Size && lb[y][x+1] > 0 {
				total -= abs(v - lb[y][x+1])
			}
			if y+1 < game.Size && lb[y+1][x] > 0 {
				total -= abs(v - lb[y+1][x])
			}
		}
	}
	return total
}

// monotonicity rewards rows and columns that rise or fall steadily. Each
// line contributes its larger one-way total; equal neighbours add nothing.
func monotonicity(lb logBoard) float64 {
	total := 0.0
	for y := range game.Size {
		inc, dec := 0.0, 0.0
		for x := 0; x < game.Size-1; x++ {
			a, b := lb[y][x], lb[y][x+1]
			if a > b {
				dec += a - b
			} else {
				inc += b - a
			}
		}
		total += max(inc, dec)
	}

	for x := range game.Size {
		inc, dec := 0.0, 0.0
		for y := 0; y < game.Size-1; y++ {
			a, b := lb[y][x], lb[y+1][x]
			if a > b {
				dec += a - b
			} else {
				inc += b - a
			}
		}
		total += max(inc, dec)
	}
	return total
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
