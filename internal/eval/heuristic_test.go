package eval

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/vovakirdan/twenty48/internal/game"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateEmptyBoard(t *testing.T) {
	is := is.New(t)
	f := Extract(game.Board{})
	is.Equal(f, Features{Empty: 16})
	is.True(near(Evaluate(game.Board{}, 0, DefaultWeights()), 43.2))
}

func TestExtractFeatures(t *testing.T) {
	is := is.New(t)
	b := game.Board{{2, 4, 8, 16}}

	f := Extract(b)
	is.Equal(f.Empty, 12.0)
	is.Equal(f.MaxTile, 4.0)
	is.Equal(f.Smoothness, -3.0)
	// row 0 rises by 3; each column falls from its tile exponent to 0.
	is.Equal(f.Monotonicity, 13.0)

	is.True(near(Evaluate(b, 0, DefaultWeights()), 49.1))
}

func TestMonotonicityEqualNeighbours(t *testing.T) {
	is := is.New(t)
	lb := log2Board(game.Board{{4, 4, 4, 4}, {4, 4, 4, 4}, {4, 4, 4, 4}, {4, 4, 4, 4}})
	is.Equal(monotonicity(lb), 0.0)
	is.Equal(smoothness(lb), 0.0)

	zigzag := log2Board(game.Board{{2, 8, 2, 8}})
	// inc = 2+2, dec = 2; columns each fall once.
	is.Equal(monotonicity(zigzag), 4.0+1+3+1+3)
}

func TestScoreWeight(t *testing.T) {
	is := is.New(t)
	b := game.Board{{2, 2}}
	base := Evaluate(b, 0, DefaultWeights())
	is.Equal(Evaluate(b, 1000, DefaultWeights()), base)

	w := DefaultWeights()
	w.Score = 0.5
	is.True(near(Evaluate(b, 1000, w), base+500))
}

func TestEmptyCellsRaiseValue(t *testing.T) {
	is := is.New(t)
	w := Weights{Empty: DefaultWeights().Empty}
	full := game.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}

	prev := Evaluate(full, 0, w)
	b := full
	for _, c := range []game.Cell{{Row: 3, Col: 3}, {Row: 0, Col: 1}, {Row: 2, Col: 2}} {
		b[c.Row][c.Col] = 0
		v := Evaluate(b, 0, w)
		is.True(v > prev)
		prev = v
	}
}

func TestZeroWeights(t *testing.T) {
	is := is.New(t)
	is.Equal(Evaluate(game.Board{{2048, 2, 4}}, 5000, Weights{}), 0.0)
}
