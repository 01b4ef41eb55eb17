package agent

import (
	"errors"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/vovakirdan/twenty48/internal/eval"
	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/search"
)

func init() {
	Register("random", "uniform over legal moves", newRandom)
	Register("greedy", "best one-ply heuristic plus merge score", newGreedy)
	Register("expectimax", "depth-limited expectimax search", newExpectimax)
	Register("policy", "most probable legal move of a policy predictor", newPolicy)
}

// legalMove is a direction together with its outcome.
type legalMove struct {
	dir   game.Direction
	board game.Board
	delta int
}

// legalMoves applies every direction in search order and keeps those that
// change the board.
func legalMoves(b game.Board) []legalMove {
	return lo.FilterMap(game.SearchOrder[:], func(d game.Direction, _ int) (legalMove, bool) {
		next, delta, moved := game.ApplyMove(b, d)
		return legalMove{dir: d, board: next, delta: delta}, moved
	})
}

// Random picks uniformly among legal moves with its own seeded stream.
type Random struct {
	rng *rand.Rand
}

func newRandom(opts Options) (Agent, error) {
	return NewRandom(opts.Seed), nil
}

// NewRandom returns a random agent seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

func (a *Random) Name() string { return "random" }

func (a *Random) Choose(sess *game.Session) game.Direction {
	legal := game.LegalDirections(sess.Board())
	if len(legal) == 0 {
		return game.Up
	}
	return legal[a.rng.IntN(len(legal))]
}

// Greedy plays the move with the best merge score plus heuristic value of
// the resulting board, without looking at spawns.
type Greedy struct {
	weights eval.Weights
}

func newGreedy(opts Options) (Agent, error) {
	return &Greedy{weights: opts.Search.Weights}, nil
}

func (a *Greedy) Name() string { return "greedy" }

func (a *Greedy) Choose(sess *game.Session) game.Direction {
	moves := legalMoves(sess.Board())
	if len(moves) == 0 {
		return game.Up
	}
	score := sess.Score()
	value := func(m legalMove) float64 {
		return float64(m.delta) + eval.Evaluate(m.board, score+m.delta, a.weights)
	}
	best := lo.MaxBy(moves, func(x, y legalMove) bool {
		return value(x) > value(y)
	})
	return best.dir
}

// Expectimax wraps a search.Searcher.
type Expectimax struct {
	*search.Searcher
}

var errBadDepth = errors.New("search depth must not be negative")

func newExpectimax(opts Options) (Agent, error) {
	if opts.Search.Depth < 0 {
		return nil, errBadDepth
	}
	return &Expectimax{Searcher: search.New(opts.Search)}, nil
}

func (a *Expectimax) Name() string { return "expectimax" }
