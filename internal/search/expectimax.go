// Package search picks moves with a depth-limited expectimax over the
// 2048 spawn model.
package search

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/twenty48/internal/eval"
	"github.com/vovakirdan/twenty48/internal/game"
)

const (
	DefaultDepth    = 3
	DefaultMaxCells = 4
)

// Options configures a Searcher.
type Options struct {
	// Depth counts player moves; a chance layer follows each one.
	Depth int `yaml:"depth"`
	// MaxCells caps how many empty cells a chance node expands.
	MaxCells int `yaml:"max_cells"`
	// Parallel evaluates root moves on separate goroutines.
	Parallel bool `yaml:"parallel"`

	Weights eval.Weights `yaml:"-"`
}

// DefaultOptions returns depth 3, four chance cells and the default weights.
func DefaultOptions() Options {
	return Options{
		Depth:    DefaultDepth,
		MaxCells: DefaultMaxCells,
		Weights:  eval.DefaultWeights(),
	}
}

// Stats counts the work done by one decision.
type Stats struct {
	MaxNodes    int
	ChanceNodes int
	CacheHits   int
	Evaluations int
}

func (s *Stats) add(o Stats) {
	s.MaxNodes += o.MaxNodes
	s.ChanceNodes += o.ChanceNodes
	s.CacheHits += o.CacheHits
	s.Evaluations += o.Evaluations
}

// Decision is the outcome of a root search.
type Decision struct {
	Direction game.Direction
	// Value is the expected heuristic value of Direction, or -Inf when no
	// move is legal.
	Value float64
	// Values holds the value of every legal root move, indexed by direction.
	Values [4]float64
	Legal  [4]bool
	Stats  Stats
}

// Searcher runs expectimax decisions. It holds no per-call state and is
// safe for concurrent use.
type Searcher struct {
	opts Options
}

// New returns a Searcher. A MaxCells below one is raised to one.
func New(opts Options) *Searcher {
	if opts.MaxCells < 1 {
		opts.MaxCells = 1
	}
	return &Searcher{opts: opts}
}

// Options returns the searcher configuration.
func (s *Searcher) Options() Options { return s.opts }

// ChooseAction picks a direction for the session's current position with
// the default weights. It returns game.Up when no move is legal.
func ChooseAction(sess *game.Session, depth, maxCells int) game.Direction {
	opts := DefaultOptions()
	opts.Depth = depth
	opts.MaxCells = maxCells
	return New(opts).Choose(sess)
}

// Choose implements the agent contract.
func (s *Searcher) Choose(sess *game.Session) game.Direction {
	return s.Decide(sess.Board(), sess.Score()).Direction
}

type rootMove struct {
	dir   game.Direction
	board game.Board
	score int
}

// Decide searches board and returns the best move with per-move values.
// Moves are tried in game.SearchOrder and only a strictly greater value
// replaces the current best.
func (s *Searcher) Decide(board game.Board, score int) Decision {
	d := Decision{Direction: game.Up, Value: math.Inf(-1)}

	moves := make([]rootMove, 0, len(game.SearchOrder))
	for _, dir := range game.SearchOrder {
		next, delta, moved := game.ApplyMove(board, dir)
		if !moved {
			continue
		}
		d.Legal[dir] = true
		moves = append(moves, rootMove{dir: dir, board: next, score: score + delta})
	}

	values := make([]float64, len(moves))
	if s.opts.Parallel && len(moves) > 1 {
		stats := make([]Stats, len(moves))
		var g errgroup.Group
		for i, m := range moves {
			g.Go(func() error {
				n := newNode(s.opts)
				values[i] = n.chance(m.board, m.score, s.opts.Depth-1)
				stats[i] = n.stats
				return nil
			})
		}
		_ = g.Wait()
		for _, st := range stats {
			d.Stats.add(st)
		}
	} else {
		n := newNode(s.opts)
		for i, m := range moves {
			values[i] = n.chance(m.board, m.score, s.opts.Depth-1)
		}
		d.Stats = n.stats
	}

	for i, m := range moves {
		d.Values[m.dir] = values[i]
		if values[i] > d.Value {
			d.Value = values[i]
			d.Direction = m.dir
		}
	}
	return d
}

type layer uint8

const (
	maxLayer layer = iota
	chanceLayer
)

type cacheKey struct {
	layer layer
	depth int
	board game.Board
	score int
}

// node carries the memo table of a single decision through the recursion.
type node struct {
	maxCells int
	weights  eval.Weights
	cache    map[cacheKey]float64
	stats    Stats
}

func newNode(opts Options) *node {
	return &node{
		maxCells: opts.MaxCells,
		weights:  opts.Weights,
		cache:    make(map[cacheKey]float64),
	}
}

func (n *node) evaluate(board game.Board, score int) float64 {
	n.stats.Evaluations++
	return eval.Evaluate(board, score, n.weights)
}

func (n *node) max(board game.Board, score, depth int) float64 {
	key := cacheKey{layer: maxLayer, depth: depth, board: board, score: score}
	if v, ok := n.cache[key]; ok {
		n.stats.CacheHits++
		return v
	}
	n.stats.MaxNodes++

	if depth <= 0 || game.IsDone(board) {
		v := n.evaluate(board, score)
		n.cache[key] = v
		return v
	}

	best := math.Inf(-1)
	for _, dir := range game.SearchOrder {
		next, delta, moved := game.ApplyMove(board, dir)
		if !moved {
			continue
		}
		if v := n.chance(next, score+delta, depth-1); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		best = n.evaluate(board, score)
	}

	n.cache[key] = best
	return best
}

func (n *node) chance(board game.Board, score, depth int) float64 {
	key := cacheKey{layer: chanceLayer, depth: depth, board: board, score: score}
	if v, ok := n.cache[key]; ok {
		n.stats.CacheHits++
		return v
	}
	n.stats.ChanceNodes++

	empties := board.EmptyCells()
	if len(empties) == 0 {
		v := n.max(board, score, depth)
		n.cache[key] = v
		return v
	}
	if len(empties) > n.maxCells {
		empties = sampleCells(empties, n.maxCells, board, score, depth)
	}

	total := 0.0
	for _, c := range empties {
		with2 := board
		with2[c.Row][c.Col] = 2
		with4 := board
		with4[c.Row][c.Col] = 4
		total += (1 - game.Spawn4Prob) * n.max(with2, score, depth)
		total += game.Spawn4Prob * n.max(with4, score, depth)
	}

	v := total / float64(len(empties))
	n.cache[key] = v
	return v
}
