package agent

import (
	"math"
	"sort"

	"github.com/vovakirdan/twenty48/internal/eval"
	"github.com/vovakirdan/twenty48/internal/game"
)

// Predictor maps a board to a probability for each direction, indexed by
// direction encoding. Implementations may return unnormalised scores;
// only their order matters.
type Predictor interface {
	Predict(b game.Board) [4]float64
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(b game.Board) [4]float64

func (f PredictorFunc) Predict(b game.Board) [4]float64 { return f(b) }

// HeuristicPredictor is a stand-in policy: a softmax over the one-ply
// heuristic value of each move. Illegal moves get probability 0.
type HeuristicPredictor struct {
	Weights     eval.Weights
	Temperature float64
}

func (p HeuristicPredictor) Predict(b game.Board) [4]float64 {
	temp := p.Temperature
	if temp <= 0 {
		temp = 1
	}

	var logits [4]float64
	var legal [4]bool
	top := math.Inf(-1)
	for _, d := range game.Directions {
		next, delta, moved := game.ApplyMove(b, d)
		if !moved {
			continue
		}
		legal[d] = true
		logits[d] = (float64(delta) + eval.Evaluate(next, delta, p.Weights)) / temp
		top = max(top, logits[d])
	}

	var probs [4]float64
	total := 0.0
	for d := range probs {
		if legal[d] {
			probs[d] = math.Exp(logits[d] - top)
			total += probs[d]
		}
	}
	if total > 0 {
		for d := range probs {
			probs[d] /= total
		}
	}
	return probs
}

// SelectPolicyAction returns the most probable direction that changes the
// board. Equal probabilities go to the lower direction index. It returns
// game.Up when no move is legal.
func SelectPolicyAction(b game.Board, probs [4]float64) game.Direction {
	order := game.Directions
	sort.SliceStable(order[:], func(i, j int) bool {
		return probs[order[i]] > probs[order[j]]
	})

	for _, d := range order {
		if _, _, moved := game.ApplyMove(b, d); moved {
			return d
		}
	}
	return game.Up
}

// Policy plays the moves suggested by a Predictor.
type Policy struct {
	predictor Predictor
}

func newPolicy(opts Options) (Agent, error) {
	return NewPolicy(opts.Predictor, opts.Search.Weights), nil
}

// NewPolicy returns a policy agent. A nil predictor falls back to a
// HeuristicPredictor with the given weights.
func NewPolicy(p Predictor, w eval.Weights) *Policy {
	if p == nil {
		p = HeuristicPredictor{Weights: w}
	}
	return &Policy{predictor: p}
}

func (a *Policy) Name() string { return "policy" }

func (a *Policy) Choose(sess *game.Session) game.Direction {
	b := sess.Board()
	return SelectPolicyAction(b, a.predictor.Predict(b))
}
