package game

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"lukechampine.com/frand"
)

// pcgStream is the fixed PCG increment; sessions differ only by seed.
const pcgStream = 0x2048_2048_2048_2048

// StepInfo carries the details of a single step.
type StepInfo struct {
	InvalidMove bool
	Moved       bool
	Score       int
	MaxTile     int
	Won         bool
	Spawned     *Spawn
	Merged      []RowMerge
}

// StepResult is returned by Session.Step.
type StepResult struct {
	Board  Board
	Reward int
	Done   bool
	Info   StepInfo
}

// Session owns a board, the cumulative score, the won flag and the random
// stream used for spawns. A Session is not safe for concurrent use; Clone
// it to explore futures in parallel.
type Session struct {
	board Board
	score int
	won   bool
	seed  int64

	src *rand.PCG
	rng *rand.Rand
}

// NewSession creates a session seeded with seed and resets it.
func NewSession(seed int64) *Session {
	s := &Session{}
	s.ResetWithSeed(seed)
	return s
}

// NewRandomSession creates a session with a random seed.
func NewRandomSession() *Session {
	return NewSession(RandomSeed())
}

// RandomSeed returns a non-negative seed from a cryptographic source.
func RandomSeed() int64 {
	return int64(frand.Uint64n(1 << 62))
}

func (s *Session) reseed(seed int64) {
	s.seed = seed
	s.src = rand.NewPCG(uint64(seed), pcgStream)
	s.rng = rand.New(s.src)
}

// ensureRNG lets a zero Session be used directly.
func (s *Session) ensureRNG() {
	if s.rng == nil {
		s.reseed(RandomSeed())
	}
}

// ResetWithSeed reseeds the random stream and starts a new game.
// The same seed and the same moves always produce the same game.
func (s *Session) ResetWithSeed(seed int64) Board {
	s.reseed(seed)
	return s.Reset()
}

// Reset starts a new game, continuing the current random stream.
func (s *Session) Reset() Board {
	s.ensureRNG()
	s.board = Board{}
	s.score = 0
	s.won = false

	SpawnTile(&s.board, s.rng)
	SpawnTile(&s.board, s.rng)

	return s.board
}

// Step applies dir, spawns a tile when the board changed, and reports the
// outcome. An out-of-range direction is rejected without changing state.
func (s *Session) Step(dir Direction) (StepResult, error) {
	res, err := Move(s.board, dir)
	if err != nil {
		return StepResult{}, err
	}

	s.ensureRNG()
	reward := 0
	info := StepInfo{
		Moved:  res.Moved,
		Merged: res.Merged,
	}

	if res.Moved {
		s.board = res.Board
		s.score += res.Score
		reward = res.Score
		if sp, ok := SpawnTile(&s.board, s.rng); ok {
			info.Spawned = &sp
		}
	} else {
		// Board didn't change - no score, no spawn
		info.InvalidMove = true
	}

	maxTile := s.board.MaxTile()
	s.won = maxTile >= WinTile
	done := IsDone(s.board)

	info.Score = s.score
	info.MaxTile = maxTile
	info.Won = s.won

	return StepResult{
		Board:  s.board,
		Reward: reward,
		Done:   done,
		Info:   info,
	}, nil
}

// Clone returns an independent copy whose future spawns match the
// original's from this point on.
func (s *Session) Clone() *Session {
	c := &Session{
		board: s.board,
		score: s.score,
		won:   s.won,
		seed:  s.seed,
	}
	if s.src != nil {
		// PCG state is two words; a value copy is an independent stream.
		src := *s.src
		c.src = &src
		c.rng = rand.New(c.src)
	}
	return c
}

// Board returns a copy of the current board.
func (s *Session) Board() Board { return s.board }

// Score returns the cumulative score.
func (s *Session) Score() int { return s.score }

// Won reports whether a 2048 tile has been reached.
func (s *Session) Won() bool { return s.won }

// Done reports whether no move is possible.
func (s *Session) Done() bool { return IsDone(s.board) }

// Seed returns the seed the session was last reseeded with.
func (s *Session) Seed() int64 { return s.seed }

// SetBoard replaces the board and score, e.g. to analyse a given position.
// The won flag is recomputed from the board.
func (s *Session) SetBoard(b Board, score int) {
	s.board = b
	s.score = score
	s.won = b.MaxTile() >= WinTile
}

// Render returns the board with a score line.
func (s *Session) Render() string {
	var sb strings.Builder
	sb.WriteString(s.board.String())
	fmt.Fprintf(&sb, "score=%d max_tile=%d\n", s.score, s.board.MaxTile())
	return sb.String()
}
