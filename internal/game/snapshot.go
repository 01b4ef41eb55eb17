package game

// StateType represents the current session state.
type StateType string

const (
	StatePlaying StateType = "playing"
	StateWon     StateType = "won"
	StateOver    StateType = "game_over"
)

// Snapshot captures the complete session state for determinism testing and
// replay.
type Snapshot struct {
	Seed    int64
	Score   int
	Board   Board
	MaxTile int
	Empty   int
	State   StateType
}

// Snapshot returns the current session snapshot. A won session keeps
// playing until it runs out of moves, so Over takes precedence over Won.
func (s *Session) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case IsDone(s.board):
		state = StateOver
	case s.won:
		state = StateWon
	}

	return Snapshot{
		Seed:    s.seed,
		Score:   s.score,
		Board:   s.board,
		MaxTile: s.board.MaxTile(),
		Empty:   s.board.CountEmpty(),
		State:   state,
	}
}
