package game

import "math/rand/v2"

// Spawn4Prob is the probability that a spawned tile is a 4 instead of a 2.
const Spawn4Prob = 0.1

// Spawn describes a tile placed after a move.
type Spawn struct {
	Row   int
	Col   int
	Value int
}

// SpawnTile places a 2 or 4 on a uniformly chosen empty cell of board.
// It draws the cell index first and the value second, so seeded sessions
// replay identically. Returns false, without touching rng, when the board
// is full.
func SpawnTile(board *Board, rng *rand.Rand) (Spawn, bool) {
	emptyCells := board.EmptyCells()
	if len(emptyCells) == 0 {
		return Spawn{}, false
	}

	cell := emptyCells[rng.IntN(len(emptyCells))]

	value := 2
	if rng.Float64() < Spawn4Prob {
		value = 4
	}

	board[cell.Row][cell.Col] = value
	return Spawn{Row: cell.Row, Col: cell.Col, Value: value}, true
}
