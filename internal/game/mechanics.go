package game

import (
	"errors"
	"fmt"
)

// ErrInvalidDirection is returned when a direction is outside Up..Left.
var ErrInvalidDirection = errors.New("game: invalid direction")

// RowMerge lists the tiles created by merges in one oriented row.
type RowMerge struct {
	Row    int
	Merged []int
}

// MoveResult is the outcome of applying a direction to a board.
type MoveResult struct {
	Board  Board
	Score  int
	Moved  bool
	Merged []RowMerge
}

// reduceLine slides a single line to the left and merges equal neighbours.
// Returns the new line, the score gained and the merged tile values.
func reduceLine(line [Size]int) ([Size]int, int, []int) {
	var merged []int
	result, score := slideLine(line, &merged)
	return result, score, merged
}

// slideLine is reduceLine without allocation when merged is nil.
// A tile produced by a merge never merges again in the same pass.
func slideLine(line [Size]int, merged *[]int) (result [Size]int, score int) {
	var tiles [Size]int
	n := 0
	for _, v := range line {
		if v != 0 {
			tiles[n] = v
			n++
		}
	}

	out := 0
	for i := 0; i < n; {
		if i+1 < n && tiles[i] == tiles[i+1] {
			v := tiles[i] * 2
			result[out] = v
			if merged != nil {
				*merged = append(*merged, v)
			}
			score += v
			i += 2
		} else {
			result[out] = tiles[i]
			i++
		}
		out++
	}

	return result, score
}

// transpose returns the matrix transpose.
func transpose(board Board) Board {
	var result Board
	for y := range Size {
		for x := range Size {
			result[y][x] = board[x][y]
		}
	}
	return result
}

// flip mirrors the columns of every row.
func flip(board Board) Board {
	var result Board
	for y := range Size {
		for x := range Size {
			result[y][x] = board[y][Size-1-x]
		}
	}
	return result
}

func identity(board Board) Board { return board }

func transposeFlip(board Board) Board { return flip(transpose(board)) }

func flipTranspose(board Board) Board { return transpose(flip(board)) }

// orientation maps a board so that the move becomes a slide to the left,
// and back again.
type orientation struct {
	forward func(Board) Board
	inverse func(Board) Board
}

var orientations = [...]orientation{
	Up:    {forward: transpose, inverse: transpose},
	Right: {forward: flip, inverse: flip},
	Down:  {forward: transposeFlip, inverse: flipTranspose},
	Left:  {forward: identity, inverse: identity},
}

// Move performs a move in the given direction and reports the merges of
// every oriented row. The input board is never modified.
func Move(board Board, dir Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{Board: board}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}

	o := orientations[dir]
	oriented := o.forward(board)

	var slid Board
	res := MoveResult{Merged: make([]RowMerge, 0, Size)}
	for y := range Size {
		row, score, merged := reduceLine(oriented[y])
		slid[y] = row
		res.Score += score
		res.Merged = append(res.Merged, RowMerge{Row: y, Merged: merged})
	}

	res.Board = o.inverse(slid)
	res.Moved = res.Board != board
	return res, nil
}

// ApplyMove slides the board in dir and returns the new board, the score
// gained and whether any cell changed. It panics on an invalid direction,
// which is a programming error for callers iterating Directions.
func ApplyMove(board Board, dir Direction) (Board, int, bool) {
	if !dir.Valid() {
		panic(fmt.Sprintf("game: ApplyMove with invalid direction %d", int(dir)))
	}

	o := orientations[dir]
	oriented := o.forward(board)

	var slid Board
	total := 0
	for y := range Size {
		row, score := slideLine(oriented[y], nil)
		slid[y] = row
		total += score
	}

	next := o.inverse(slid)
	return next, total, next != board
}

// LegalDirections returns the directions that change the board, in
// encoding order.
func LegalDirections(board Board) []Direction {
	dirs := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if _, _, moved := ApplyMove(board, d); moved {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
