// Package game implements the 4x4 sliding-tile rules: line reduction,
// directional moves, terminal detection, tile spawning and a seeded session.
package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the board dimension.
const Size = 4

// WinTile is the tile value that marks a session as won.
const WinTile = 2048

// Board represents a 4x4 game board. Cells are 0 (empty) or a power of two.
type Board [Size][Size]int

// Cell addresses a single board position.
type Cell struct {
	Row int
	Col int
}

// Direction represents a move direction.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every direction in encoding order.
var Directions = [...]Direction{Up, Right, Down, Left}

// SearchOrder is the order in which agents try directions. Ties between
// equally valued moves go to the direction that comes first here.
var SearchOrder = [...]Direction{Left, Down, Up, Right}

// Valid reports whether d is one of the four encoded directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// String returns the upper-case direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Right:
		return "RIGHT"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDirection accepts a direction name (any case, or its first letter)
// or its numeric encoding.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "0":
		return Up, nil
	case "right", "r", "1":
		return Right, nil
	case "down", "d", "2":
		return Down, nil
	case "left", "l", "3":
		return Left, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MaxTile returns the maximum tile value on the board.
func (b Board) MaxTile() int {
	maxVal := 0
	for y := range Size {
		for x := range Size {
			if b[y][x] > maxVal {
				maxVal = b[y][x]
			}
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (b Board) Sum() int {
	total := 0
	for y := range Size {
		for x := range Size {
			total += b[y][x]
		}
	}
	return total
}

// EmptyCells returns the empty positions in row-major order.
func (b Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, Size*Size)
	for y := range Size {
		for x := range Size {
			if b[y][x] == 0 {
				cells = append(cells, Cell{Row: y, Col: x})
			}
		}
	}
	return cells
}

// CountEmpty returns the number of empty cells.
func (b Board) CountEmpty() int {
	n := 0
	for y := range Size {
		for x := range Size {
			if b[y][x] == 0 {
				n++
			}
		}
	}
	return n
}

// Cells returns the board flattened in row-major order.
func (b Board) Cells() [Size * Size]int {
	var out [Size * Size]int
	for y := range Size {
		for x := range Size {
			out[y*Size+x] = b[y][x]
		}
	}
	return out
}

// BoardFromCells builds a board from a row-major list of 16 values.
func BoardFromCells(cells []int) (Board, error) {
	var b Board
	if len(cells) != Size*Size {
		return b, fmt.Errorf("game: board needs %d cells, got %d", Size*Size, len(cells))
	}
	for i, v := range cells {
		if v != 0 && (v < 2 || v&(v-1) != 0) {
			return b, fmt.Errorf("game: cell %d holds %d, not a power of two", i, v)
		}
		b[i/Size][i%Size] = v
	}
	return b, nil
}

// ParseBoard reads 16 whitespace or comma separated values in row-major order.
func ParseBoard(s string) (Board, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '/'
	})
	cells := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Board{}, fmt.Errorf("game: bad cell %q: %w", f, err)
		}
		cells = append(cells, v)
	}
	return BoardFromCells(cells)
}

// Key returns the compact row-major text form used for storage,
// e.g. "2,0,0,4,...".
func (b Board) Key() string {
	var sb strings.Builder
	for i, v := range b.Cells() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// String draws the board as a boxed text grid.
func (b Board) String() string {
	const sep = "+----+----+----+----+\n"
	var sb strings.Builder
	sb.WriteString(sep)
	for y := range Size {
		sb.WriteByte('|')
		for x := range Size {
			if b[y][x] == 0 {
				sb.WriteString("    ")
			} else {
				fmt.Fprintf(&sb, "%4d", b[y][x])
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
		sb.WriteString(sep)
	}
	return sb.String()
}
