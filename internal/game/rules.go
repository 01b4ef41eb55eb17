package game

// HasMerge reports whether two orthogonal neighbours hold the same tile.
func (b Board) HasMerge() bool {
	for _, m := range [2]Board{b, transpose(b)} {
		for _, row := range m {
			for x := 1; x < Size; x++ {
				if row[x] != 0 && row[x] == row[x-1] {
					return true
				}
			}
		}
	}
	return false
}

// HasMoves reports whether some direction changes the board.
func HasMoves(board Board) bool {
	return board.CountEmpty() > 0 || board.HasMerge()
}

// IsDone reports whether the game is over.
func IsDone(board Board) bool {
	return !HasMoves(board)
}
