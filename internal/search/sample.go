package search

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash"

	"github.com/vovakirdan/twenty48/internal/game"
)

// sampleSeed hashes the position so that a chance node always expands the
// same cells, whichever order the search reaches it in.
func sampleSeed(board game.Board, score, depth int) uint64 {
	buf := make([]byte, 0, (game.Size*game.Size+2)*8)
	for _, v := range board.Cells() {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(score))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(depth))
	return xxhash.Sum64(buf)
}

// sampleCells picks k distinct cells from cells with a partial Fisher-Yates
// shuffle seeded from the position. cells is reordered in place.
func sampleCells(cells []game.Cell, k int, board game.Board, score, depth int) []game.Cell {
	if k >= len(cells) {
		return cells
	}
	seed := sampleSeed(board, score, depth)
	rng := rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(cells)-i)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells[:k]
}
