package dataset

import (
	"math/bits"

	"github.com/vovakirdan/twenty48/internal/game"
)

// DefaultMaxPow is the highest exponent with its own channel (2^15).
const DefaultMaxPow = 15

// Tensor is a dense channels x 4 x 4 float32 array in channel-major order.
type Tensor struct {
	Channels int
	Data     []float32
}

// At returns the value at channel c, row r, column col.
func (t Tensor) At(c, r, col int) float32 {
	return t.Data[(c*game.Size+r)*game.Size+col]
}

// Encode one-hot encodes b into maxPow+1 channels. Channel 0 marks empty
// cells and channel k marks tiles of value 2^k; larger tiles land in
// channel maxPow.
func Encode(b game.Board, maxPow int) Tensor {
	if maxPow < 1 {
		maxPow = DefaultMaxPow
	}
	t := Tensor{
		Channels: maxPow + 1,
		Data:     make([]float32, (maxPow+1)*game.Size*game.Size),
	}
	for r := range game.Size {
		for c := range game.Size {
			ch := 0
			if v := b[r][c]; v > 0 {
				ch = min(max(bits.Len(uint(v))-1, 1), maxPow)
			}
			t.Data[(ch*game.Size+r)*game.Size+c] = 1
		}
	}
	return t
}
