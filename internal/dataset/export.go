package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vovakirdan/twenty48/internal/game"
)

// Record is the JSON Lines form of a Sample. Planes is set only when the
// export encodes boards.
type Record struct {
	Seed    int64                      `json:"seed"`
	Step    int                        `json:"step"`
	Board   [game.Size * game.Size]int `json:"board"`
	Action  int                        `json:"action"`
	Reward  int                        `json:"reward"`
	Score   int                        `json:"score"`
	MaxTile int                        `json:"max_tile"`
	Done    bool                       `json:"done"`
	Depth   int                        `json:"depth"`
	Planes  []float32                  `json:"planes,omitempty"`
}

// WriteJSONL writes one Record per line. With maxPow > 0 each record also
// carries the Encode planes of its board.
func WriteJSONL(w io.Writer, samples []Sample, maxPow int) (int, error) {
	enc := json.NewEncoder(w)
	for i, s := range samples {
		rec := Record{
			Seed:    s.GameSeed,
			Step:    s.Step,
			Board:   s.Board.Cells(),
			Action:  int(s.Action),
			Reward:  s.Reward,
			Score:   s.Score,
			MaxTile: s.MaxTile,
			Done:    s.Done,
			Depth:   s.Depth,
		}
		if maxPow > 0 {
			rec.Planes = Encode(s.Board, maxPow).Data
		}
		if err := enc.Encode(rec); err != nil {
			return i, fmt.Errorf("dataset: write sample %d: %w", i, err)
		}
	}
	return len(samples), nil
}
