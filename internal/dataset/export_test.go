package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/matryer/is"

	"github.com/vovakirdan/twenty48/internal/game"
)

func TestWriteJSONL(t *testing.T) {
	is := is.New(t)
	samples := []Sample{
		{GameSeed: 4, Step: 0, Board: game.Board{{2, 2}}, Action: game.Left, Reward: 4, Score: 4, MaxTile: 4, Depth: 3},
		{GameSeed: 4, Step: 1, Board: game.Board{{4, 0, 0, 2}}, Action: game.Down, Score: 4, MaxTile: 4, Done: true, Depth: 3},
	}

	var buf bytes.Buffer
	n, err := WriteJSONL(&buf, samples, 0)
	is.NoErr(err)
	is.Equal(n, 2)

	var recs []Record
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var r Record
		is.NoErr(json.Unmarshal(sc.Bytes(), &r))
		recs = append(recs, r)
	}
	is.Equal(len(recs), 2)
	is.Equal(recs[0].Board[0], 2)
	is.Equal(recs[0].Board[1], 2)
	is.Equal(recs[0].Action, int(game.Left))
	is.Equal(recs[1].Board[3], 2)
	is.True(recs[1].Done)
	is.Equal(len(recs[0].Planes), 0) // planes only when encoding
}

func TestWriteJSONLPlanes(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	_, err := WriteJSONL(&buf, []Sample{{Board: game.Board{{2}}}}, 4)
	is.NoErr(err)

	var r Record
	is.NoErr(json.Unmarshal(buf.Bytes(), &r))
	is.Equal(len(r.Planes), 5*16)
	is.Equal(r.Planes[1*16+0], float32(1)) // the 2 at (0,0) sits in channel 1
	is.Equal(r.Planes[0*16+0], float32(0))
	is.Equal(r.Planes[0*16+1], float32(1)) // (0,1) is empty
}
