package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// lastMoveBoard has one legal move (left) which leaves a single empty
// cell; whatever spawns there, the game is over.
var lastMoveBoard = game.Board{
	{0, 2, 4, 8},
	{4, 8, 16, 32},
	{2, 4, 8, 16},
	{4, 8, 16, 32},
}

func TestKeyMapDirection(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want game.Direction
		ok   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, game.Up, true},
		{tea.KeyMsg{Type: tea.KeyRight}, game.Right, true},
		{tea.KeyMsg{Type: tea.KeyDown}, game.Down, true},
		{tea.KeyMsg{Type: tea.KeyLeft}, game.Left, true},
		{runes("w"), game.Up, true},
		{runes("d"), game.Right, true},
		{runes("j"), game.Down, true},
		{runes("h"), game.Left, true},
		{runes("x"), game.Up, false},
		{runes("q"), game.Up, false},
	}

	for _, tt := range tests {
		got, ok := keys.Direction(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Direction(%q) = %v, %v; want %v, %v", tt.msg.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestHumanMoveMatchesSession(t *testing.T) {
	m := NewModel(Options{Seed: 42})
	want := game.NewSession(42)
	_, err := want.Step(game.Left)
	require.NoError(t, err)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	assert.Equal(t, want.Board(), m.Session().Board())
	assert.Equal(t, want.Score(), m.Session().Score())
	assert.Equal(t, 1, m.steps)
	assert.Equal(t, HumanPlayer, m.Player())
}

func TestHumanIgnoresTicks(t *testing.T) {
	m := NewModel(Options{Seed: 3})
	before := m.Session().Board()
	m, cmd := update(t, m, TickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.Session().Board())
	assert.Nil(t, m.Init())
}

func TestWatchTickPlaysAgentMove(t *testing.T) {
	m := NewModel(Options{Seed: 7, Agent: agent.NewRandom(1)})
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, TickMsg{})
	assert.NotNil(t, cmd, "watch mode keeps ticking")
	assert.Equal(t, 1, m.steps)
	assert.Equal(t, "random", m.Player())

	// Movement keys are ignored while an agent plays.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.steps)
}

func TestWatchPauseAndSpeed(t *testing.T) {
	m := NewModel(Options{Seed: 7, Agent: agent.NewRandom(1), Tick: DefaultTick})

	m, _ = update(t, m, runes("p"))
	require.True(t, m.paused)
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, 0, m.steps)
	assert.Contains(t, m.View(), "paused")

	m, _ = update(t, m, runes("+"))
	assert.Equal(t, DefaultTick/2, m.tick)
	m, _ = update(t, m, runes("-"))
	m, _ = update(t, m, runes("-"))
	assert.Equal(t, DefaultTick*2, m.tick)
}

func TestQuit(t *testing.T) {
	m := NewModel(Options{Seed: 1})
	m, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestHint(t *testing.T) {
	m := NewModel(Options{Seed: 1})
	m, _ = update(t, m, runes("i"))
	assert.True(t, strings.HasPrefix(m.hint, "hint: "))
	assert.Contains(t, m.View(), "hint: ")
}

func TestGameOverIsSavedOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := NewModel(Options{Seed: 5, Store: store})
	m.Session().SetBoard(lastMoveBoard, 100)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	require.True(t, m.Session().Done())
	assert.Contains(t, m.View(), "Game over")

	// Further keys change nothing and do not save again.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.steps)

	games, err := store.TopGames(HumanPlayer, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 100, games[0].FinalScore)
	assert.Equal(t, 1, games[0].Steps)
	assert.Equal(t, 1, games[0].MovedSteps)
	assert.Equal(t, int64(5), games[0].Seed)
	assert.Equal(t, 32, games[0].MaxTile)

	// A new model picks up the stored best score.
	assert.Equal(t, 100, NewModel(Options{Seed: 6, Store: store}).best)
}

func TestRestart(t *testing.T) {
	m := NewModel(Options{Seed: 5})
	m.Session().SetBoard(lastMoveBoard, 100)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	require.True(t, m.Session().Done())

	m, _ = update(t, m, runes("r"))
	assert.False(t, m.Session().Done())
	assert.Equal(t, 0, m.Session().Score())
	assert.Equal(t, 0, m.steps)
	assert.Equal(t, 14, m.Session().Board().CountEmpty())
}

func TestWindowSize(t *testing.T) {
	m := NewModel(Options{Seed: 1})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
