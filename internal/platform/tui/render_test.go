package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/twenty48/internal/storage"
)

func TestTileLabel(t *testing.T) {
	tests := []struct {
		v    int
		want string
	}{
		{0, "·"},
		{2, "2"},
		{2048, "2048"},
		{65536, "65536"},
		{131072, "128k"},
		{1 << 21, "2M"},
	}
	for _, tt := range tests {
		if got := tileLabel(tt.v); got != tt.want {
			t.Errorf("tileLabel(%d) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	out := RenderBoard(lastMoveBoard)
	for _, label := range []string{"·", "2", "4", "8", "16", "32"} {
		assert.Contains(t, out, label)
	}
	// Four rows of tiles plus the top and bottom border.
	assert.Equal(t, 4*tileHeight+2, lipgloss.Height(out))
	assert.Equal(t, 4*tileWidth+2, lipgloss.Width(out))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "   ab", centerText("ab", 8))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}

func TestScoreboardTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, g := range []storage.GameRecord{
		{Agent: "expectimax", FinalScore: 3000, MaxTile: 256, Steps: 300},
		{Agent: "human", FinalScore: 1200, MaxTile: 128, Steps: 150},
		{Agent: "expectimax", FinalScore: 5000, MaxTile: 512, Steps: 420},
	} {
		_, err := store.SaveGame(g)
		require.NoError(t, err)
	}

	m := NewScoreboardModel(store, 100, 30)
	assert.Equal(t, []string{allAgents, "expectimax", "human"}, m.agents)
	require.Len(t, m.games, 3)
	assert.Equal(t, 5000, m.games[0].FinalScore)
	assert.Nil(t, m.stats)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "expectimax", m.current())
	require.Len(t, m.games, 2)
	require.NotNil(t, m.stats)
	assert.Equal(t, 2, m.stats.GamesCount)
	assert.Contains(t, m.View(), "HIGH SCORES - expectimax")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "human", m.current())
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	assert.Equal(t, []string{allAgents}, m.agents)
	assert.True(t, strings.Contains(m.View(), "No games recorded yet."))
}

func TestSSHModelFor(t *testing.T) {
	srv := &SSHServer{config: DefaultSSHServerConfig()}

	m, err := srv.modelFor(nil, 80, 24)
	require.NoError(t, err)
	assert.False(t, m.(Model).Watching())

	m, err = srv.modelFor([]string{"watch", "greedy"}, 80, 24)
	require.NoError(t, err)
	assert.Equal(t, "greedy", m.(Model).Player())

	m, err = srv.modelFor([]string{"scores"}, 80, 24)
	require.NoError(t, err)
	assert.IsType(t, ScoreboardModel{}, m)

	_, err = srv.modelFor([]string{"watch", "oracle"}, 80, 24)
	assert.Error(t, err)

	_, err = srv.modelFor([]string{"dance"}, 80, 24)
	assert.Error(t, err)
}
