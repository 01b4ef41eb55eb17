package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/twenty48/internal/game"
)

const (
	tileWidth  = 7
	tileHeight = 3
)

// tileColors holds background and foreground per tile value. Values past
// the table share the last entry.
var tileColors = []struct {
	value  int
	bg, fg lipgloss.Color
}{
	{0, "237", "240"},
	{2, "255", "236"},
	{4, "230", "236"},
	{8, "215", "231"},
	{16, "209", "231"},
	{32, "203", "231"},
	{64, "196", "231"},
	{128, "229", "236"},
	{256, "228", "236"},
	{512, "227", "236"},
	{1024, "221", "231"},
	{2048, "220", "231"},
	{4096, "99", "231"},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	overStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	wonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// tileStyle returns the style for a tile value.
func tileStyle(v int) lipgloss.Style {
	c := tileColors[len(tileColors)-1]
	for _, tc := range tileColors {
		if tc.value == v {
			c = tc
			break
		}
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(v >= 8).
		Background(c.bg).
		Foreground(c.fg)
}

// tileLabel returns the text drawn on a tile; large values are shortened
// so they fit the tile width.
func tileLabel(v int) string {
	switch {
	case v == 0:
		return "·"
	case v >= 1<<20:
		return strconv.Itoa(v>>20) + "M"
	case v >= 100000:
		return strconv.Itoa(v>>10) + "k"
	}
	return strconv.Itoa(v)
}

// RenderBoard draws the grid as coloured tiles.
func RenderBoard(b game.Board) string {
	rows := make([]string, game.Size)
	for r := range game.Size {
		tiles := make([]string, game.Size)
		for c := range game.Size {
			tiles[c] = tileStyle(b[r][c]).Render(tileLabel(b[r][c]))
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHUD draws the score line above the board.
func renderHUD(score, best, maxTile int, width int) string {
	parts := []string{
		fmt.Sprintf("Score: %d", score),
		fmt.Sprintf("Max: %d", maxTile),
	}
	if best > 0 {
		parts = append(parts, fmt.Sprintf("Best: %d", max(best, score)))
	}
	line := strings.Join(parts, "   ")
	return hudStyle.Width(width).Align(lipgloss.Center).Render(line)
}

// centerText pads text on the left so it is centred in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centres every line of a multi-line block.
func centerBlock(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
