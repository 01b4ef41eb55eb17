// Package tui provides the Bubble Tea front end: playing a session by
// hand, watching an agent play, browsing stored results and serving the
// same screens over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances an agent-driven game by one move.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
