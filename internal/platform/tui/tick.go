// Package tui provides the Bubble Tea front-end for the pipes puzzle.
// It handles the terminal UI loop, input mapping, and board rendering.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FlowTickMsg is sent to reveal the next cell of the water path.
type FlowTickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < 1 {
		tickRate = 1
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FlowTickMsg(t)
	})
}
