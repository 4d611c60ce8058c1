package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/sensescan/internal/scan"
)

// scanCompleteMsg carries a finished request back onto the UI thread
type scanCompleteMsg struct {
	outcome scan.Outcome
}

// tickMsg drives the spinner while a scan is in flight
type tickMsg time.Time

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// scanCommand runs req off the UI thread and reports its outcome
func scanCommand(req scan.Request) tea.Cmd {
	return func() tea.Msg {
		return scanCompleteMsg{outcome: req()}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
