package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/model"
)

// SubmitMsg is emitted by the form with a trimmed, non-empty title.
type SubmitMsg struct {
	Title       string
	Description model.Optional[string]
}

// CancelMsg is emitted by the form when the user backs out.
type CancelMsg struct{}

// IntentMsg carries a mutation request from a row up to the shell.
type IntentMsg struct{ Intent app.Intent }

type resultMsg struct{ result app.Result }

type clearStatusMsg struct{ seq int }

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
