package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bassamadnan/mailsort/email"
)

// InboxFetchedMsg carries a freshly fetched batch, newest first, along with
// the channel on which classification progress will arrive.
type InboxFetchedMsg struct {
	Messages []email.Message
	Events   chan tea.Msg
}

// MessageClassifiedMsg reports one classified message of the running batch.
type MessageClassifiedMsg struct {
	Done    int
	Total   int
	Message email.Message
}

// BatchDoneMsg reports that the whole batch has been classified.
type BatchDoneMsg struct {
	Messages []email.Message
}

// ErrorMsg indicates an error occurred, typically from a command.
type ErrorMsg struct{ Err error }

// Error makes it compatible with the error interface.
func (e ErrorMsg) Error() string { return e.Err.Error() }

// StatusTickMsg drives timed status updates.
type StatusTickMsg struct{ Time time.Time }

// clearTempStatusMsg clears a temporary status message after a timeout.
type clearTempStatusMsg struct{}
