package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"missionctl/internal/ports"
)

// sessionRestoredMsg reports the outcome of the startup restoration
type sessionRestoredMsg struct {
	err error
}

// loginDoneMsg reports the outcome of a login attempt
type loginDoneMsg struct {
	err error
}

// loggedOutMsg is sent after logout completed
type loggedOutMsg struct{}

// sessionExpiredMsg is sent when a request failed with an unrecoverable
// authorization error; the credentials are already cleared
type sessionExpiredMsg struct{}

// SessionExpired builds the message the runner injects when the session
// manager reports an unrecoverable authorization failure
func SessionExpired() tea.Msg {
	return sessionExpiredMsg{}
}

// pollTickMsg fires when the poll interval elapsed. Exactly one tick is
// outstanding at any time: the next one is scheduled only after the
// snapshot for the current one arrived.
type pollTickMsg struct{}

// snapshotMsg carries the result of one tracker poll
type snapshotMsg struct {
	snapshot *ports.MapSnapshot
	err      error
}
