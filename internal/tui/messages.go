package tui

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateChangedMsg signals that the controller state changed
type StateChangedMsg struct{}

// WatchedAddedMsg signals that the open movie was added to the watched list
type WatchedAddedMsg struct {
	Title string
}

// WatchedDeletedMsg signals that an entry was removed from the watched list
type WatchedDeletedMsg struct {
	ID    string
	Title string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
