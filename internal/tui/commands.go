package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/popcorn/internal/controller"
)

// Command factories for async operations

// WaitForChangeCmd blocks until the controller reports a change
func WaitForChangeCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StateChangedMsg{}
	}
}

// AddWatchedCmd adds the open movie to the watched list
func AddWatchedCmd(ctrl *controller.Controller, title string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.AddWatched(); err != nil {
			return ErrMsg{Err: err, Context: "adding to watched"}
		}
		return WatchedAddedMsg{Title: title}
	}
}

// DeleteWatchedCmd removes an entry from the watched list
func DeleteWatchedCmd(ctrl *controller.Controller, id, title string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.DeleteWatched(id); err != nil {
			return ErrMsg{Err: err, Context: "removing from watched"}
		}
		return WatchedDeletedMsg{ID: id, Title: title}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
