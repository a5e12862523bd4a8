package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/popcorn/internal/controller"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/search"
	"github.com/mmcdole/popcorn/internal/tui/components"
)

// Pane identifies which box receives navigation keys
type Pane int

const (
	PaneResults Pane = iota
	PaneRight        // Movie detail or watched list
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second
)

// Options configures the model
type Options struct {
	Logo       string // Shown in the nav bar
	MaxResults int    // Cap on rendered search results (0 = no cap)
}

// Model is the main Bubble Tea model for the application
type Model struct {
	ctrl     *controller.Controller
	env      *Environment
	notifier *ChangeNotifier
	Keys     KeyMap

	// UI components
	SearchBar  components.SearchBar
	Results    components.ResultList
	Detail     components.DetailPane
	Watched    components.WatchedPane
	ResultsBox components.Box
	RightBox   components.Box

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	Active       Pane
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	snap       controller.Snapshot
	maxResults int
}

// NewModel creates the application model. env must be the Environment the
// controller was built with and notifier must receive its change callbacks.
func NewModel(ctrl *controller.Controller, env *Environment, notifier *ChangeNotifier, opts Options) Model {
	if opts.Logo == "" {
		opts.Logo = controller.DefaultTitle
	}

	m := Model{
		ctrl:       ctrl,
		env:        env,
		notifier:   notifier,
		Keys:       DefaultKeyMap(),
		SearchBar:  components.NewSearchBar(opts.Logo),
		Results:    components.NewResultList(),
		Detail:     components.NewDetailPane(),
		Watched:    components.NewWatchedPane(),
		ResultsBox: components.NewBox("Results"),
		RightBox:   components.NewBox("Watched"),
		Active:     PaneResults,
		maxResults: opts.MaxResults,
	}

	// Start with the cursor in the search box
	ctrl.FocusSearch()
	m.refresh()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForChangeCmd(m.notifier.C()),
		TickCmd(tickInterval),
		textinput.Blink,
		tea.SetWindowTitle(m.env.Title()),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m.refreshed()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StateChangedMsg:
		return m.refreshed(WaitForChangeCmd(m.notifier.C()))

	case TickMsg:
		m.SpinnerFrame++
		m.Detail.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case WatchedAddedMsg:
		cmd := m.setStatus(fmt.Sprintf("Added %q to watched", msg.Title), false)
		m.Active = PaneRight
		return m.refreshed(cmd)

	case WatchedDeletedMsg:
		cmd := m.setStatus(fmt.Sprintf("Removed %q", msg.Title), false)
		return m.refreshed(cmd)

	case ErrMsg:
		text := domain.UserMessage(msg.Err)
		if text == "" {
			return m, nil
		}
		cmd := m.setStatus(text, true)
		return m, cmd

	case StatusMsg:
		cmd := m.setStatus(msg.Message, msg.IsError)
		return m, cmd

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}

	// Search box owns the keyboard while focused
	if m.SearchBar.Focused() {
		switch k {
		case "esc":
			m.ctrl.BlurSearch()
			return m.refreshed()
		case "enter", "tab", "down":
			m.ctrl.BlurSearch()
			m.setActive(PaneResults)
			return m.refreshed()
		}
		cmd, changed := m.SearchBar.Update(msg)
		if changed {
			m.ctrl.SetQuery(m.SearchBar.Value())
		}
		return m.refreshed(cmd)
	}

	if m.Watched.IsFilterTyping() {
		cmd, query, changed := m.Watched.UpdateFilter(msg)
		if changed {
			m.ctrl.SetWatchedFilter(query)
		}
		return m.refreshed(cmd)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Search):
		m.ctrl.FocusSearch()
		return m.refreshed()

	case key.Matches(msg, m.Keys.SwitchPane):
		if m.Active == PaneResults {
			m.setActive(PaneRight)
		} else {
			m.setActive(PaneResults)
		}
		return m, nil

	case key.Matches(msg, m.Keys.ToggleResults):
		m.ResultsBox.Toggle()
		m.updateLayout()
		return m, nil

	case key.Matches(msg, m.Keys.ToggleDetail):
		m.RightBox.Toggle()
		m.updateLayout()
		return m, nil
	}

	if m.Active == PaneResults && !m.ResultsBox.Collapsed && m.Results.Update(msg) {
		if id, ok := m.Results.TakeSelection(); ok {
			m.ctrl.Select(id)
		}
		return m.refreshed()
	}

	if m.snap.DetailOpen() {
		if cmd, ok := m.handleDetailKey(msg); ok {
			return m, cmd
		}
	} else if m.Active == PaneRight {
		if cmd, ok := m.handleWatchedKey(msg); ok {
			return m, cmd
		}
	}

	// Remaining keys go to the hooks the controller registered
	if m.env.Dispatch(k) {
		return m.refreshed()
	}
	return m, nil
}

// handleDetailKey handles rating and add while a movie is open
func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	rating := m.Detail.Rating()

	switch {
	case key.Matches(msg, m.Keys.Rate):
		if n, ok := components.RatingForKey(msg.String()); ok {
			m.ctrl.SetRating(n)
			return m.refresh(), true
		}
	case key.Matches(msg, m.Keys.RateUp):
		m.ctrl.SetRating(rating.Increment())
		return m.refresh(), true
	case key.Matches(msg, m.Keys.RateDown):
		m.ctrl.SetRating(rating.Decrement())
		return m.refresh(), true
	case key.Matches(msg, m.Keys.Add):
		if m.snap.Detail.Movie == nil {
			return nil, true
		}
		return AddWatchedCmd(m.ctrl, m.snap.Detail.Movie.Title()), true
	}
	return nil, false
}

// handleWatchedKey handles navigation, delete and filter in the watched list
func (m *Model) handleWatchedKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.RightBox.Collapsed {
		return nil, false
	}
	if m.Watched.Update(msg) {
		return nil, true
	}

	switch {
	case key.Matches(msg, m.Keys.Delete):
		entry, ok := m.Watched.Selected()
		if !ok {
			return nil, true
		}
		return DeleteWatchedCmd(m.ctrl, entry.ID, entry.Title), true
	case key.Matches(msg, m.Keys.Filter):
		return m.Watched.StartFilter(), true
	}
	return nil, false
}

// refresh copies the controller snapshot into the components
func (m *Model) refresh() tea.Cmd {
	snap := m.ctrl.Snapshot()
	m.snap = snap

	var cmds []tea.Cmd

	switch {
	case snap.SearchFocused && !m.SearchBar.Focused():
		cmds = append(cmds, m.SearchBar.Focus())
	case !snap.SearchFocused && m.SearchBar.Focused():
		m.SearchBar.Blur()
	}
	m.SearchBar.SetValue(snap.Query)

	// The loader and error screen replace the list, so nothing behind them
	// may be counted or selected
	movies := snap.Search.Movies
	if snap.Search.Loading || snap.Search.Phase == search.PhaseError {
		movies = nil
	}
	if m.maxResults > 0 && len(movies) > m.maxResults {
		movies = movies[:m.maxResults]
	}
	m.Results.SetMovies(movies, snap.Query)
	m.Results.SetOpen(snap.SelectedID)
	m.Results.SetWatched(snap.WatchedIDs)
	m.SearchBar.SetFound(len(movies))

	m.Detail.SetState(snap.Detail, snap.Rating, snap.WatchedRating)
	m.Watched.SetData(snap.Summary, snap.Watched)

	if snap.DetailOpen() {
		m.RightBox.Title = "Movie"
		if snap.Detail.Movie != nil {
			m.RightBox.Title = snap.Detail.Movie.Title()
		}
	} else {
		m.RightBox.Title = "Watched"
	}
	m.applyFocus()

	if title, ok := m.env.TakeTitle(); ok {
		cmds = append(cmds, tea.SetWindowTitle(title))
	}
	return tea.Batch(cmds...)
}

// refreshed applies the latest snapshot and returns the model with cmds
func (m Model) refreshed(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmds = append(cmds, m.refresh())
	return m, tea.Batch(cmds...)
}

func (m *Model) setActive(p Pane) {
	m.Active = p
	m.applyFocus()
}

func (m *Model) applyFocus() {
	typing := m.SearchBar.Focused()
	m.ResultsBox.Focused = !typing && m.Active == PaneResults
	m.RightBox.Focused = !typing && m.Active == PaneRight
	m.Results.SetFocused(m.ResultsBox.Focused)
	m.Watched.SetFocused(m.RightBox.Focused && !m.snap.DetailOpen())
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	return m.render()
}
