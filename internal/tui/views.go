package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/search"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// render lays out nav bar, boxes and footer
func (m Model) render() string {
	boxes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.ResultsBox.View(m.renderResults()),
		m.RightBox.View(m.renderRight()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.SearchBar.View(),
		lipgloss.NewStyle().Height(max(m.Height-ChromeHeight, 0)).MaxHeight(max(m.Height-ChromeHeight, 0)).Render(boxes),
		m.renderFooter(),
	)
}

// renderResults renders the left box: loader, error or result list
func (m Model) renderResults() string {
	st := m.snap.Search
	switch {
	case st.Loading:
		return RenderSpinner(m.SpinnerFrame) + styles.DimStyle.Render(" Loading...")
	case st.Phase == search.PhaseError:
		return RenderError(st.Message())
	case m.Results.Len() == 0:
		return styles.DimStyle.Render(m.emptyHint())
	default:
		return m.Results.View()
	}
}

func (m Model) emptyHint() string {
	if m.snap.Query == "" {
		return "Start typing to search"
	}
	return fmt.Sprintf("Type at least %d characters", m.ctrl.MinQueryLength())
}

// renderRight renders the movie detail when one is open, the watched list otherwise
func (m Model) renderRight() string {
	if m.snap.DetailOpen() {
		return m.Detail.View()
	}
	return m.Watched.View()
}

// renderFooter renders the status on the left and key hints on the right
func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	}

	right := renderHints(m.hints())

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough space: status wins
		return styles.Truncate(left, m.Width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// hints returns the bindings relevant to the current focus
func (m Model) hints() []key.Binding {
	k := m.Keys
	switch {
	case m.SearchBar.Focused():
		return []key.Binding{k.Enter, k.Escape}
	case m.Watched.IsFilterTyping():
		return []key.Binding{k.Escape}
	case m.snap.DetailOpen():
		if m.snap.WatchedRating > 0 {
			return []key.Binding{k.Escape, k.Search, k.Quit}
		}
		return []key.Binding{k.Rate, k.Add, k.Escape, k.Search, k.Quit}
	case m.Active == PaneRight:
		return []key.Binding{k.Delete, k.Filter, k.SwitchPane, k.Search, k.Quit}
	default:
		return []key.Binding{k.Enter, k.SwitchPane, k.ToggleResults, k.Search, k.Quit}
	}
}

func renderHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}

// RenderError renders an error message
func RenderError(msg string) string {
	return styles.ErrorStyle.Render("⛔ " + msg)
}
