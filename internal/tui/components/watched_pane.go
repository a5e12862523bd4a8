package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// WatchedPane shows the watched summary and list with an optional filter
type WatchedPane struct {
	summary  domain.WatchedSummary
	entries  []domain.WatchedEntry
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool

	filterActive bool
	filterInput  textinput.Model
}

// NewWatchedPane creates an empty watched pane
func NewWatchedPane() WatchedPane {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 50
	ti.Prompt = "f "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return WatchedPane{filterInput: ti}
}

// SetData updates the pane from a controller snapshot
func (w *WatchedPane) SetData(summary domain.WatchedSummary, entries []domain.WatchedEntry) {
	w.summary = summary
	w.entries = entries
	if w.cursor >= len(entries) {
		w.cursor = max(len(entries)-1, 0)
	}
	w.ensureVisible()
}

// SetSize sets the content area size
func (w *WatchedPane) SetSize(width, height int) {
	w.width = width
	w.height = height
	w.filterInput.Width = max(width-4, 5)
	w.ensureVisible()
}

// SetFocused sets keyboard focus
func (w *WatchedPane) SetFocused(focused bool) {
	w.focused = focused
}

// Selected returns the entry under the cursor
func (w *WatchedPane) Selected() (domain.WatchedEntry, bool) {
	if w.cursor < 0 || w.cursor >= len(w.entries) {
		return domain.WatchedEntry{}, false
	}
	return w.entries[w.cursor], true
}

// StartFilter shows and focuses the filter input
func (w *WatchedPane) StartFilter() tea.Cmd {
	w.filterActive = true
	return w.filterInput.Focus()
}

// IsFilterTyping reports whether keys go to the filter input
func (w *WatchedPane) IsFilterTyping() bool {
	return w.filterActive && w.filterInput.Focused()
}

// ClearFilter hides and empties the filter
func (w *WatchedPane) ClearFilter() {
	w.filterActive = false
	w.filterInput.SetValue("")
	w.filterInput.Blur()
}

// UpdateFilter routes a key to the filter input. It returns the new query and
// whether it changed.
func (w *WatchedPane) UpdateFilter(msg tea.KeyMsg) (tea.Cmd, string, bool) {
	before := w.filterInput.Value()

	switch msg.String() {
	case "esc":
		w.ClearFilter()
		return nil, "", before != ""
	case "enter":
		w.filterInput.Blur()
		return nil, before, false
	case "backspace":
		if before == "" {
			w.ClearFilter()
			return nil, "", false
		}
	}

	var cmd tea.Cmd
	w.filterInput, cmd = w.filterInput.Update(msg)
	after := w.filterInput.Value()
	if after != before {
		w.cursor = 0
		w.offset = 0
	}
	return cmd, after, after != before
}

// Update handles navigation keys and reports whether the key was consumed
func (w *WatchedPane) Update(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !w.focused || len(w.entries) == 0 {
		return false
	}
	switch km.String() {
	case "j", "down":
		if w.cursor < len(w.entries)-1 {
			w.cursor++
		}
	case "k", "up":
		if w.cursor > 0 {
			w.cursor--
		}
	case "g", "home":
		w.cursor = 0
	case "G", "end":
		w.cursor = len(w.entries) - 1
	default:
		return false
	}
	w.ensureVisible()
	return true
}

// View renders the summary, list and filter bar
func (w WatchedPane) View() string {
	var b strings.Builder
	b.WriteString(w.renderSummary())
	b.WriteString("\n")

	if len(w.entries) == 0 {
		msg := "Rate a movie to add it here"
		if w.filterInput.Value() != "" {
			msg = "No matches"
		}
		b.WriteString("\n" + styles.DimStyle.Render(msg))
	} else {
		end := min(w.offset+w.visibleRows(), len(w.entries))
		for i := w.offset; i < end; i++ {
			b.WriteString("\n")
			b.WriteString(w.renderEntry(w.entries[i], w.focused && i == w.cursor))
		}
	}

	if w.filterActive {
		b.WriteString("\n" + w.filterInput.View())
	}
	return b.String()
}

func (w WatchedPane) renderSummary() string {
	s := w.summary
	line1 := styles.TitleStyle.Render("MOVIES YOU WATCHED")
	line2 := fmt.Sprintf("#️⃣ %d movies   ⭐️ %.2f   🌟 %.2f   ⏳ %d min",
		s.Count, s.AvgRating, s.AvgUserRating, int(s.AvgRuntime))
	return line1 + "\n" + styles.SubtitleStyle.Render(line2)
}

func (w WatchedPane) renderEntry(e domain.WatchedEntry, selected bool) string {
	stats := fmt.Sprintf(" ⭐️ %.1f 🌟 %d ⏳ %d min", e.Rating, e.UserRating, e.Runtime)
	titleWidth := w.width - 2 - lipgloss.Width(stats)
	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: styles.Pad(styles.Truncate(e.Title, titleWidth), max(titleWidth, 0))},
		{Text: stats, Foreground: &dim},
	}
	return styles.RenderListRow(parts, selected, w.width)
}

func (w WatchedPane) visibleRows() int {
	// summary (2 lines) + blank line + filter bar
	rows := w.height - 3
	if w.filterActive {
		rows--
	}
	return max(rows, 1)
}

func (w *WatchedPane) ensureVisible() {
	if w.height <= 0 {
		return
	}
	if w.cursor < w.offset {
		w.offset = w.cursor
	}
	if w.cursor >= w.offset+w.visibleRows() {
		w.offset = w.cursor - w.visibleRows() + 1
	}
}
