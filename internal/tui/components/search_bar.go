package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// SearchBar is the nav bar: logo, query input and result count
type SearchBar struct {
	input textinput.Model
	logo  string
	found int
	width int
}

// NewSearchBar creates a search bar showing logo on the left
func NewSearchBar(logo string) SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.LogoStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White).Background(styles.Violet)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.LightGray).Background(styles.Violet)

	return SearchBar{input: ti, logo: logo}
}

// Update routes a message to the input and reports whether the value changed
func (s *SearchBar) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd, s.input.Value() != before
}

// Focus focuses the input
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes focus from the input
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Focused reports whether the input has focus
func (s *SearchBar) Focused() bool {
	return s.input.Focused()
}

// Value returns the query text
func (s *SearchBar) Value() string {
	return s.input.Value()
}

// SetValue replaces the query text
func (s *SearchBar) SetValue(v string) {
	if s.input.Value() != v {
		s.input.SetValue(v)
	}
}

// SetFound sets the number of movies shown in the results box
func (s *SearchBar) SetFound(n int) {
	s.found = n
}

// SetWidth sets the bar width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	logoW := lipgloss.Width(s.logo) + 2
	s.input.Width = max(min(width/2, 60), 10) - logoW
}

// View renders the bar on a single line
func (s SearchBar) View() string {
	logo := styles.LogoStyle.Render("🍿 " + s.logo)
	found := fmt.Sprintf("Found %d movies", s.found)
	if s.found == 1 {
		found = "Found 1 movie"
	}

	left := logo + "  " + s.input.View()
	gap := s.width - lipgloss.Width(left) - lipgloss.Width(found) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Background(styles.Violet).Render(fmt.Sprintf("%*s", gap, "")) + found
	return styles.NavBarStyle.Width(max(s.width, 0)).MaxWidth(max(s.width, 0)).Render(line)
}
