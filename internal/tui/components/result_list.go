package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// ResultList is the scrollable list of search results
type ResultList struct {
	movies   []domain.MovieSummary
	query    string
	openID   string
	watched  map[string]bool
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
	selected string // Set when enter picks a movie; consumed by TakeSelection
}

// NewResultList creates an empty result list
func NewResultList() ResultList {
	return ResultList{}
}

// SetMovies replaces the list. The cursor stays on the same movie when it is still present.
func (r *ResultList) SetMovies(movies []domain.MovieSummary, query string) {
	current := ""
	if r.cursor < len(r.movies) {
		current = r.movies[r.cursor].ID
	}
	r.movies = movies
	r.query = query

	r.cursor = 0
	for i, m := range movies {
		if m.ID == current {
			r.cursor = i
			break
		}
	}
	r.ensureVisible()
}

// SetOpen marks the movie whose detail is open
func (r *ResultList) SetOpen(id string) {
	r.openID = id
}

// SetWatched marks which ids are already watched
func (r *ResultList) SetWatched(ids map[string]bool) {
	r.watched = ids
}

// SetSize sets the content area size
func (r *ResultList) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.ensureVisible()
}

// SetFocused sets keyboard focus
func (r *ResultList) SetFocused(focused bool) {
	r.focused = focused
}

// Len returns the number of movies
func (r *ResultList) Len() int {
	return len(r.movies)
}

// Update handles navigation keys. It reports whether the key was consumed.
func (r *ResultList) Update(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !r.focused || len(r.movies) == 0 {
		return false
	}

	switch km.String() {
	case "j", "down":
		if r.cursor < len(r.movies)-1 {
			r.cursor++
		}
	case "k", "up":
		if r.cursor > 0 {
			r.cursor--
		}
	case "g", "home":
		r.cursor = 0
	case "G", "end":
		r.cursor = len(r.movies) - 1
	case "enter":
		r.selected = r.movies[r.cursor].ID
	default:
		return false
	}
	r.ensureVisible()
	return true
}

// TakeSelection returns the id picked with enter, once
func (r *ResultList) TakeSelection() (string, bool) {
	if r.selected == "" {
		return "", false
	}
	id := r.selected
	r.selected = ""
	return id, true
}

// View renders the visible rows
func (r ResultList) View() string {
	if len(r.movies) == 0 {
		return ""
	}

	end := min(r.offset+r.visibleRows(), len(r.movies))
	lines := make([]string, 0, end-r.offset)
	for i := r.offset; i < end; i++ {
		lines = append(lines, r.renderRow(r.movies[i], r.focused && i == r.cursor))
	}
	return strings.Join(lines, "\n")
}

func (r ResultList) visibleRows() int {
	return max(r.height, 1)
}

func (r *ResultList) ensureVisible() {
	if r.height <= 0 {
		return
	}
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+r.visibleRows() {
		r.offset = r.cursor - r.visibleRows() + 1
	}
}

func (r ResultList) renderRow(m domain.MovieSummary, selected bool) string {
	indicator := " "
	indicatorFg := styles.PopcornYellow
	switch {
	case m.ID == r.openID:
		indicator = "▶"
	case r.watched[m.ID]:
		indicator = "✓"
		indicatorFg = styles.Green
	}

	year := ""
	if m.Year > 0 {
		year = fmt.Sprintf(" %d", m.Year)
	}

	titleWidth := r.width - 2 - 2 - lipgloss.Width(year)
	title := styles.Truncate(m.DisplayTitle(), titleWidth)

	parts := []styles.RowPart{{Text: indicator + " ", Foreground: &indicatorFg}}
	parts = append(parts, highlightParts(title, r.query)...)
	dim := styles.DimGray
	parts = append(parts, styles.RowPart{Text: year, Foreground: &dim})

	return styles.RenderListRow(parts, selected, r.width)
}

// highlightParts splits title into runs, marking the characters that fuzzy-match query
func highlightParts(title, query string) []styles.RowPart {
	query = strings.TrimSpace(query)
	if query == "" {
		return []styles.RowPart{{Text: title}}
	}

	matches := fuzzy.Find(strings.ToLower(query), []string{strings.ToLower(title)})
	if len(matches) == 0 {
		return []styles.RowPart{{Text: title}}
	}

	// MatchedIndexes are byte offsets into the lowercased title; map them to runes
	lower := strings.ToLower(title)
	matchedRunes := make(map[int]bool, len(matches[0].MatchedIndexes))
	byteToRune := make(map[int]int, len(lower))
	ri := 0
	for bi := range lower {
		byteToRune[bi] = ri
		ri++
	}
	for _, bi := range matches[0].MatchedIndexes {
		if ri, ok := byteToRune[bi]; ok {
			matchedRunes[ri] = true
		}
	}

	accent := styles.PopcornYellow
	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false
	for i, ch := range []rune(title) {
		m := matchedRunes[i]
		if i > 0 && m != runMatched {
			parts = append(parts, highlightPart(run.String(), runMatched, &accent))
			run.Reset()
		}
		runMatched = m
		run.WriteRune(ch)
	}
	if run.Len() > 0 {
		parts = append(parts, highlightPart(run.String(), runMatched, &accent))
	}
	return parts
}

func highlightPart(text string, matched bool, accent *lipgloss.Color) styles.RowPart {
	if matched {
		return styles.RowPart{Text: text, Foreground: accent, Bold: true}
	}
	return styles.RowPart{Text: text}
}
