package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/search"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// maxListedActors caps the "Starring" line
const maxListedActors = 6

// DetailPane renders the open movie with its rating control
type DetailPane struct {
	state         search.DetailState
	rating        StarRating
	watchedRating int
	spinnerFrame  int
	width         int
	height        int
}

// NewDetailPane creates an empty detail pane
func NewDetailPane() DetailPane {
	return DetailPane{rating: NewStarRating(domain.MaxUserRating)}
}

// SetState updates the pane from a controller snapshot
func (d *DetailPane) SetState(state search.DetailState, draft, watchedRating int) {
	d.state = state
	d.rating.Value = draft
	d.watchedRating = watchedRating
}

// Rating returns the star control
func (d *DetailPane) Rating() StarRating {
	return d.rating
}

// SetSize sets the content area size
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetSpinnerFrame advances the loading animation
func (d *DetailPane) SetSpinnerFrame(frame int) {
	d.spinnerFrame = frame
}

// View renders the pane
func (d DetailPane) View() string {
	if d.state.Loading {
		spinner := styles.SpinnerFrames[d.spinnerFrame%len(styles.SpinnerFrames)]
		return styles.SpinnerStyle.Render(spinner) + styles.DimStyle.Render(" Loading...")
	}
	if msg := d.state.Message(); msg != "" {
		return styles.ErrorStyle.Render("⛔ " + msg)
	}
	m := d.state.Movie
	if m == nil {
		return ""
	}

	width := max(d.width, 10)
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(m.Title(), width)))
	if m.AlternativeName != "" && m.AlternativeName != m.Name {
		lines = append(lines, styles.SubtitleStyle.Render(styles.Truncate(m.AlternativeName, width)))
	}

	var facts []string
	if p := m.FormattedPremiere(); p != "" {
		facts = append(facts, p)
	}
	if m.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%d min", m.Runtime))
	}
	if len(facts) > 0 {
		lines = append(lines, styles.DimStyle.Render(strings.Join(facts, " • ")))
	}
	if g := m.FormattedGenres(); g != "" {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(g, width)))
	}
	lines = append(lines, fmt.Sprintf("%s %.1f Kinopoisk   %s %.1f IMDb",
		styles.StarFullStyle.Render(styles.StarFullChar), m.RatingKP,
		styles.StarFullStyle.Render(styles.StarFullChar), m.RatingIMDb))
	lines = append(lines, "")

	if d.watchedRating > 0 {
		lines = append(lines, styles.SuccessStyle.Render(fmt.Sprintf("You rated this movie %d %s", d.watchedRating, styles.StarFullChar)))
	} else {
		lines = append(lines, d.rating.View())
		if d.rating.Value > 0 {
			lines = append(lines, styles.BadgeStyle.Render("a: + Add to list"))
		} else {
			lines = append(lines, styles.DimStyle.Render("Press 1-0 or ←/→ to rate"))
		}
	}
	lines = append(lines, "")

	if m.Description != "" {
		lines = append(lines, wrap.Render(m.Description), "")
	}
	if actors := m.Actors(); len(actors) > 0 {
		if len(actors) > maxListedActors {
			actors = actors[:maxListedActors]
		}
		lines = append(lines, wrap.Render("Starring "+strings.Join(actors, ", ")))
	}
	if directors := m.Directors(); len(directors) > 0 {
		lines = append(lines, wrap.Render("Directed by "+strings.Join(directors, ", ")))
	}

	return lipgloss.NewStyle().MaxHeight(max(d.height, 1)).Render(strings.Join(lines, "\n"))
}
