package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// Layout constants for boxes
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2
)

// Box is a bordered, collapsible container
type Box struct {
	Title     string
	Collapsed bool
	Focused   bool
	width     int
	height    int
}

// NewBox creates an expanded box
func NewBox(title string) Box {
	return Box{Title: title}
}

// Toggle collapses or expands the box
func (b *Box) Toggle() {
	b.Collapsed = !b.Collapsed
}

// SetSize sets the outer size including the border
func (b *Box) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// InnerSize returns the space available to content below the title line
func (b Box) InnerSize() (int, int) {
	return max(b.width-BorderWidth, 0), max(b.height-BorderHeight-1, 0)
}

// View renders content inside the box. A collapsed box shows only its title.
func (b Box) View(content string) string {
	style := styles.InactiveBorder
	if b.Focused {
		style = styles.ActiveBorder
	}

	innerW, _ := b.InnerSize()
	marker := "[–]"
	if b.Collapsed {
		marker = "[+]"
	}
	title := styles.AccentStyle.Render(styles.Truncate(b.Title, max(innerW-4, 0)))
	header := title + strings.Repeat(" ", max(innerW-lipgloss.Width(title)-3, 1)) + styles.DimStyle.Render(marker)

	frameW, frameH := style.GetFrameSize()
	body := header
	if !b.Collapsed {
		body += "\n" + content
	}

	return style.
		Width(max(b.width-frameW, 0)).
		Height(max(b.height-frameH, 0)).
		MaxHeight(b.height).
		Render(body)
}
