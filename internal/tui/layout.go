package tui

import "github.com/mmcdole/popcorn/internal/tui/components"

// Layout proportions
const (
	ResultsPercent = 45 // Left box share of the width
	MinBoxWidth    = 24

	// Nav bar on top, footer at the bottom
	ChromeHeight = 2

	// A collapsed box keeps its border and title line
	CollapsedHeight = components.BorderHeight + 1
)

// boxLayout holds calculated box sizes
type boxLayout struct {
	leftWidth, rightWidth   int
	leftHeight, rightHeight int
}

// calculateLayout splits the content area between the two boxes
func (m Model) calculateLayout() boxLayout {
	contentHeight := max(m.Height-ChromeHeight, CollapsedHeight)

	left := max(m.Width*ResultsPercent/100, MinBoxWidth)
	right := max(m.Width-left, MinBoxWidth)
	if left+right > m.Width {
		// Too narrow for both minimums: share what there is
		left = m.Width / 2
		right = m.Width - left
	}

	l := boxLayout{
		leftWidth:   left,
		rightWidth:  right,
		leftHeight:  contentHeight,
		rightHeight: contentHeight,
	}
	if m.ResultsBox.Collapsed {
		l.leftHeight = CollapsedHeight
	}
	if m.RightBox.Collapsed {
		l.rightHeight = CollapsedHeight
	}
	return l
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	l := m.calculateLayout()
	m.SearchBar.SetWidth(m.Width)

	m.ResultsBox.SetSize(l.leftWidth, l.leftHeight)
	w, h := m.ResultsBox.InnerSize()
	m.Results.SetSize(w, h)

	m.RightBox.SetSize(l.rightWidth, l.rightHeight)
	w, h = m.RightBox.InnerSize()
	m.Detail.SetSize(w, h)
	m.Watched.SetSize(w, h)
}
