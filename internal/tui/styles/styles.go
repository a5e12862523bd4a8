package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PopcornYellow = lipgloss.Color("#FCC419")
	SlateDark     = lipgloss.Color("#1F2937")
	SlateLight    = lipgloss.Color("#374151")
	DimGray       = lipgloss.Color("#6B7280")
	LightGray     = lipgloss.Color("#9CA3AF")
	White         = lipgloss.Color("#F9FAFB")
	Green         = lipgloss.Color("#10B981")
	Red           = lipgloss.Color("#EF4444")
	Violet        = lipgloss.Color("#6741D9")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PopcornYellow)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(PopcornYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Nav bar styles
var (
	NavBarStyle = lipgloss.NewStyle().
			Background(Violet).
			Foreground(White).
			Padding(0, 1)

	LogoStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Violet).
			Bold(true)
)

// Star rating
const (
	StarFullChar  = "★"
	StarEmptyChar = "☆"
)

var (
	StarFullStyle  = lipgloss.NewStyle().Foreground(PopcornYellow)
	StarEmptyStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(PopcornYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// BadgeStyle marks the rating badge in the movie detail
var BadgeStyle = lipgloss.NewStyle().
	Foreground(SlateDark).
	Background(PopcornYellow).
	Padding(0, 1)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PopcornYellow)
)

// SpinnerFrames is the loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(PopcornYellow).
				Bold(true)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		if width > len(runes) {
			return s
		}
		return string(runes[:width])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + spaces(width-w)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// RenderListRow renders a complete list row with uniform background when selected.
// This function styles each part explicitly to avoid ANSI reset code issues.
// parts is a slice of {text, fgColor} pairs. Use nil for default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var result strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if part.Bold {
			style = style.Bold(true)
		}
		if selected {
			style = style.Background(bg)
		}
		result.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Add padding to fill width (subtract 2 for left/right margin)
	paddingNeeded := width - visibleLen - 2
	if paddingNeeded > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		result.WriteString(padStyle.Render(spaces(paddingNeeded)))
	}

	// Add margins
	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + result.String() + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Bold       bool
}
