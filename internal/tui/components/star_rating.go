package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/popcorn/internal/tui/styles"
)

// StarRating renders a 1..Max star scale
type StarRating struct {
	Max   int
	Value int
}

// NewStarRating creates a rating scale with maxStars stars
func NewStarRating(maxStars int) StarRating {
	return StarRating{Max: maxStars}
}

// Increment returns the next rating, starting from 1 when unset
func (s StarRating) Increment() int {
	if s.Value >= s.Max {
		return s.Max
	}
	return s.Value + 1
}

// Decrement returns the previous rating, never below 1
func (s StarRating) Decrement() int {
	if s.Value <= 1 {
		return 1
	}
	return s.Value - 1
}

// View renders the stars followed by the numeric value
func (s StarRating) View() string {
	var b strings.Builder
	for i := 1; i <= s.Max; i++ {
		if i <= s.Value {
			b.WriteString(styles.StarFullStyle.Render(styles.StarFullChar))
		} else {
			b.WriteString(styles.StarEmptyStyle.Render(styles.StarEmptyChar))
		}
	}
	label := ""
	if s.Value > 0 {
		label = fmt.Sprintf(" %d", s.Value)
	}
	return b.String() + styles.AccentStyle.Render(label)
}

// RatingForKey maps the digit keys to ratings: "1".."9" and "0" for 10
func RatingForKey(k string) (int, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0, false
	}
	if k == "0" {
		return 10, true
	}
	return int(k[0] - '0'), true
}
