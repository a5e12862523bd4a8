package domain

import (
	"fmt"
	"strings"
	"time"
)

// MovieSummary is a single search hit
type MovieSummary struct {
	ID              string // Movie database identifier
	Name            string // Localized title (may be empty)
	AlternativeName string // Original title
	Year            int    // Release year (0 if unknown)
	PosterURL       string // Poster image URL (may be empty)
}

// Title returns the best available title
func (m MovieSummary) Title() string {
	if m.Name != "" {
		return m.Name
	}
	return m.AlternativeName
}

// DisplayTitle returns the title as shown in result lists: "Name (AlternativeName)"
// when both are known, otherwise whichever one exists.
func (m MovieSummary) DisplayTitle() string {
	if m.Name != "" && m.AlternativeName != "" && m.AlternativeName != m.Name {
		return fmt.Sprintf("%s (%s)", m.Name, m.AlternativeName)
	}
	return m.Title()
}

// SearchResult is one search response
type SearchResult struct {
	Movies []MovieSummary
	Total  int // Total matches reported by the server
}

// Role tags a person on a movie's cast/crew list
type Role int

const (
	RoleOther Role = iota
	RoleActor
	RoleDirector
)

// Person is a cast or crew member
type Person struct {
	Name string
	Role Role
}

// MovieDetail is the full record for a single movie
type MovieDetail struct {
	MovieSummary

	Description string
	Runtime     int     // Minutes
	RatingKP    float64 // Kinopoisk rating (0-10)
	RatingIMDb  float64 // IMDb rating (0-10)
	Genres      []string
	Premiere    time.Time // World premiere (zero if unknown)
	Persons     []Person
}

// Actors returns the names of all actors in credit order
func (d MovieDetail) Actors() []string {
	return d.namesWithRole(RoleActor)
}

// Directors returns the names of all directors in credit order
func (d MovieDetail) Directors() []string {
	return d.namesWithRole(RoleDirector)
}

func (d MovieDetail) namesWithRole(role Role) []string {
	var names []string
	for _, p := range d.Persons {
		if p.Role == role && p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// FormattedPremiere returns the premiere date as "22 July 2010", or "" if unknown
func (d MovieDetail) FormattedPremiere() string {
	if d.Premiere.IsZero() {
		return ""
	}
	return d.Premiere.Format("2 January 2006")
}

// FormattedGenres returns genres as a comma separated list
func (d MovieDetail) FormattedGenres() string {
	return strings.Join(d.Genres, ", ")
}
