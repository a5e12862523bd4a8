package moviedb

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/popcorn/internal/domain"
)

// descriptionPolicy strips all markup; descriptions are rendered as plain terminal text
var descriptionPolicy = bluemonday.StrictPolicy()

// MapSearch validates a search response and converts it to a domain result
func MapSearch(resp SearchResponse) (*domain.SearchResult, error) {
	if resp.Total == nil {
		return nil, fmt.Errorf("%w: search response has no total", domain.ErrParse)
	}

	movies := make([]domain.MovieSummary, 0, len(resp.Docs))
	for i, doc := range resp.Docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("%w: search doc %d has no id", domain.ErrParse, i)
		}
		movies = append(movies, mapSummary(doc))
	}

	return &domain.SearchResult{
		Movies: movies,
		Total:  *resp.Total,
	}, nil
}

// MapMovie validates a detail response and converts it to a domain movie
func MapMovie(doc MovieDoc) (*domain.MovieDetail, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: movie has no id", domain.ErrParse)
	}

	detail := &domain.MovieDetail{
		MovieSummary: mapSummary(doc),
		Description:  sanitizeText(firstNonEmpty(doc.Description, doc.ShortDescription)),
		Runtime:      doc.MovieLength,
	}

	if doc.Rating != nil {
		if doc.Rating.KP != nil {
			detail.RatingKP = *doc.Rating.KP
		}
		if doc.Rating.IMDb != nil {
			detail.RatingIMDb = *doc.Rating.IMDb
		}
	}

	if doc.Premiere != nil && doc.Premiere.World != "" {
		t, err := time.Parse(time.RFC3339, doc.Premiere.World)
		if err != nil {
			return nil, fmt.Errorf("%w: premiere date %q: %v", domain.ErrParse, doc.Premiere.World, err)
		}
		detail.Premiere = t
	}

	for _, g := range doc.Genres {
		if g.Name != "" {
			detail.Genres = append(detail.Genres, g.Name)
		}
	}

	for _, p := range doc.Persons {
		detail.Persons = append(detail.Persons, domain.Person{
			Name: firstNonEmpty(p.Name, p.EnName),
			Role: mapRole(p),
		})
	}

	return detail, nil
}

func mapSummary(doc MovieDoc) domain.MovieSummary {
	m := domain.MovieSummary{
		ID:              string(doc.ID),
		Name:            doc.Name,
		AlternativeName: firstNonEmpty(doc.AlternativeName, doc.EnName),
		Year:            doc.Year,
	}
	if doc.Poster != nil {
		m.PosterURL = firstNonEmpty(doc.Poster.URL, doc.Poster.PreviewURL)
	}
	return m
}

// mapRole prefers the English profession and falls back to the Russian plural forms
func mapRole(p Person) domain.Role {
	switch strings.ToLower(p.EnProfession) {
	case "actor":
		return domain.RoleActor
	case "director":
		return domain.RoleDirector
	}
	switch strings.ToLower(p.Profession) {
	case "актеры", "актёры", "актер", "актёр":
		return domain.RoleActor
	case "режиссеры", "режиссёры", "режиссер", "режиссёр":
		return domain.RoleDirector
	}
	return domain.RoleOther
}

func sanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(descriptionPolicy.Sanitize(s)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
