package domain

import (
	"context"
)

// MovieRepository provides access to the external movie database
type MovieRepository interface {
	// Search returns the movies matching query.
	// Transport failures and non-2xx responses wrap ErrNetwork; malformed bodies wrap ErrParse.
	Search(ctx context.Context, query string) (*SearchResult, error)

	// GetMovie returns full details for a single movie
	GetMovie(ctx context.Context, id string) (*MovieDetail, error)
}
