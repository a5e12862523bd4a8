package domain

// MaxUserRating is the top of the star scale
const MaxUserRating = 10

// WatchedEntry is a movie the user has rated and added to their list.
// JSON field names match the persisted snapshot format.
type WatchedEntry struct {
	ID              string  `json:"id" validate:"required"`
	Title           string  `json:"title"`
	PosterURL       string  `json:"poster"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=10"`
	UserRating      int     `json:"userRating" validate:"gte=1,lte=10"`
	Runtime         int     `json:"runtime" validate:"gte=0"`
	RatingDecisions int     `json:"countRatingDesitions" validate:"gte=0"`
}

// NewWatchedEntry builds a watched entry from a loaded movie and the user's rating
func NewWatchedEntry(movie MovieDetail, userRating, decisions int) WatchedEntry {
	return WatchedEntry{
		ID:              movie.ID,
		Title:           movie.Title(),
		PosterURL:       movie.PosterURL,
		Rating:          movie.RatingKP,
		UserRating:      userRating,
		Runtime:         movie.Runtime,
		RatingDecisions: decisions,
	}
}

// WatchedSummary holds aggregate statistics over a watched list
type WatchedSummary struct {
	Count         int
	AvgRating     float64
	AvgUserRating float64
	AvgRuntime    float64
}

// Summarize computes aggregate statistics. Averages of an empty list are zero.
func Summarize(entries []WatchedEntry) WatchedSummary {
	s := WatchedSummary{Count: len(entries)}
	if len(entries) == 0 {
		return s
	}

	n := float64(len(entries))
	for _, e := range entries {
		s.AvgRating += e.Rating / n
		s.AvgUserRating += float64(e.UserRating) / n
		s.AvgRuntime += float64(e.Runtime) / n
	}
	return s
}
