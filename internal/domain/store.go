package domain

// WatchedStore persists the watched list as a single snapshot (bbolt + memory).
type WatchedStore interface {
	// LoadWatched returns the last saved snapshot, or an empty list if nothing was saved
	LoadWatched() ([]WatchedEntry, error)

	// SaveWatched replaces the snapshot with entries
	SaveWatched(entries []WatchedEntry) error

	Close() error
}
