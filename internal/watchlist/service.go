// Package watchlist owns the user's watched list and persists it after every change.
package watchlist

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/metrics"
)

// Service is the watched list. Entries keep insertion order.
type Service struct {
	store    domain.WatchedStore
	validate *validator.Validate
	metrics  metrics.Recorder
	logger   *slog.Logger

	mu      sync.RWMutex
	entries []domain.WatchedEntry
}

// NewService loads the saved snapshot from store
func NewService(store domain.WatchedStore, recorder metrics.Recorder, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	entries, err := store.LoadWatched()
	if err != nil {
		return nil, fmt.Errorf("failed to load watched list: %w", err)
	}
	if entries == nil {
		entries = []domain.WatchedEntry{}
	}

	s := &Service{
		store:    store,
		validate: validator.New(),
		metrics:  recorder,
		logger:   logger,
		entries:  entries,
	}
	recorder.RecordWatchedSize(len(entries))
	logger.Debug("loaded watched list", "count", len(entries))
	return s, nil
}

// Add appends entry and persists the list
func (s *Service) Add(entry domain.WatchedEntry) error {
	if err := s.validate.Struct(entry); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", domain.ErrInvalidEntry, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidEntry, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(entry.ID) >= 0 {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyWatched, entry.ID)
	}

	next := make([]domain.WatchedEntry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, entry)

	if err := s.persistLocked(next); err != nil {
		return err
	}
	s.logger.Info("added to watched", "id", entry.ID, "title", entry.Title, "userRating", entry.UserRating)
	return nil
}

// Delete removes the entry with id. Deleting an absent id is a no-op.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	next := make([]domain.WatchedEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)

	if err := s.persistLocked(next); err != nil {
		return err
	}
	s.logger.Info("removed from watched", "id", id)
	return nil
}

// List returns a copy of the entries in insertion order
func (s *Service) List() []domain.WatchedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WatchedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IsWatched reports whether id is on the list
func (s *Service) IsWatched(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// UserRating returns the user's rating for id, if watched
func (s *Service) UserRating(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.entries[idx].UserRating, true
	}
	return 0, false
}

// Summary returns aggregate statistics
func (s *Service) Summary() domain.WatchedSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Summarize(s.entries)
}

// Filter returns entries whose title fuzzy-matches query, best match first.
// An empty query returns the whole list.
func (s *Service) Filter(query string) []domain.WatchedEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, len(s.entries))
	for i, e := range s.entries {
		titles[i] = e.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]domain.WatchedEntry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, s.entries[r.OriginalIndex])
	}
	return out
}

// persistLocked saves next and makes it current only if the save succeeds
func (s *Service) persistLocked(next []domain.WatchedEntry) error {
	if err := s.store.SaveWatched(next); err != nil {
		s.logger.Error("failed to save watched list", "error", err)
		return fmt.Errorf("failed to save watched list: %w", err)
	}
	s.entries = next
	s.metrics.RecordWatchedSize(len(next))
	return nil
}

func (s *Service) indexLocked(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
