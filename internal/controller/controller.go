// Package controller owns the application state that sits between the search
// services, the watched list and the UI: the query, the open selection and the
// rating draft.
package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/search"
	"github.com/mmcdole/popcorn/internal/watchlist"
)

// DefaultTitle is the window title when no movie is open
const DefaultTitle = "popcorn"

// Snapshot is a consistent view of everything the UI renders
type Snapshot struct {
	Query         string
	SearchFocused bool
	Search        search.State

	SelectedID      string
	Detail          search.DetailState
	Rating          int // Draft rating for the open movie (0 = none)
	RatingDecisions int
	WatchedRating   int // User rating if the open movie is already watched (0 = not watched)

	WatchedFilter string
	Watched       []domain.WatchedEntry // Filtered by WatchedFilter
	WatchedIDs    map[string]bool       // Every watched id, ignoring the filter
	Summary       domain.WatchedSummary // Over the whole list
}

// DetailOpen reports whether a movie is selected
func (s Snapshot) DetailOpen() bool {
	return s.SelectedID != ""
}

// Options configures a Controller
type Options struct {
	Title  string // Default window title
	Notify func() // Called after every state change; must not block
}

// Controller is the root of the application state.
// Lock order is Controller.mu before any service lock; service observers never take Controller.mu.
type Controller struct {
	search  *search.Service
	detail  *search.DetailService
	watched *watchlist.Service
	env     domain.Environment
	logger  *slog.Logger

	defaultTitle string
	notify       func()

	mu            sync.Mutex
	query         string
	searchFocused bool
	selectedID    string
	rating        int
	decisions     int
	watchedFilter string

	titleMu sync.Mutex
	title   string

	unsubs    []func()
	closeOnce sync.Once
}

// New wires the services to env and registers the global key hooks
func New(
	searchSvc *search.Service,
	detailSvc *search.DetailService,
	watched *watchlist.Service,
	env domain.Environment,
	opts Options,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Notify == nil {
		opts.Notify = func() {}
	}

	c := &Controller{
		search:       searchSvc,
		detail:       detailSvc,
		watched:      watched,
		env:          env,
		logger:       logger,
		defaultTitle: opts.Title,
		notify:       opts.Notify,
	}

	c.setTitle(c.defaultTitle)

	c.unsubs = append(c.unsubs,
		searchSvc.Subscribe(search.ObserverFunc(func(search.State) { c.notify() })),
		detailSvc.Subscribe(search.DetailObserverFunc(c.onDetailState)),
		env.OnKey("esc", c.CloseDetail),
		env.OnKey("enter", c.focusAndClearSearch),
	)

	return c
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Query:           c.query,
		SearchFocused:   c.searchFocused,
		Search:          c.search.State(),
		SelectedID:      c.selectedID,
		Rating:          c.rating,
		RatingDecisions: c.decisions,
		WatchedFilter:   c.watchedFilter,
		Watched:         c.watched.Filter(c.watchedFilter),
		Summary:         c.watched.Summary(),
	}
	all := c.watched.List()
	snap.WatchedIDs = make(map[string]bool, len(all))
	for _, e := range all {
		snap.WatchedIDs[e.ID] = true
	}
	if c.selectedID != "" {
		snap.Detail = c.detail.State()
		snap.WatchedRating, _ = c.watched.UserRating(c.selectedID)
	}
	return snap
}

// SetQuery stores the query and runs the search. A query that will be sent
// to the server closes the open movie first.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	if query == c.query {
		c.mu.Unlock()
		return
	}
	c.query = query
	if c.search.Accepts(query) {
		c.closeDetailLocked()
	}
	c.search.Search(query)
	c.mu.Unlock()

	c.notify()
}

// MinQueryLength returns the shortest query that reaches the server
func (c *Controller) MinQueryLength() int {
	return c.search.MinQueryLength()
}

// Select opens the movie with id, or closes it if it is already open
func (c *Controller) Select(id string) {
	c.mu.Lock()
	if id == "" || id == c.selectedID {
		c.closeDetailLocked()
	} else {
		c.selectedID = id
		c.rating = 0
		c.decisions = 0
		c.detail.Load(id)
		c.logger.Debug("selected movie", "id", id)
	}
	c.mu.Unlock()

	c.notify()
}

// CloseDetail closes the open movie, cancelling its fetch
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	open := c.selectedID != ""
	c.closeDetailLocked()
	c.mu.Unlock()

	if open {
		c.notify()
	}
}

// SetRating updates the draft rating of the open movie
func (c *Controller) SetRating(rating int) {
	if rating < 1 {
		rating = 1
	}
	if rating > domain.MaxUserRating {
		rating = domain.MaxUserRating
	}

	c.mu.Lock()
	if c.selectedID == "" || c.watched.IsWatched(c.selectedID) {
		c.mu.Unlock()
		return
	}
	if rating != c.rating {
		c.rating = rating
		c.decisions++
	}
	c.mu.Unlock()

	c.notify()
}

// AddWatched adds the open movie with the draft rating and closes it
func (c *Controller) AddWatched() error {
	c.mu.Lock()

	st := c.detail.State()
	if c.selectedID == "" || st.ID != c.selectedID || st.Movie == nil {
		c.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if c.rating < 1 {
		c.mu.Unlock()
		return fmt.Errorf("%w: rate the movie first", domain.ErrInvalidEntry)
	}

	entry := domain.NewWatchedEntry(*st.Movie, c.rating, c.decisions)
	if err := c.watched.Add(entry); err != nil {
		c.mu.Unlock()
		return err
	}
	c.closeDetailLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

// DeleteWatched removes id from the watched list
func (c *Controller) DeleteWatched(id string) error {
	if err := c.watched.Delete(id); err != nil {
		return err
	}
	c.notify()
	return nil
}

// SetWatchedFilter narrows the watched list shown in snapshots
func (c *Controller) SetWatchedFilter(query string) {
	c.mu.Lock()
	c.watchedFilter = query
	c.mu.Unlock()
	c.notify()
}

// FocusSearch marks the search box as focused
func (c *Controller) FocusSearch() {
	c.setFocus(true)
}

// BlurSearch marks the search box as not focused
func (c *Controller) BlurSearch() {
	c.setFocus(false)
}

// Close removes the key hooks and stops the services
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		for _, unsub := range c.unsubs {
			unsub()
		}
		c.search.Close()
		c.detail.Close()
	})
}

func (c *Controller) setFocus(focused bool) {
	c.mu.Lock()
	changed := c.searchFocused != focused
	c.searchFocused = focused
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// focusAndClearSearch handles enter outside the search box
func (c *Controller) focusAndClearSearch() {
	c.mu.Lock()
	if c.searchFocused {
		c.mu.Unlock()
		return
	}
	c.searchFocused = true
	c.mu.Unlock()

	c.SetQuery("")
	c.notify()
}

func (c *Controller) closeDetailLocked() {
	if c.selectedID == "" {
		return
	}
	c.logger.Debug("closed movie", "id", c.selectedID)
	c.selectedID = ""
	c.rating = 0
	c.decisions = 0
	c.detail.Reset()
}

// onDetailState runs under the detail service lock
func (c *Controller) onDetailState(st search.DetailState) {
	if st.Movie != nil {
		c.setTitle("Movie | " + st.Movie.Title())
	} else {
		c.setTitle(c.defaultTitle)
	}
	c.notify()
}

func (c *Controller) setTitle(title string) {
	c.titleMu.Lock()
	defer c.titleMu.Unlock()
	if title == c.title {
		return
	}
	c.title = title
	c.env.SetTitle(title)
}
