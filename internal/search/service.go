// Package search runs movie searches and detail fetches against the movie
// database. Each new request supersedes the previous one: the old context is
// cancelled and its completion is dropped.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/metrics"
)

// DefaultMinQueryLength is the shortest query (in characters) that is sent to the server
const DefaultMinQueryLength = 3

const operationSearch = "search"

// Phase is the search lifecycle state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the search service
type State struct {
	Query   string
	Phase   Phase
	Movies  []domain.MovieSummary
	Total   int
	Err     error
	Loading bool
}

// Message returns the user-facing error text, or "" when there is none
func (s State) Message() string {
	return domain.UserMessage(s.Err)
}

// Observer receives state changes. Calls are made with the service lock held:
// implementations must return quickly and must not call back into the service.
type Observer interface {
	OnSearchState(State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnSearchState(s State) { f(s) }

// Options configures a Service
type Options struct {
	MinQueryLength int
	Metrics        metrics.Recorder
}

// Service is the search state machine
type Service struct {
	repo    domain.MovieRepository
	minLen  int
	metrics metrics.Recorder
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	cancel    context.CancelFunc
	observers map[int]Observer
	nextObs   int
	closed    bool

	wg sync.WaitGroup
}

// NewService creates a search service in the Idle state
func NewService(repo domain.MovieRepository, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	return &Service{
		repo:      repo,
		minLen:    opts.MinQueryLength,
		metrics:   opts.Metrics,
		logger:    logger,
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns a function that removes it
func (s *Service) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// MinQueryLength returns the length gate
func (s *Service) MinQueryLength() int {
	return s.minLen
}

// Accepts reports whether query passes the length gate
func (s *Service) Accepts(query string) bool {
	return utf8.RuneCountInString(query) >= s.minLen
}

// State returns the current state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search re-evaluates state for a new query value. It never blocks on the network.
func (s *Service) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.abortLocked()
	s.gen++

	if !s.Accepts(query) {
		s.state = State{Query: query, Phase: PhaseIdle}
		s.notifyLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// Previous results stay visible until the new response arrives
	s.state = State{
		Query:   query,
		Phase:   PhaseLoading,
		Movies:  s.state.Movies,
		Total:   s.state.Total,
		Loading: true,
	}
	s.notifyLocked()

	s.wg.Add(1)
	go s.run(ctx, s.gen, query)
}

// Close aborts any outstanding request and waits for it to finish.
// Later calls to Search are ignored.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.abortLocked()
	s.gen++
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, gen uint64, query string) {
	defer s.wg.Done()
	defer s.finish(gen)

	result, err := s.repo.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || errors.Is(err, context.Canceled) {
		s.metrics.RecordOutcome(operationSearch, metrics.OutcomeSuperseded)
		s.logger.Debug("search superseded", "query", query)
		return
	}

	if err == nil && result == nil {
		err = fmt.Errorf("%w: empty search result", domain.ErrParse)
	}

	switch {
	case err != nil:
		s.state.Phase = PhaseError
		s.state.Err = err
		s.metrics.RecordOutcome(operationSearch, outcomeOf(err))
		s.logger.Warn("search failed", "query", query, "error", err)
	case result.Total == 0:
		s.state.Phase = PhaseError
		s.state.Err = domain.ErrNoResults
		s.state.Movies = nil
		s.state.Total = 0
		s.metrics.RecordOutcome(operationSearch, metrics.OutcomeNotFound)
		s.logger.Debug("search found nothing", "query", query)
	default:
		s.state.Phase = PhaseSuccess
		s.state.Err = nil
		s.state.Movies = result.Movies
		s.state.Total = result.Total
		s.metrics.RecordOutcome(operationSearch, metrics.OutcomeSuccess)
		s.logger.Debug("search complete", "query", query, "count", len(result.Movies), "total", result.Total)
	}
}

// finish clears the loading flag of the current attempt. Superseded attempts
// leave state to the attempt that replaced them.
func (s *Service) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.state.Loading = false
	if s.state.Phase == PhaseLoading {
		// The attempt ended without applying a result (e.g. a panic in the repository)
		s.state.Phase = PhaseIdle
	}
	s.cancel = nil
	s.notifyLocked()
}

func (s *Service) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Service) notifyLocked() {
	for _, o := range s.observers {
		o.OnSearchState(s.state)
	}
}

// outcomeOf maps an error to its metrics outcome label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeSuperseded
	case errors.Is(err, domain.ErrNetwork):
		return metrics.OutcomeNetwork
	case errors.Is(err, domain.ErrParse):
		return metrics.OutcomeParse
	case errors.Is(err, domain.ErrNoResults):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
