package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/metrics"
)

const operationDetail = "detail"

// DetailState is a snapshot of the detail fetch
type DetailState struct {
	ID      string
	Loading bool
	Movie   *domain.MovieDetail
	Err     error
}

// Message returns the user-facing error text, or "" when there is none
func (s DetailState) Message() string {
	return domain.UserMessage(s.Err)
}

// DetailObserver receives detail state changes under the service lock
type DetailObserver interface {
	OnDetailState(DetailState)
}

// DetailObserverFunc adapts a function to DetailObserver
type DetailObserverFunc func(DetailState)

func (f DetailObserverFunc) OnDetailState(s DetailState) { f(s) }

// DetailService fetches one movie at a time. Loading another id cancels the
// previous fetch and a stale response is never applied.
type DetailService struct {
	repo    domain.MovieRepository
	metrics metrics.Recorder
	logger  *slog.Logger

	mu        sync.Mutex
	state     DetailState
	gen       uint64
	cancel    context.CancelFunc
	observers map[int]DetailObserver
	nextObs   int
	closed    bool

	wg sync.WaitGroup
}

// NewDetailService creates an empty detail service
func NewDetailService(repo domain.MovieRepository, recorder metrics.Recorder, logger *slog.Logger) *DetailService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &DetailService{
		repo:      repo,
		metrics:   recorder,
		logger:    logger,
		observers: make(map[int]DetailObserver),
	}
}

// Subscribe registers an observer and returns a function that removes it
func (s *DetailService) Subscribe(o DetailObserver) (unsubscribe func()) {
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

// State returns the current state
func (s *DetailService) State() DetailState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load starts fetching id, superseding any fetch in flight
func (s *DetailService) Load(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.abortLocked()
	s.gen++

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = DetailState{ID: id, Loading: true}
	s.notifyLocked()

	s.wg.Add(1)
	go s.run(ctx, s.gen, id)
}

// Reset cancels any fetch and clears the state
func (s *DetailService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abortLocked()
	s.gen++
	if s.state.ID == "" && s.state.Movie == nil && s.state.Err == nil && !s.state.Loading {
		return
	}
	s.state = DetailState{}
	s.notifyLocked()
}

// Close aborts any outstanding fetch and waits for it to finish
func (s *DetailService) Close() {
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

func (s *DetailService) run(ctx context.Context, gen uint64, id string) {
	defer s.wg.Done()
	defer s.finish(gen)

	movie, err := s.repo.GetMovie(ctx, id)
	if err == nil && movie == nil {
		err = fmt.Errorf("%w: empty movie response", domain.ErrParse)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || errors.Is(err, context.Canceled) {
		s.metrics.RecordOutcome(operationDetail, metrics.OutcomeSuperseded)
		s.logger.Debug("detail fetch superseded", "id", id)
		return
	}

	if err != nil {
		s.state.Err = err
		s.metrics.RecordOutcome(operationDetail, outcomeOf(err))
		s.logger.Error("failed to fetch movie", "id", id, "error", err)
		return
	}

	s.state.Movie = movie
	s.state.Err = nil
	s.metrics.RecordOutcome(operationDetail, metrics.OutcomeSuccess)
	s.logger.Debug("fetched movie", "id", id, "title", movie.Title())
}

func (s *DetailService) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.state.Loading = false
	s.cancel = nil
	s.notifyLocked()
}

func (s *DetailService) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *DetailService) notifyLocked() {
	for _, o := range s.observers {
		o.OnDetailState(s.state)
	}
}
