package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/log"
)

func movie(id, name string) *domain.MovieDetail {
	return &domain.MovieDetail{MovieSummary: domain.MovieSummary{ID: id, Name: name}}
}

func TestDetailService_Load(t *testing.T) {
	repo := newFakeRepo(true)
	svc := NewDetailService(repo, nil, log.NullLogger())
	defer svc.Close()

	svc.Load("447301")
	if st := svc.State(); st.ID != "447301" || !st.Loading || st.Movie != nil {
		t.Fatalf("state after Load = %+v", st)
	}

	c := repo.next(t)
	if c.key != "447301" {
		t.Errorf("fetched %q", c.key)
	}
	c.reply <- reply{movie: movie("447301", "Начало")}
	waitFor(t, "detail", func() bool { return !svc.State().Loading })

	st := svc.State()
	if st.Movie == nil || st.Movie.Name != "Начало" || st.Err != nil {
		t.Errorf("state = %+v", st)
	}
}

func TestDetailService_StaleResponseDiscarded(t *testing.T) {
	repo := newFakeRepo(false)
	rec := &fakeRecorder{}
	svc := NewDetailService(repo, rec, log.NullLogger())

	svc.Load("1")
	first := repo.next(t)
	svc.Load("2")
	second := repo.next(t)

	if first.ctx.Err() == nil {
		t.Error("previous detail fetch was not cancelled")
	}

	second.reply <- reply{movie: movie("2", "Second")}
	waitFor(t, "second detail", func() bool { return svc.State().Movie != nil })

	first.reply <- reply{movie: movie("1", "First")}
	svc.Close()

	st := svc.State()
	if st.ID != "2" || st.Movie == nil || st.Movie.ID != "2" {
		t.Errorf("state = %+v, want movie 2", st)
	}
	if got := rec.count("detail/superseded"); got != 1 {
		t.Errorf("superseded = %d, want 1", got)
	}
}

func TestDetailService_ErrorSurfaced(t *testing.T) {
	repo := newFakeRepo(true)
	svc := NewDetailService(repo, nil, log.NullLogger())
	defer svc.Close()

	svc.Load("1")
	repo.next(t).reply <- reply{err: fmt.Errorf("%w: dial tcp: refused", domain.ErrNetwork)}
	waitFor(t, "detail error", func() bool { return !svc.State().Loading })

	st := svc.State()
	if !errors.Is(st.Err, domain.ErrNetwork) || st.Movie != nil {
		t.Errorf("state = %+v, want network error", st)
	}
	if st.Message() != "check your internet connection" {
		t.Errorf("Message() = %q", st.Message())
	}
}

func TestDetailService_ResetCancels(t *testing.T) {
	repo := newFakeRepo(false)
	svc := NewDetailService(repo, nil, log.NullLogger())

	notified := 0
	svc.Subscribe(DetailObserverFunc(func(DetailState) { notified++ }))

	svc.Load("1")
	c := repo.next(t)
	svc.Reset()

	if c.ctx.Err() == nil {
		t.Error("Reset did not cancel the fetch")
	}
	c.reply <- reply{movie: movie("1", "Late")}
	svc.Close()

	if st := svc.State(); st.ID != "" || st.Movie != nil || st.Loading {
		t.Errorf("state = %+v, want empty after Reset", st)
	}
	// Load and Reset only
	if notified != 2 {
		t.Errorf("notifications = %d, want 2", notified)
	}

	svc.Reset()
	if notified != 2 {
		t.Error("Reset of an empty state should not notify")
	}
}
