package watchlist

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/log"
	"github.com/mmcdole/popcorn/internal/store"
)

type memStore struct {
	entries []domain.WatchedEntry
	saves   int
	saveErr error
}

func (m *memStore) LoadWatched() ([]domain.WatchedEntry, error) {
	return append([]domain.WatchedEntry(nil), m.entries...), nil
}

func (m *memStore) SaveWatched(entries []domain.WatchedEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries = append([]domain.WatchedEntry(nil), entries...)
	return nil
}

func (m *memStore) Close() error { return nil }

func entry(id, title string, userRating int) domain.WatchedEntry {
	return domain.WatchedEntry{ID: id, Title: title, Rating: 7.5, UserRating: userRating, Runtime: 120}
}

func newTestService(t *testing.T, st domain.WatchedStore) *Service {
	t.Helper()
	svc, err := NewService(st, nil, log.NullLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestService_AddPersists(t *testing.T) {
	st := &memStore{}
	svc := newTestService(t, st)

	if err := svc.Add(entry("1", "Начало", 8)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if st.saves != 1 || len(st.entries) != 1 || st.entries[0].UserRating != 8 {
		t.Errorf("store = %+v after %d saves", st.entries, st.saves)
	}
	if !svc.IsWatched("1") {
		t.Error("IsWatched(1) = false")
	}
	if r, ok := svc.UserRating("1"); !ok || r != 8 {
		t.Errorf("UserRating(1) = %d, %v", r, ok)
	}
}

func TestService_AddRejectsDuplicate(t *testing.T) {
	st := &memStore{}
	svc := newTestService(t, st)

	if err := svc.Add(entry("1", "Начало", 8)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := svc.Add(entry("1", "Начало", 3))
	if !errors.Is(err, domain.ErrAlreadyWatched) {
		t.Errorf("err = %v, want ErrAlreadyWatched", err)
	}
	if len(svc.List()) != 1 || st.saves != 1 {
		t.Errorf("duplicate add changed the list: %+v", svc.List())
	}
}

func TestService_AddValidates(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.WatchedEntry
	}{
		{"missing id", domain.WatchedEntry{Title: "x", UserRating: 5}},
		{"rating zero", domain.WatchedEntry{ID: "1", UserRating: 0}},
		{"rating too high", domain.WatchedEntry{ID: "1", UserRating: 11}},
		{"negative runtime", domain.WatchedEntry{ID: "1", UserRating: 5, Runtime: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &memStore{}
			svc := newTestService(t, st)
			if err := svc.Add(tt.entry); !errors.Is(err, domain.ErrInvalidEntry) {
				t.Errorf("err = %v, want ErrInvalidEntry", err)
			}
			if st.saves != 0 {
				t.Error("invalid entry was persisted")
			}
		})
	}
}

func TestService_AddThenDeleteRestoresSnapshot(t *testing.T) {
	st := &memStore{entries: []domain.WatchedEntry{entry("a", "Alpha", 5), entry("b", "Beta", 6)}}
	svc := newTestService(t, st)
	before := svc.List()

	if err := svc.Add(entry("c", "Gamma", 7)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Delete("c"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if !reflect.DeepEqual(svc.List(), before) {
		t.Errorf("list = %+v, want %+v", svc.List(), before)
	}
	if !reflect.DeepEqual(st.entries, before) {
		t.Errorf("persisted = %+v, want %+v", st.entries, before)
	}
}

func TestService_DeleteAbsentIsNoop(t *testing.T) {
	st := &memStore{entries: []domain.WatchedEntry{entry("a", "Alpha", 5)}}
	svc := newTestService(t, st)

	if err := svc.Delete("zzz"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(svc.List()) != 1 || st.saves != 0 {
		t.Errorf("list = %+v, saves = %d", svc.List(), st.saves)
	}
}

func TestService_SaveFailureLeavesListUnchanged(t *testing.T) {
	st := &memStore{saveErr: errors.New("disk full")}
	svc := newTestService(t, st)

	if err := svc.Add(entry("1", "x", 5)); err == nil {
		t.Fatal("expected save error")
	}
	if len(svc.List()) != 0 {
		t.Errorf("list = %+v, want empty after failed save", svc.List())
	}
}

func TestService_Summary(t *testing.T) {
	st := &memStore{entries: []domain.WatchedEntry{
		{ID: "1", Rating: 8, UserRating: 10, Runtime: 100},
		{ID: "2", Rating: 6, UserRating: 6, Runtime: 131},
	}}
	svc := newTestService(t, st)

	sum := svc.Summary()
	if sum.Count != 2 || sum.AvgRating != 7 || sum.AvgUserRating != 8 || sum.AvgRuntime != 115.5 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestService_Filter(t *testing.T) {
	st := &memStore{entries: []domain.WatchedEntry{
		entry("1", "The Matrix", 9),
		entry("2", "Iron Man", 7),
		entry("3", "The Matrix Reloaded", 6),
	}}
	svc := newTestService(t, st)

	if got := svc.Filter("  "); len(got) != 3 {
		t.Errorf("empty filter returned %d entries, want 3", len(got))
	}

	got := svc.Filter("matrix")
	if len(got) != 2 {
		t.Fatalf("Filter(matrix) = %+v, want 2 entries", got)
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("order = %s, %s; want closer match first", got[0].ID, got[1].ID)
	}

	if got := svc.Filter("IRON"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Filter(IRON) = %+v", got)
	}
}

func TestService_ReloadsFromBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popcorn.db")

	st, err := store.NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	svc := newTestService(t, st)
	if err := svc.Add(entry("1", "Начало", 9)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Add(entry("2", "Interstellar", 10)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	want := svc.List()
	st.Close()

	reopened, err := store.NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	again := newTestService(t, reopened)
	if !reflect.DeepEqual(again.List(), want) {
		t.Errorf("reloaded = %+v, want %+v", again.List(), want)
	}
}
