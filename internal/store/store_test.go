package store

import (
	"path/filepath"
	"testing"

	"github.com/mmcdole/popcorn/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func sampleEntries() []domain.WatchedEntry {
	return []domain.WatchedEntry{
		{ID: "447301", Title: "Начало", PosterURL: "https://img/1.jpg", Rating: 8.6, UserRating: 9, Runtime: 148, RatingDecisions: 2},
		{ID: "61237", Title: "Железный человек", Rating: 7.9, UserRating: 7, Runtime: 121},
	}
}

func TestWatchedStore_EmptyLoad(t *testing.T) {
	s, err := NewWatchedStore(filepath.Join(t.TempDir(), "popcorn.db"), "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	defer s.Close()

	entries, err := s.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty non-nil slice", entries)
	}
}

func TestWatchedStore_RoundTrip(t *testing.T) {
	s, err := NewWatchedStore(filepath.Join(t.TempDir(), "popcorn.db"), DefaultSlot)
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	defer s.Close()

	want := sampleEntries()
	if err := s.SaveWatched(want); err != nil {
		t.Fatalf("SaveWatched failed: %v", err)
	}

	got, err := s.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWatchedStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "popcorn.db")

	s, err := NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	if err := s.SaveWatched(sampleEntries()); err != nil {
		t.Fatalf("SaveWatched failed: %v", err)
	}
	if err := s.SaveWatched(sampleEntries()[:1]); err != nil {
		t.Fatalf("SaveWatched failed: %v", err)
	}
	s.Close()

	reopened, err := NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "447301" {
		t.Errorf("got %+v, want only the last snapshot", got)
	}
}

func TestWatchedStore_SlotsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popcorn.db")

	a, err := NewWatchedStore(path, "alice")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	if err := a.SaveWatched(sampleEntries()); err != nil {
		t.Fatalf("SaveWatched failed: %v", err)
	}
	a.Close()

	b, err := NewWatchedStore(path, "bob")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	defer b.Close()

	got, err := b.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("slot bob = %+v, want empty", got)
	}
}

func TestWatchedStore_NullSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popcorn.db")

	s, err := NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWatched).Put([]byte(DefaultSlot), []byte("null"))
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	defer s.Close()

	got, err := s.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty list", got)
	}
}

func TestWatchedStore_CorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popcorn.db")

	s, err := NewWatchedStore(path, "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	defer s.Close()
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWatched).Put([]byte(DefaultSlot), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := s.LoadWatched(); err == nil {
		t.Error("expected decode error for corrupt snapshot")
	}
}

func TestWatchedStore_MemoryOnly(t *testing.T) {
	s, err := NewWatchedStore("", "")
	if err != nil {
		t.Fatalf("NewWatchedStore failed: %v", err)
	}
	defer s.Close()

	if err := s.SaveWatched(sampleEntries()); err != nil {
		t.Fatalf("SaveWatched failed: %v", err)
	}
	got, err := s.LoadWatched()
	if err != nil {
		t.Fatalf("LoadWatched failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
