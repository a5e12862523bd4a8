package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/popcorn/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// DefaultSlot is the key the watched snapshot is stored under
const DefaultSlot = "watched"

// Bucket names
var (
	bucketWatched = []byte("watched")
)

// WatchedStore implements domain.WatchedStore using BoltDB.
// The whole list is one JSON value under a single slot key.
type WatchedStore struct {
	db   *bolt.DB
	slot string
	mu   sync.RWMutex // Protects memory cache

	// In-memory copy of the last snapshot read or written
	cache map[string][]byte
}

// NewWatchedStore opens (or creates) the database at path.
// An empty path selects memory-only mode.
func NewWatchedStore(path, slot string) (*WatchedStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if path == "" {
		// Memory-only mode (no persistence)
		return &WatchedStore{slot: slot, cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWatched)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &WatchedStore{db: db, slot: slot, cache: make(map[string][]byte)}, nil
}

func (s *WatchedStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadWatched returns the saved snapshot. A missing or null snapshot is an empty list.
func (s *WatchedStore) LoadWatched() ([]domain.WatchedEntry, error) {
	data, err := s.get(bucketWatched, s.slot)
	if err != nil {
		return nil, err
	}

	entries := []domain.WatchedEntry{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode watched snapshot: %w", err)
	}
	if entries == nil {
		entries = []domain.WatchedEntry{}
	}
	return entries, nil
}

// SaveWatched replaces the snapshot
func (s *WatchedStore) SaveWatched(entries []domain.WatchedEntry) error {
	if entries == nil {
		entries = []domain.WatchedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.set(bucketWatched, s.slot, data)
}

// === Generic helpers ===

func (s *WatchedStore) get(bucket []byte, key string) ([]byte, error) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if data != nil {
		s.mu.Lock()
		s.cache[cacheKey] = data
		s.mu.Unlock()
	}
	return data, nil
}

func (s *WatchedStore) set(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
			return b.Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()
	return nil
}
