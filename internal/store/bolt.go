// Package store persists the locker. Every backend implements
// domain.LockerStore and keys entries by Thumbnail.Key.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/locker/internal/domain"
)

var bucketLocker = []byte("locker")

// BoltStore implements domain.LockerStore using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory copy of the bucket, filled on first read
	cache  map[string][]byte
	loaded bool
}

// NewBoltStore opens locker.db under dir. An empty dir keeps everything in memory.
func NewBoltStore(dir string) (*BoltStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &BoltStore{cache: make(map[string][]byte), loaded: true}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "locker.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLocker)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// All returns every saved thumbnail, newest first
func (s *BoltStore) All(ctx context.Context) ([]domain.Thumbnail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Thumbnail, 0, len(s.cache))
	for key, data := range s.cache {
		var item domain.Thumbnail
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		items = append(items, item)
	}
	return domain.SortByDateTimeDesc(items), nil
}

// load promotes the whole bucket into the memory cache once
func (s *BoltStore) load() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	entries := make(map[string][]byte)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLocker)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			entries[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("read locker: %w", err)
	}

	s.mu.Lock()
	if !s.loaded {
		s.cache = entries
		s.loaded = true
	}
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) Put(ctx context.Context, item domain.Thumbnail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	key := item.Key()

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketLocker).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) Delete(ctx context.Context, item domain.Thumbnail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := item.Key()

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketLocker).Delete([]byte(key))
		})
		if err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}
