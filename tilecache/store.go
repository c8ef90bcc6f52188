// Package tilecache persists fetched WMTS tiles so previously visited map
// regions keep working offline. A read-through resolver layers a small
// in-memory hot cache over a persistent Badger store over HTTP, and a batch
// downloader prefetches whole regions ahead of a trip.
package tilecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// CachedTile is one stored tile image with its storage timestamp.
type CachedTile struct {
	URL      string
	Data     []byte
	StoredAt time.Time
}

// Store is the persistent tile cache keyed by request URL.
// Get returns (nil, nil) on a miss.
type Store interface {
	Get(url string) (*CachedTile, error)
	Put(url string, data []byte) error
	Close() error
}

// BadgerConfig configures the on-disk tile store.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps the whole store in RAM. Used in tests.
	InMemory bool
}

// BadgerStore persists tiles in a Badger key-value database. Values carry an
// 8-byte big-endian unix-nano timestamp followed by the raw tile bytes.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the tile database.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening tile store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(url string) (*CachedTile, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(url))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tile %s: %w", url, err)
	}
	return decodeTile(url, value)
}

func (s *BadgerStore) Put(url string, data []byte) error {
	value := make([]byte, 8+len(data))
	binary.BigEndian.PutUint64(value, uint64(time.Now().UnixNano()))
	copy(value[8:], data)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(url), value)
	})
	if err != nil {
		return fmt.Errorf("storing tile %s: %w", url, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func decodeTile(url string, value []byte) (*CachedTile, error) {
	if len(value) < 8 {
		return nil, fmt.Errorf("corrupt tile record for %s: %d bytes", url, len(value))
	}
	ts := int64(binary.BigEndian.Uint64(value))
	return &CachedTile{
		URL:      url,
		Data:     value[8:],
		StoredAt: time.Unix(0, ts),
	}, nil
}

// MemoryStore is a map-backed Store for tests and short-lived sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	tiles map[string]*CachedTile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tiles: make(map[string]*CachedTile)}
}

func (s *MemoryStore) Get(url string) (*CachedTile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tiles[url]
	if !ok {
		return nil, nil
	}
	// Copy out, same as the Badger store: callers must not be able to
	// mutate the cached bytes.
	cp := *t
	cp.Data = append([]byte(nil), t.Data...)
	return &cp, nil
}

func (s *MemoryStore) Put(url string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles[url] = &CachedTile{
		URL:      url,
		Data:     append([]byte(nil), data...),
		StoredAt: time.Now(),
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
