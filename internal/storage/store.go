// Package storage provides the persistent keyed stores using Pebble.
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/anthropics/indexer-go/pkg/types"
	"github.com/cockroachdb/pebble"
)

// Kind selects one of the three keyed stores. The stores share a single
// Pebble database; each Kind is a key namespace behind a one-byte prefix.
type Kind byte

const (
	Word Kind = 0x01 // ixw: term -> word id
	Doc  Kind = 0x02 // ixd: word id -> (doc id, occurrence) records
	Pos  Kind = 0x03 // ixp: (doc id, word id) -> position list
)

// dbSubdir is the database directory under the configured index directory.
// Two indexers using the same encodings may share it.
const dbSubdir = "ix"

// Store provides persistent storage for the index.
type Store struct {
	db       *pebble.DB
	readOnly bool
	sync     bool
	closed   atomic.Bool
}

// Open opens the store under cfg.Dir. Write mode creates a missing store;
// read-only mode fails on one.
func Open(cfg types.StorageConfig) (*Store, error) {
	path := filepath.Join(cfg.Dir, dbSubdir)

	if !cfg.WriteMode {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, types.Errorf("storage.Open", types.ErrStoreMissing, "no index store under %s", cfg.Dir)
		}
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 64 << 20
	}

	opts := &pebble.Options{
		Cache:        pebble.NewCache(cacheSize),
		MaxOpenFiles: 1000,
		ReadOnly:     !cfg.WriteMode,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		if cfg.WriteMode && strings.Contains(strings.ToLower(err.Error()), "lock") {
			return nil, types.WrapError("storage.Open", types.ErrAlreadyOpenForWrite, err)
		}
		return nil, types.WrapError("storage.Open", types.ErrStoreOpenFailed, err)
	}

	return &Store{
		db:       db,
		readOnly: !cfg.WriteMode,
		sync:     cfg.SyncWrites,
	}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}
	return s.db.Close()
}

// ReadOnly reports whether the store rejects writes.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}

func storeKey(k Kind, key []byte) []byte {
	buf := make([]byte, 1+len(key))
	buf[0] = byte(k)
	copy(buf[1:], key)
	return buf
}

// Get returns a copy of the value stored under key, or ok=false if absent.
func (s *Store) Get(k Kind, key []byte) ([]byte, bool, error) {
	val, closer, err := s.db.Get(storeKey(k, key))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, types.WrapError("storage.Get", types.ErrStorageIO, err)
	}
	defer closer.Close()

	return bytes.Clone(val), true, nil
}

// Put stores value under key.
func (s *Store) Put(k Kind, key, value []byte) error {
	if s.readOnly {
		return types.Errorf("storage.Put", types.ErrReadOnly, "store is read-only")
	}
	if err := s.db.Set(storeKey(k, key), value, s.writeOpts()); err != nil {
		return types.WrapError("storage.Put", types.ErrStorageIO, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(k Kind, key []byte) error {
	if s.readOnly {
		return types.Errorf("storage.Delete", types.ErrReadOnly, "store is read-only")
	}
	if err := s.db.Delete(storeKey(k, key), s.writeOpts()); err != nil {
		return types.WrapError("storage.Delete", types.ErrStorageIO, err)
	}
	return nil
}

// Iterate walks every (key, value) pair of one store in key order. The key
// passed to fn excludes the store prefix and is only valid for the call.
func (s *Store) Iterate(k Kind, fn func(key, value []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{byte(k)},
		UpperBound: []byte{byte(k) + 1},
	})
	if err != nil {
		return types.WrapError("storage.Iterate", types.ErrStorageIO, err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key()[1:], iter.Value()); err != nil {
			return err
		}
	}

	return iter.Error()
}

func (s *Store) writeOpts() *pebble.WriteOptions {
	if s.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// Batch groups the store updates of one indexing operation so they reach
// the log together.
type Batch struct {
	store *Store
	batch *pebble.Batch
}

// NewBatch creates a new batch.
func (s *Store) NewBatch() *Batch {
	return &Batch{
		store: s,
		batch: s.db.NewBatch(),
	}
}

// Put adds a write to the batch.
func (b *Batch) Put(k Kind, key, value []byte) error {
	return b.batch.Set(storeKey(k, key), value, nil)
}

// Delete adds a deletion to the batch.
func (b *Batch) Delete(k Kind, key []byte) error {
	return b.batch.Delete(storeKey(k, key), nil)
}

// Commit commits the batch.
func (b *Batch) Commit() error {
	if b.store.readOnly {
		return types.Errorf("storage.Batch.Commit", types.ErrReadOnly, "store is read-only")
	}
	if err := b.batch.Commit(b.store.writeOpts()); err != nil {
		return types.WrapError("storage.Batch.Commit", types.ErrStorageIO, err)
	}
	return nil
}

// Close discards the batch without committing.
func (b *Batch) Close() error {
	return b.batch.Close()
}

// Flush forces buffered writes down to disk.
func (s *Store) Flush() error {
	if s.readOnly {
		return nil
	}
	if err := s.db.Flush(); err != nil {
		return types.WrapError("storage.Flush", types.ErrStorageIO, err)
	}
	return nil
}

// Metrics returns storage statistics.
func (s *Store) Metrics() map[string]any {
	m := s.db.Metrics()
	return map[string]any{
		"disk_space":    m.DiskSpaceUsage(),
		"read_amp":      m.ReadAmp(),
		"flush_count":   m.Flush.Count,
		"compact_count": m.Compact.Count,
	}
}
