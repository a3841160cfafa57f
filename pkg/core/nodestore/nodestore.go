/*
Package nodestore persists forest node hashes by position on top of a
storage.Store using the NodeHash binary encoding.
*/
package nodestore

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/utreexo-go/pkg/accumulator"
	"github.com/nspcc-dev/utreexo-go/pkg/core/storage"
	"github.com/nspcc-dev/utreexo-go/pkg/io"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of decoded node hashes kept in memory when
// no other value is configured.
const DefaultCacheSize = 1024

// Version is the node store format version kept in the storage.
const Version = "0.1.0"

// ErrVersionMismatch is returned by New when the storage holds node hashes
// of a different format version.
var ErrVersionMismatch = errors.New("storage version mismatch")

// keySize is the size of a storage key: prefix and big-endian position.
const keySize = 9

// Config is the node store configuration.
type Config struct {
	// CacheSize is the number of decoded node hashes kept in memory, zero
	// means DefaultCacheSize.
	CacheSize int `yaml:"CacheSize"`
}

// Store keeps node hashes by forest position. Missing positions read as
// empty hashes and storing an empty hash removes the record, so only
// placeholders and concrete digests occupy the storage. It's safe for
// concurrent use as long as the underlying storage.Store is.
type Store struct {
	store storage.Store
	cache *lru.Cache
	log   *zap.Logger

	// lock serializes storage writes with cache fills so that a cache
	// entry always matches the latest stored record.
	lock sync.Mutex
}

// New creates a node store on top of s.
func New(s storage.Store, cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("invalid cache size: %d", cfg.CacheSize)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(s, log); err != nil {
		return nil, err
	}
	return &Store{
		store: s,
		cache: cache,
		log:   log,
	}, nil
}

// checkVersion stores the format version into an empty storage or
// ensures that a non-empty one has the same version.
func checkVersion(s storage.Store, log *zap.Logger) error {
	ver, err := s.Get(storage.SYSVersion.Bytes())
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return fmt.Errorf("failed to get storage version: %w", err)
		}
		log.Info("no storage version found, initializing", zap.String("version", Version))
		if err := s.Put(storage.SYSVersion.Bytes(), []byte(Version)); err != nil {
			return fmt.Errorf("failed to put storage version: %w", err)
		}
		return nil
	}
	if string(ver) != Version {
		return fmt.Errorf("%w: expected %s, got %s", ErrVersionMismatch, Version, ver)
	}
	return nil
}

// makeKey returns the storage key for the given position.
func makeKey(pos uint64) []byte {
	w := io.NewBufBinWriter()
	w.WriteB(byte(storage.DataNodeHash))
	w.WriteU64BE(pos)
	return w.Bytes()
}

// decodeKey extracts the position from a storage key.
func decodeKey(k []byte) (uint64, error) {
	if len(k) != keySize || k[0] != byte(storage.DataNodeHash) {
		return 0, fmt.Errorf("invalid node hash key %x", k)
	}
	r := io.NewBinReaderFromBuf(k[1:])
	pos := r.ReadU64BE()
	return pos, r.Err
}

// Get returns the node hash at the given position. Positions without a
// record are empty.
func (s *Store) Get(pos uint64) (accumulator.NodeHash, error) {
	if v, ok := s.cache.Get(pos); ok {
		cacheHits.Inc()
		return v.(accumulator.NodeHash), nil
	}
	cacheMisses.Inc()

	s.lock.Lock()
	defer s.lock.Unlock()
	if v, ok := s.cache.Get(pos); ok {
		return v.(accumulator.NodeHash), nil
	}
	data, err := s.store.Get(makeKey(pos))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			s.cache.Add(pos, accumulator.Empty())
			return accumulator.Empty(), nil
		}
		return accumulator.Empty(), fmt.Errorf("failed to get node %d: %w", pos, err)
	}
	var h accumulator.NodeHash
	if err := h.UnmarshalBinary(data); err != nil {
		return accumulator.Empty(), fmt.Errorf("bad node %d record: %w", pos, err)
	}
	s.cache.Add(pos, h)
	return h, nil
}

// Put stores h at the given position.
func (s *Store) Put(pos uint64, h accumulator.NodeHash) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var err error
	if h.IsEmpty() {
		err = s.store.Delete(makeKey(pos))
	} else {
		var data []byte
		data, err = h.MarshalBinary()
		if err == nil {
			err = s.store.Put(makeKey(pos), data)
		}
	}
	if err != nil {
		s.cache.Remove(pos)
		return fmt.Errorf("failed to put node %d: %w", pos, err)
	}
	writes.Inc()
	s.cache.Add(pos, h)
	return nil
}

// Delete removes the node hash at the given position, it's the same as
// storing an empty hash there.
func (s *Store) Delete(pos uint64) error {
	return s.Put(pos, accumulator.Empty())
}

// PutBatch stores all the given node hashes atomically.
func (s *Store) PutBatch(hashes map[uint64]accumulator.NodeHash) error {
	puts := make(map[string][]byte, len(hashes))
	for pos, h := range hashes {
		var data []byte
		if !h.IsEmpty() {
			var err error
			data, err = h.MarshalBinary()
			if err != nil {
				return fmt.Errorf("failed to encode node %d: %w", pos, err)
			}
		}
		puts[string(makeKey(pos))] = data
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.store.PutChangeSet(puts); err != nil {
		for pos := range hashes {
			s.cache.Remove(pos)
		}
		return fmt.Errorf("failed to put %d nodes: %w", len(hashes), err)
	}
	writes.Add(float64(len(hashes)))
	for pos, h := range hashes {
		s.cache.Add(pos, h)
	}
	s.log.Debug("node batch stored", zap.Int("count", len(hashes)))
	return nil
}

// Parent computes the parent hash of the nodes at left and right positions,
// stores it at dst and returns it.
func (s *Store) Parent(left, right, dst uint64) (accumulator.NodeHash, error) {
	l, err := s.Get(left)
	if err != nil {
		return accumulator.Empty(), err
	}
	r, err := s.Get(right)
	if err != nil {
		return accumulator.Empty(), err
	}
	p := accumulator.ParentHash(l, r)
	if err := s.Put(dst, p); err != nil {
		return accumulator.Empty(), err
	}
	s.log.Debug("parent hash computed",
		zap.Uint64("left", left),
		zap.Uint64("right", right),
		zap.Uint64("dst", dst),
		zap.Stringer("hash", p))
	return p, nil
}

// Iterate calls f for every stored node hash in ascending position order
// until f returns false.
func (s *Store) Iterate(f func(pos uint64, h accumulator.NodeHash) bool) error {
	var iterErr error
	err := s.store.Seek(storage.SeekRange{Prefix: storage.DataNodeHash.Bytes()}, func(k, v []byte) bool {
		pos, err := decodeKey(k)
		if err != nil {
			iterErr = err
			return false
		}
		var h accumulator.NodeHash
		if err := h.UnmarshalBinary(v); err != nil {
			iterErr = fmt.Errorf("bad node %d record: %w", pos, err)
			return false
		}
		return f(pos, h)
	})
	if err != nil {
		return err
	}
	return iterErr
}

// Close closes the underlying storage.
func (s *Store) Close() error {
	s.cache.Purge()
	return s.store.Close()
}
