// Package shardmap implements a sharded, unordered hash index: a fixed
// array of independently latched shards, each mapping a key to a bucket
// that holds the key's value-set under its own latch.
//
// Grounded on original_source/index/inverted_index/inverted_index.hpp for
// the two-latch protocol, and on the teacher's internal/cache.Cache for the
// Go idiom of a fixed shard array with a sync.RWMutex embedded per shard.
package shardmap

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// DefaultShards is the shard count used when a caller does not specify one,
// matching spec's default S = 256.
const DefaultShards = 256

// ErrShardCountInvalid is returned by New when numShards <= 0.
var ErrShardCountInvalid = errors.New("shardmap: shard count must be positive")

// Hash computes a shard-selection digest for a key. Callers supply this
// because Go generics offer no generic hash function for an arbitrary
// comparable type parameter.
type Hash[K comparable] func(key K) uint64

type bucket[V comparable] struct {
	mu     sync.RWMutex
	values map[V]struct{}
}

func newBucket[V comparable]() *bucket[V] {
	return &bucket[V]{values: make(map[V]struct{})}
}

type shard[K comparable, V comparable] struct {
	mu      sync.RWMutex
	buckets map[K]*bucket[V]
}

// Index is a sharded multi-map from K to a set of V, safe for concurrent
// use by any number of goroutines.
type Index[K comparable, V comparable] struct {
	hash   Hash[K]
	shards []shard[K, V]
}

// New builds an Index with the given shard count and hash function. numShards
// must be positive.
func New[K comparable, V comparable](numShards int, hash Hash[K]) (*Index[K, V], error) {
	if numShards <= 0 {
		return nil, ErrShardCountInvalid
	}
	idx := &Index[K, V]{
		hash:   hash,
		shards: make([]shard[K, V], numShards),
	}
	for i := range idx.shards {
		idx.shards[i].buckets = make(map[K]*bucket[V])
	}
	return idx, nil
}

func (idx *Index[K, V]) shardFor(key K) *shard[K, V] {
	h := idx.hash(key)
	return &idx.shards[h%uint64(len(idx.shards))]
}

// Insert adds (key, value), returning whether the pair was newly added.
//
// The shard latch is taken read-side first (optimistic lookup of an
// existing bucket); only when the bucket is absent is it upgraded to the
// shard write latch to create one. The bucket itself is always mutated
// under its own write latch, taken after the shard latch is released, so
// that concurrent writers to distinct buckets in the same shard only
// serialize on the (short) bucket-lookup path.
func (idx *Index[K, V]) Insert(key K, value V) bool {
	s := idx.shardFor(key)

	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		b, ok = s.buckets[key]
		if !ok {
			b = newBucket[V]()
			s.buckets[key] = b
		}
		s.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, present := b.values[value]; present {
		return false
	}
	b.values[value] = struct{}{}
	return true
}

// Search returns a snapshot of the value-set for key, or an empty set if
// key is absent.
func (idx *Index[K, V]) Search(key K) map[V]struct{} {
	s := idx.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[key]
	if !ok {
		return map[V]struct{}{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[V]struct{}, len(b.values))
	for v := range b.values {
		out[v] = struct{}{}
	}
	return out
}

// Remove erases the entire key (and its bucket entry) from its shard. Any
// reader already holding a reference to the bucket continues to observe
// its value-set safely; the bucket is only unreachable for future lookups.
func (idx *Index[K, V]) Remove(key K) bool {
	s := idx.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[key]; !ok {
		return false
	}
	delete(s.buckets, key)
	return true
}

// RemoveValue erases a single value from key's bucket. If the bucket
// becomes empty as a result, the shard entry for key is erased too.
func (idx *Index[K, V]) RemoveValue(key K, value V) bool {
	s := idx.shardFor(key)

	s.mu.Lock()
	b, ok := s.buckets[key]
	if !ok {
		s.mu.Unlock()
		return false
	}

	b.mu.Lock()
	_, removed := b.values[value]
	delete(b.values, value)
	empty := len(b.values) == 0
	b.mu.Unlock()

	if empty {
		delete(s.buckets, key)
	}
	s.mu.Unlock()

	return removed
}

// Len returns the number of distinct keys across all shards. It is an
// O(shards) operation that takes and releases each shard's read latch in
// turn; it is not a point-in-time snapshot of the whole index.
func (idx *Index[K, V]) Len() int {
	n := 0
	for i := range idx.shards {
		idx.shards[i].mu.RLock()
		n += len(idx.shards[i].buckets)
		idx.shards[i].mu.RUnlock()
	}
	return n
}
