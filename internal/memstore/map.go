// Package memstore holds the concurrent in-memory containers the services
// keep their entities in.
package memstore

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultShardPower = 5
	minShardPower     = 2
	maxShardPower     = 8
)

// Map is a string-keyed map split into shards, each guarded by its own
// RWMutex. Values are stored and returned by value.
type Map[V any] struct {
	shards []*shard[V]
	mask   uint64
	count  atomic.Int64
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func NewMap[V any]() *Map[V] {
	return NewMapWithShards[V](defaultShardPower)
}

// NewMapWithShards creates a map with 2^power shards, clamped to [4, 256].
func NewMapWithShards[V any](power uint8) *Map[V] {
	if power < minShardPower {
		power = minShardPower
	} else if power > maxShardPower {
		power = maxShardPower
	}

	n := 1 << power
	m := &Map[V]{
		shards: make([]*shard[V], n),
		mask:   uint64(n - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{m: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardFor(key string) *shard[V] {
	return m.shards[xxhash.Sum64String(key)&m.mask]
}

func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	return v, ok
}

func (m *Map[V]) Put(key string, v V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[key]; !ok {
		m.count.Add(1)
	}
	s.m[key] = v
}

// PutIfAbsent stores v only when key is free. It reports whether v was stored.
func (m *Map[V]) PutIfAbsent(key string, v V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[key]; ok {
		return false
	}
	s.m[key] = v
	m.count.Add(1)
	return true
}

func (m *Map[V]) Remove(key string) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[key]; ok {
		delete(s.m, key)
		m.count.Add(-1)
	}
}

// Update replaces the value under key with fn's result while holding the
// shard's write lock. If fn returns an error nothing is written. The bool
// result is false when key is absent, in which case fn is not called.
func (m *Map[V]) Update(key string, fn func(V) (V, error)) (V, bool, error) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	cur, ok := s.m[key]
	if !ok {
		return zero, false, nil
	}

	next, err := fn(cur)
	if err != nil {
		return zero, true, err
	}
	s.m[key] = next
	return next, true, nil
}

// Delete removes key if check (when non-nil) approves the current value.
// It returns the removed value.
func (m *Map[V]) Delete(key string, check func(V) error) (V, bool, error) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	cur, ok := s.m[key]
	if !ok {
		return zero, false, nil
	}
	if check != nil {
		if err := check(cur); err != nil {
			return zero, true, err
		}
	}

	delete(s.m, key)
	m.count.Add(-1)
	return cur, true, nil
}

func (m *Map[V]) Len() int {
	return int(m.count.Load())
}

// All yields every entry. Each shard is copied under its read lock before
// being yielded, so the sequence is consistent per shard but not across
// shards, and yield may call back into the map.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, s := range m.shards {
			s.mu.RLock()
			keys := make([]string, 0, len(s.m))
			vals := make([]V, 0, len(s.m))
			for k, v := range s.m {
				keys = append(keys, k)
				vals = append(vals, v)
			}
			s.mu.RUnlock()

			for i := range keys {
				if !yield(keys[i], vals[i]) {
					return
				}
			}
		}
	}
}

func (m *Map[V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.All() {
		out = append(out, v)
	}
	return out
}
