package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is used when a non power-of-two count is requested.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map.
type Map[K ~string, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
}

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a new sharded map with the default shard count.
func New[K ~string, V any]() *Map[K, V] {
	return NewWithShards[K, V](DefaultShardCount)
}

// NewWithShards creates a new sharded map with the specified shard count.
// shardCount must be a power of 2.
func NewWithShards[K ~string, V any](shardCount int) *Map[K, V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], shardCount),
		shardMask: uint64(shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[murmur3.Sum64([]byte(key))&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	shard := m.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	val, ok := shard.items[key]
	return val, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.items[key] = value
}

// Delete removes a key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	_, ok := shard.items[key]
	delete(shard.items, key)
	return ok
}

// Count returns the total number of items.
func (m *Map[K, V]) Count() int {
	count := 0
	for _, shard := range m.shards {
		shard.mu.RLock()
		count += len(shard.items)
		shard.mu.RUnlock()
	}
	return count
}

// Clear removes all items and returns how many were removed.
func (m *Map[K, V]) Clear() int {
	removed := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		removed += len(shard.items)
		shard.items = make(map[K]V)
		shard.mu.Unlock()
	}
	return removed
}

// Compute runs fn under the shard write lock with the current value for key.
// If fn returns keep=false the key is removed, otherwise the returned value
// is stored.
func (m *Map[K, V]) Compute(key K, fn func(cur V, exists bool) (next V, keep bool)) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	cur, exists := shard.items[key]
	next, keep := fn(cur, exists)
	if !keep {
		delete(shard.items, key)
		return
	}
	shard.items[key] = next
}

// View runs fn under the shard read lock. fn must not modify the value.
func (m *Map[K, V]) View(key K, fn func(cur V, exists bool)) {
	shard := m.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	cur, exists := shard.items[key]
	fn(cur, exists)
}

// DeleteIf removes key when pred holds for its current value. It reports
// whether the key was removed.
func (m *Map[K, V]) DeleteIf(key K, pred func(V) bool) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	cur, ok := shard.items[key]
	if !ok || !pred(cur) {
		return false
	}
	delete(shard.items, key)
	return true
}
