// Package cmap provides a sharded map keyed by strings.
//
// Keys are spread across a power-of-two number of shards by their murmur3
// hash. Each shard has its own RWMutex, so operations on different shards
// never contend.
//
// Usage:
//
//	m := cmap.NewWithShards[string, *Entry](32)
//	m.Compute("k", func(cur *Entry, ok bool) (*Entry, bool) {
//		return &Entry{}, true
//	})
//
// Compute and View run their callback while the shard lock is held. The
// callback must not call back into the same Map.
package cmap
