package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yndnr/simple-redis/pkg/cmap"
)

// DefaultShardCount is the default number of keyspace shards.
const DefaultShardCount = 32

type entry struct {
	value     Value
	expiresAt int64 // unix milliseconds, 0 = no expiry
}

func (e *entry) live(now int64) bool {
	return e.expiresAt == 0 || e.expiresAt > now
}

// Store is the keyspace.
type Store struct {
	data       *cmap.Map[string, *entry]
	defaultTTL time.Duration
	now        func() time.Time

	expired atomic.Uint64
}

// Option configures the Store.
type Option func(*Store)

// WithShardCount sets the number of shards. It must be a power of two.
func WithShardCount(n int) Option {
	return func(s *Store) {
		s.data = cmap.NewWithShards[string, *entry](n)
	}
}

// WithDefaultTTL assigns ttl to keys created without an explicit expiry.
// Zero disables it.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.defaultTTL = ttl
	}
}

// WithClock replaces the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.data == nil {
		s.data = cmap.NewWithShards[string, *entry](DefaultShardCount)
	}
	return s
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// newEntry wraps v for a key being created, applying the default TTL.
func (s *Store) newEntry(v Value, now int64) *entry {
	e := &entry{value: v}
	if s.defaultTTL > 0 {
		e.expiresAt = now + s.defaultTTL.Milliseconds()
	}
	return e
}

// view runs fn under the shard read lock with the live entry for key, or nil
// when the key is absent or expired. An expired entry is reaped afterwards.
func (s *Store) view(key string, fn func(e *entry)) {
	now := s.nowMillis()
	stale := false
	s.data.View(key, func(e *entry, ok bool) {
		if ok && !e.live(now) {
			stale = true
			ok = false
		}
		if !ok {
			e = nil
		}
		fn(e)
	})
	if stale {
		s.reap(key, now)
	}
}

// update runs fn under the shard write lock with the live entry for key, or
// nil. fn returns the entry to keep, or nil to remove the key. On error the
// key is left as it was. Entries whose aggregate value became empty are
// removed.
func (s *Store) update(key string, fn func(e *entry, now int64) (*entry, error)) error {
	now := s.nowMillis()
	var err error
	s.data.Compute(key, func(cur *entry, ok bool) (*entry, bool) {
		if ok && !cur.live(now) {
			s.expired.Add(1)
			ok = false
		}
		if !ok {
			cur = nil
		}

		next, ferr := fn(cur, now)
		if ferr != nil {
			err = ferr
			return cur, cur != nil
		}
		if next == nil || next.value.empty() {
			return nil, false
		}
		return next, true
	})
	return err
}

func (s *Store) reap(key string, now int64) {
	if s.data.DeleteIf(key, func(e *entry) bool { return !e.live(now) }) {
		s.expired.Add(1)
	}
}

// Sweep removes every expired key and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.nowMillis()
	n := s.data.Purge(func(_ string, e *entry) bool { return !e.live(now) })
	s.expired.Add(uint64(n))
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Stats is a point-in-time view of the keyspace.
type Stats struct {
	Keys    int    // live keys
	Expired uint64 // keys removed because their TTL passed
	Shards  int
}

// Stats returns keyspace statistics.
func (s *Store) Stats() Stats {
	return Stats{
		Keys:    s.DBSize(),
		Expired: s.expired.Load(),
		Shards:  s.data.ShardCount(),
	}
}
