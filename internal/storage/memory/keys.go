package memory

import "time"

// Sentinel results of TTL.
const (
	TTLMissing    int64 = -2
	TTLPersistent int64 = -1
)

// Del removes keys and returns how many existed.
func (s *Store) Del(keys ...string) int {
	removed := 0
	for _, key := range keys {
		_ = s.update(key, func(e *entry, _ int64) (*entry, error) {
			if e != nil {
				removed++
			}
			return nil, nil
		})
	}
	return removed
}

// Exists counts how many of keys exist. A key named twice counts twice.
func (s *Store) Exists(keys ...string) int {
	count := 0
	for _, key := range keys {
		s.view(key, func(e *entry) {
			if e != nil {
				count++
			}
		})
	}
	return count
}

// Expire sets the time to live of key. A non-positive ttl deletes the key.
// It reports whether the key exists.
func (s *Store) Expire(key string, ttl time.Duration) bool {
	found := false
	_ = s.update(key, func(e *entry, now int64) (*entry, error) {
		if e == nil {
			return nil, nil
		}
		found = true
		if ttl <= 0 {
			return nil, nil
		}
		e.expiresAt = now + ttl.Milliseconds()
		return e, nil
	})
	return found
}

// Persist removes the expiry of key. It reports whether an expiry was removed.
func (s *Store) Persist(key string) bool {
	cleared := false
	_ = s.update(key, func(e *entry, _ int64) (*entry, error) {
		if e != nil && e.expiresAt != 0 {
			e.expiresAt = 0
			cleared = true
		}
		return e, nil
	})
	return cleared
}

// TTL returns the remaining time to live of key in milliseconds, TTLMissing
// if the key does not exist, or TTLPersistent if it has no expiry.
func (s *Store) TTL(key string) int64 {
	ttl := TTLMissing
	now := s.nowMillis()
	s.view(key, func(e *entry) {
		switch {
		case e == nil:
		case e.expiresAt == 0:
			ttl = TTLPersistent
		default:
			ttl = max(e.expiresAt-now, 0)
		}
	})
	return ttl
}

// Type returns the type name of the value at key, or TypeNone.
func (s *Store) Type(key string) string {
	typ := TypeNone
	s.view(key, func(e *entry) {
		if e != nil {
			typ = e.value.Type()
		}
	})
	return typ
}

// DBSize returns the number of live keys.
func (s *Store) DBSize() int {
	now := s.nowMillis()
	n := 0
	s.data.Range(func(_ string, e *entry) bool {
		if e.live(now) {
			n++
		}
		return true
	})
	return n
}

// FlushAll removes every key and returns how many were removed.
func (s *Store) FlushAll() int {
	return s.data.Clear()
}
