package memory

import (
	"math"
	"strconv"
	"time"

	"github.com/yndnr/simple-redis/internal/core/domain"
)

// SetOptions are the modifiers of SET.
type SetOptions struct {
	TTL     time.Duration // > 0 sets an expiry
	KeepTTL bool          // retain the expiry of the replaced value
	NX      bool          // only set if the key does not exist
	XX      bool          // only set if the key exists
	Get     bool          // return the previous string value
}

// SetResult describes the outcome of Set.
type SetResult struct {
	Written bool
	Prev    []byte // previous value when SetOptions.Get was given
	HadPrev bool
}

// Get returns the string stored at key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var (
		out   []byte
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var sv *StringValue
		if sv, err = valueAs[*StringValue](e); err != nil || sv == nil {
			return
		}
		out, found = cloneBytes(sv.b), true
	})
	return out, found, err
}

// Set stores value at key, replacing any value of any type. With
// SetOptions.Get, a previous value of a non-string type is an error and
// nothing is written.
func (s *Store) Set(key string, value []byte, opts SetOptions) (SetResult, error) {
	var res SetResult
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		if opts.Get {
			prev, err := valueAs[*StringValue](e)
			if err != nil {
				return nil, err
			}
			if prev != nil {
				res.Prev, res.HadPrev = cloneBytes(prev.b), true
			}
		}
		if (opts.NX && e != nil) || (opts.XX && e == nil) {
			return e, nil
		}

		next := s.newEntry(&StringValue{b: cloneBytes(value)}, now)
		switch {
		case opts.TTL > 0:
			next.expiresAt = now + opts.TTL.Milliseconds()
		case opts.KeepTTL && e != nil:
			next.expiresAt = e.expiresAt
		}
		res.Written = true
		return next, nil
	})
	return res, err
}

// IncrBy adds delta to the integer stored at key and returns the result. A
// missing key counts as 0.
func (s *Store) IncrBy(key string, delta int64) (int64, error) {
	var result int64
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		sv, err := valueAs[*StringValue](e)
		if err != nil {
			return nil, err
		}
		var cur int64
		if sv != nil {
			cur, err = parseInt(sv.b)
			if err != nil {
				return nil, err
			}
		}
		if (delta > 0 && cur > math.MaxInt64-delta) || (delta < 0 && cur < math.MinInt64-delta) {
			return nil, domain.ErrOutOfRange
		}
		result = cur + delta

		b := strconv.AppendInt(nil, result, 10)
		if sv == nil {
			return s.newEntry(&StringValue{b: b}, now), nil
		}
		sv.b = b
		return e, nil
	})
	return result, err
}

// Append appends value to the string at key and returns the new length.
func (s *Store) Append(key string, value []byte) (int, error) {
	var n int
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		sv, err := valueAs[*StringValue](e)
		if err != nil {
			return nil, err
		}
		if sv == nil {
			n = len(value)
			return s.newEntry(&StringValue{b: cloneBytes(value)}, now), nil
		}
		sv.b = append(sv.b, value...)
		n = len(sv.b)
		return e, nil
	})
	return n, err
}

// StrLen returns the length of the string at key.
func (s *Store) StrLen(key string) (int, error) {
	var (
		n   int
		err error
	)
	s.view(key, func(e *entry) {
		var sv *StringValue
		if sv, err = valueAs[*StringValue](e); err == nil && sv != nil {
			n = sv.Len()
		}
	})
	return n, err
}

func parseInt(b []byte) (int64, error) {
	if len(b) == 0 || len(b) > 20 || b[0] == '+' {
		return 0, domain.ErrNotInteger
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, domain.ErrNotInteger
	}
	return n, nil
}
