package memory

import "sort"

// FieldValue is one hash field.
type FieldValue struct {
	Field string
	Value []byte
}

// HSet sets field/value pairs given as alternating arguments and returns the
// number of fields that were added. A trailing field without value is
// ignored.
func (s *Store) HSet(key string, pairs ...[]byte) (int, error) {
	added := 0
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		hv, err := valueAs[*HashValue](e)
		if err != nil {
			return nil, err
		}
		if hv == nil {
			hv = newHash()
			e = s.newEntry(hv, now)
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			field := string(pairs[i])
			if _, ok := hv.fields[field]; !ok {
				added++
			}
			hv.fields[field] = cloneBytes(pairs[i+1])
		}
		return e, nil
	})
	return added, err
}

// HGet returns the value of field.
func (s *Store) HGet(key, field string) ([]byte, bool, error) {
	var (
		out   []byte
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var hv *HashValue
		if hv, err = valueAs[*HashValue](e); err != nil || hv == nil {
			return
		}
		if v, ok := hv.fields[field]; ok {
			out, found = cloneBytes(v), true
		}
	})
	return out, found, err
}

// HDel removes fields and returns how many existed.
func (s *Store) HDel(key string, fields ...string) (int, error) {
	removed := 0
	err := s.update(key, func(e *entry, _ int64) (*entry, error) {
		hv, err := valueAs[*HashValue](e)
		if err != nil || hv == nil {
			return e, err
		}
		for _, f := range fields {
			if _, ok := hv.fields[f]; ok {
				delete(hv.fields, f)
				removed++
			}
		}
		return e, nil
	})
	return removed, err
}

// HGetAll returns every field of the hash, sorted by field name.
func (s *Store) HGetAll(key string) ([]FieldValue, error) {
	var (
		out []FieldValue
		err error
	)
	s.view(key, func(e *entry) {
		var hv *HashValue
		if hv, err = valueAs[*HashValue](e); err != nil || hv == nil {
			return
		}
		out = make([]FieldValue, 0, len(hv.fields))
		for f, v := range hv.fields {
			out = append(out, FieldValue{Field: f, Value: cloneBytes(v)})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, err
}

// HMGet returns the values of fields in order, nil for missing ones.
func (s *Store) HMGet(key string, fields ...string) ([][]byte, error) {
	out := make([][]byte, len(fields))
	var err error
	s.view(key, func(e *entry) {
		var hv *HashValue
		if hv, err = valueAs[*HashValue](e); err != nil || hv == nil {
			return
		}
		for i, f := range fields {
			if v, ok := hv.fields[f]; ok {
				out[i] = cloneBytes(v)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HLen returns the number of fields in the hash.
func (s *Store) HLen(key string) (int, error) {
	var (
		n   int
		err error
	)
	s.view(key, func(e *entry) {
		var hv *HashValue
		if hv, err = valueAs[*HashValue](e); err == nil && hv != nil {
			n = hv.Len()
		}
	})
	return n, err
}

// HExists reports whether field exists in the hash.
func (s *Store) HExists(key, field string) (bool, error) {
	var (
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var hv *HashValue
		if hv, err = valueAs[*HashValue](e); err == nil && hv != nil {
			_, found = hv.fields[field]
		}
	})
	return found, err
}
