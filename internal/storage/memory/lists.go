package memory

// LPush inserts values at the head of the list at key, one after another,
// and returns the new length.
func (s *Store) LPush(key string, values ...[]byte) (int, error) {
	return s.push(key, values, true)
}

// RPush appends values to the tail of the list at key and returns the new
// length.
func (s *Store) RPush(key string, values ...[]byte) (int, error) {
	return s.push(key, values, false)
}

func (s *Store) push(key string, values [][]byte, head bool) (int, error) {
	var n int
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		lv, err := valueAs[*ListValue](e)
		if err != nil {
			return nil, err
		}
		if lv == nil {
			lv = &ListValue{}
			e = s.newEntry(lv, now)
		}

		if head {
			items := make([][]byte, 0, len(values)+len(lv.items))
			for i := len(values) - 1; i >= 0; i-- {
				items = append(items, cloneBytes(values[i]))
			}
			lv.items = append(items, lv.items...)
		} else {
			for _, v := range values {
				lv.items = append(lv.items, cloneBytes(v))
			}
		}
		n = len(lv.items)
		return e, nil
	})
	return n, err
}

// LPop removes and returns up to count elements from the head of the list.
// It returns nil when the key does not exist.
func (s *Store) LPop(key string, count int) ([][]byte, error) {
	return s.pop(key, count, true)
}

// RPop removes and returns up to count elements from the tail of the list.
func (s *Store) RPop(key string, count int) ([][]byte, error) {
	return s.pop(key, count, false)
}

func (s *Store) pop(key string, count int, head bool) ([][]byte, error) {
	var out [][]byte
	err := s.update(key, func(e *entry, _ int64) (*entry, error) {
		lv, err := valueAs[*ListValue](e)
		if err != nil || lv == nil {
			return e, err
		}

		n := min(count, len(lv.items))
		out = make([][]byte, 0, n)
		if head {
			out = append(out, lv.items[:n]...)
			lv.items = lv.items[n:]
		} else {
			for i := 0; i < n; i++ {
				out = append(out, lv.items[len(lv.items)-1-i])
			}
			lv.items = lv.items[:len(lv.items)-n]
		}
		return e, nil
	})
	return out, err
}

// LRange returns the elements between start and stop inclusive. Negative
// indexes count from the tail.
func (s *Store) LRange(key string, start, stop int64) ([][]byte, error) {
	var (
		out [][]byte
		err error
	)
	s.view(key, func(e *entry) {
		var lv *ListValue
		if lv, err = valueAs[*ListValue](e); err != nil || lv == nil {
			return
		}
		lo, hi, ok := normalizeRange(start, stop, len(lv.items))
		if !ok {
			return
		}
		out = make([][]byte, 0, hi-lo+1)
		for _, item := range lv.items[lo : hi+1] {
			out = append(out, cloneBytes(item))
		}
	})
	return out, err
}

// LLen returns the length of the list at key.
func (s *Store) LLen(key string) (int, error) {
	var (
		n   int
		err error
	)
	s.view(key, func(e *entry) {
		var lv *ListValue
		if lv, err = valueAs[*ListValue](e); err == nil && lv != nil {
			n = lv.Len()
		}
	})
	return n, err
}

// LIndex returns the element at index. Negative indexes count from the tail.
func (s *Store) LIndex(key string, index int64) ([]byte, bool, error) {
	var (
		out   []byte
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var lv *ListValue
		if lv, err = valueAs[*ListValue](e); err != nil || lv == nil {
			return
		}
		if index < 0 {
			index += int64(len(lv.items))
		}
		if index < 0 || index >= int64(len(lv.items)) {
			return
		}
		out, found = cloneBytes(lv.items[index]), true
	})
	return out, found, err
}

// normalizeRange clamps an inclusive [start, stop] range with negative
// indexes over a sequence of length n. ok is false when the range is empty.
func normalizeRange(start, stop int64, n int) (lo, hi int, ok bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop), true
}
