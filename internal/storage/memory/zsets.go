package memory

// ZAdd sets the scores of members and returns how many were added. Members
// that already exist only have their score updated.
func (s *Store) ZAdd(key string, members ...ScoredMember) (int, error) {
	added := 0
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		zv, err := valueAs[*ZSetValue](e)
		if err != nil {
			return nil, err
		}
		if zv == nil {
			zv = newZSet()
			e = s.newEntry(zv, now)
		}
		for _, m := range members {
			if zv.put(m.Member, m.Score) {
				added++
			}
		}
		return e, nil
	})
	return added, err
}

// ZRem removes members and returns how many existed.
func (s *Store) ZRem(key string, members ...string) (int, error) {
	removed := 0
	err := s.update(key, func(e *entry, _ int64) (*entry, error) {
		zv, err := valueAs[*ZSetValue](e)
		if err != nil || zv == nil {
			return e, err
		}
		for _, m := range members {
			if zv.remove(m) {
				removed++
			}
		}
		return e, nil
	})
	return removed, err
}

// ZScore returns the score of member.
func (s *Store) ZScore(key, member string) (float64, bool, error) {
	var (
		score float64
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var zv *ZSetValue
		if zv, err = valueAs[*ZSetValue](e); err == nil && zv != nil {
			score, found = zv.scores[member]
		}
	})
	return score, found, err
}

// ZCard returns the number of members in the sorted set.
func (s *Store) ZCard(key string) (int, error) {
	var (
		n   int
		err error
	)
	s.view(key, func(e *entry) {
		var zv *ZSetValue
		if zv, err = valueAs[*ZSetValue](e); err == nil && zv != nil {
			n = zv.Len()
		}
	})
	return n, err
}

// ZRank returns the 0-based position of member in ascending score order.
func (s *Store) ZRank(key, member string) (int, bool, error) {
	var (
		rank  int
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var zv *ZSetValue
		if zv, err = valueAs[*ZSetValue](e); err != nil || zv == nil {
			return
		}
		score, ok := zv.scores[member]
		if !ok {
			return
		}
		pivot := ScoredMember{Member: member, Score: score}
		zv.order.AscendLessThan(pivot, func(ScoredMember) bool {
			rank++
			return true
		})
		found = true
	})
	return rank, found, err
}

// ZRange returns the members with ranks between start and stop inclusive,
// in ascending score order. Negative ranks count from the highest score.
func (s *Store) ZRange(key string, start, stop int64) ([]ScoredMember, error) {
	var (
		out []ScoredMember
		err error
	)
	s.view(key, func(e *entry) {
		var zv *ZSetValue
		if zv, err = valueAs[*ZSetValue](e); err != nil || zv == nil {
			return
		}
		lo, hi, ok := normalizeRange(start, stop, zv.Len())
		if !ok {
			return
		}
		out = make([]ScoredMember, 0, hi-lo+1)
		i := 0
		zv.order.Ascend(func(m ScoredMember) bool {
			if i > hi {
				return false
			}
			if i >= lo {
				out = append(out, m)
			}
			i++
			return true
		})
	})
	return out, err
}
