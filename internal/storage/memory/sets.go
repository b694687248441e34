package memory

// SAdd adds members to the set and returns how many were new.
func (s *Store) SAdd(key string, members ...string) (int, error) {
	added := 0
	err := s.update(key, func(e *entry, now int64) (*entry, error) {
		sv, err := valueAs[*SetValue](e)
		if err != nil {
			return nil, err
		}
		if sv == nil {
			sv = newSet()
			e = s.newEntry(sv, now)
		}
		for _, m := range members {
			if _, ok := sv.members[m]; !ok {
				sv.members[m] = struct{}{}
				added++
			}
		}
		return e, nil
	})
	return added, err
}

// SRem removes members and returns how many existed.
func (s *Store) SRem(key string, members ...string) (int, error) {
	removed := 0
	err := s.update(key, func(e *entry, _ int64) (*entry, error) {
		sv, err := valueAs[*SetValue](e)
		if err != nil || sv == nil {
			return e, err
		}
		for _, m := range members {
			if _, ok := sv.members[m]; ok {
				delete(sv.members, m)
				removed++
			}
		}
		return e, nil
	})
	return removed, err
}

// SMembers returns the members of the set in lexicographic order.
func (s *Store) SMembers(key string) ([]string, error) {
	var (
		out []string
		err error
	)
	s.view(key, func(e *entry) {
		var sv *SetValue
		if sv, err = valueAs[*SetValue](e); err == nil && sv != nil {
			out = sv.sorted()
		}
	})
	return out, err
}

// SIsMember reports whether member is in the set.
func (s *Store) SIsMember(key, member string) (bool, error) {
	var (
		found bool
		err   error
	)
	s.view(key, func(e *entry) {
		var sv *SetValue
		if sv, err = valueAs[*SetValue](e); err == nil && sv != nil {
			_, found = sv.members[member]
		}
	})
	return found, err
}

// SCard returns the number of members in the set.
func (s *Store) SCard(key string) (int, error) {
	var (
		n   int
		err error
	)
	s.view(key, func(e *entry) {
		var sv *SetValue
		if sv, err = valueAs[*SetValue](e); err == nil && sv != nil {
			n = sv.Len()
		}
	})
	return n, err
}
