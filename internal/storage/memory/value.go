package memory

import (
	"sort"

	"github.com/google/btree"

	"github.com/yndnr/simple-redis/internal/core/domain"
)

// Type names as reported by TYPE.
const (
	TypeNone   = "none"
	TypeString = "string"
	TypeList   = "list"
	TypeHash   = "hash"
	TypeSet    = "set"
	TypeZSet   = "zset"
)

// Value is the payload stored under a key. The set of implementations is
// closed: *StringValue, *ListValue, *HashValue, *SetValue and *ZSetValue.
type Value interface {
	Type() string
	empty() bool
}

// StringValue is a binary-safe string.
type StringValue struct {
	b []byte
}

func (*StringValue) Type() string { return TypeString }
func (*StringValue) empty() bool { return false }
func (v *StringValue) Len() int { return len(v.b) }

// ListValue is an ordered sequence of elements.
type ListValue struct {
	items [][]byte
}

func (*ListValue) Type() string { return TypeList }
func (v *ListValue) empty() bool { return len(v.items) == 0 }
func (v *ListValue) Len() int { return len(v.items) }

// HashValue maps fields to values.
type HashValue struct {
	fields map[string][]byte
}

func newHash() *HashValue { return &HashValue{fields: make(map[string][]byte)} }

func (*HashValue) Type() string { return TypeHash }
func (v *HashValue) empty() bool { return len(v.fields) == 0 }
func (v *HashValue) Len() int { return len(v.fields) }

// SetValue is an unordered set of distinct members.
type SetValue struct {
	members map[string]struct{}
}

func newSet() *SetValue { return &SetValue{members: make(map[string]struct{})} }

func (*SetValue) Type() string { return TypeSet }
func (v *SetValue) empty() bool { return len(v.members) == 0 }
func (v *SetValue) Len() int { return len(v.members) }

func (v *SetValue) sorted() []string {
	out := make([]string, 0, len(v.members))
	for m := range v.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ScoredMember is a sorted set element.
type ScoredMember struct {
	Member string
	Score  float64
}

func lessScored(a, b ScoredMember) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Member < b.Member
}

// ZSetValue is a set of members ordered by score, then by member.
type ZSetValue struct {
	scores map[string]float64
	order  *btree.BTreeG[ScoredMember]
}

func newZSet() *ZSetValue {
	return &ZSetValue{
		scores: make(map[string]float64),
		order:  btree.NewG(16, lessScored),
	}
}

func (*ZSetValue) Type() string { return TypeZSet }
func (v *ZSetValue) empty() bool { return len(v.scores) == 0 }
func (v *ZSetValue) Len() int { return len(v.scores) }

// put sets the score of member and reports whether it was added.
func (v *ZSetValue) put(member string, score float64) bool {
	old, exists := v.scores[member]
	if exists {
		if old == score {
			return false
		}
		v.order.Delete(ScoredMember{Member: member, Score: old})
	}
	v.scores[member] = score
	v.order.ReplaceOrInsert(ScoredMember{Member: member, Score: score})
	return !exists
}

func (v *ZSetValue) remove(member string) bool {
	score, ok := v.scores[member]
	if !ok {
		return false
	}
	delete(v.scores, member)
	v.order.Delete(ScoredMember{Member: member, Score: score})
	return true
}

// valueAs returns the value of e as T. A nil entry yields the zero T and no
// error; a value of another type yields ErrWrongType.
func valueAs[T Value](e *entry) (T, error) {
	var zero T
	if e == nil {
		return zero, nil
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, domain.ErrWrongType
	}
	return v, nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
