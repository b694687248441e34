package resp

import (
	"strconv"
	"strings"
)

// Kind is the type marker of a frame on the wire.
type Kind byte

// Frame kinds. The value of each constant is its wire marker.
const (
	KindSimpleString Kind = '+'
	KindError        Kind = '-'
	KindInteger      Kind = ':'
	KindBulkString   Kind = '$'
	KindArray        Kind = '*'
	KindNull         Kind = '_'
	KindBoolean      Kind = '#'
	KindDouble       Kind = ','
	KindMap          Kind = '%'
	KindSet          Kind = '~'
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindDouble:
		return "double"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	default:
		return "unknown(" + strconv.Quote(string(k)) + ")"
	}
}

// Frame is one protocol unit.
//
// Only the fields relevant to Kind are meaningful:
//   - Str for simple strings and errors
//   - Int for integers
//   - Bulk for bulk strings (Null marks "$-1")
//   - Elems for arrays and sets (Null marks "*-1"); maps store
//     alternating key and value frames
//   - Bool and Double for the RESP3 scalar kinds
type Frame struct {
	Kind   Kind
	Str    string
	Int    int64
	Bulk   []byte
	Elems  []Frame
	Bool   bool
	Double float64
	Null   bool
}

// IsNull reports whether f represents an absent value.
func (f Frame) IsNull() bool {
	switch f.Kind {
	case KindNull:
		return true
	case KindBulkString, KindArray:
		return f.Null
	default:
		return false
	}
}

// Text returns the textual payload of string-like frames.
func (f Frame) Text() string {
	switch f.Kind {
	case KindSimpleString, KindError:
		return f.Str
	case KindBulkString:
		return string(f.Bulk)
	case KindInteger:
		return strconv.FormatInt(f.Int, 10)
	default:
		return ""
	}
}

// OK is the "+OK" reply.
func OK() Frame {
	return SimpleString("OK")
}

// SimpleString returns a simple string frame. CR and LF are replaced by
// spaces so the frame always has a valid encoding.
func SimpleString(s string) Frame {
	return Frame{Kind: KindSimpleString, Str: sanitizeLine(s)}
}

// Error returns an error frame. By convention msg begins with an upper-case
// prefix such as "ERR" or "WRONGTYPE".
func Error(msg string) Frame {
	return Frame{Kind: KindError, Str: sanitizeLine(msg)}
}

// Integer returns an integer frame.
func Integer(n int64) Frame {
	return Frame{Kind: KindInteger, Int: n}
}

// Bulk returns a bulk string frame. A nil slice yields an empty (not null)
// bulk string; use NullBulk for "$-1".
func Bulk(b []byte) Frame {
	if b == nil {
		b = []byte{}
	}
	return Frame{Kind: KindBulkString, Bulk: b}
}

// BulkString returns a bulk string frame holding s.
func BulkString(s string) Frame {
	return Frame{Kind: KindBulkString, Bulk: []byte(s)}
}

// NullBulk returns the null bulk string "$-1".
func NullBulk() Frame {
	return Frame{Kind: KindBulkString, Null: true}
}

// Array returns an array of the given frames.
func Array(elems ...Frame) Frame {
	if elems == nil {
		elems = []Frame{}
	}
	return Frame{Kind: KindArray, Elems: elems}
}

// NullArray returns the null array "*-1".
func NullArray() Frame {
	return Frame{Kind: KindArray, Null: true}
}

// BulkArray returns an array of bulk strings.
func BulkArray(items ...[]byte) Frame {
	elems := make([]Frame, len(items))
	for i, it := range items {
		if it == nil {
			elems[i] = NullBulk()
			continue
		}
		elems[i] = Bulk(it)
	}
	return Frame{Kind: KindArray, Elems: elems}
}

// StringArray returns an array of bulk strings built from strs.
func StringArray(strs ...string) Frame {
	elems := make([]Frame, len(strs))
	for i, s := range strs {
		elems[i] = BulkString(s)
	}
	return Frame{Kind: KindArray, Elems: elems}
}

// Null returns the RESP3 null frame.
func Null() Frame {
	return Frame{Kind: KindNull}
}

// Boolean returns a RESP3 boolean frame.
func Boolean(b bool) Frame {
	return Frame{Kind: KindBoolean, Bool: b}
}

// Double returns a RESP3 double frame.
func Double(v float64) Frame {
	return Frame{Kind: KindDouble, Double: v}
}

// Map returns a RESP3 map frame from alternating key and value frames.
// A trailing key without a value is dropped.
func Map(kv ...Frame) Frame {
	n := len(kv) &^ 1
	elems := make([]Frame, n)
	copy(elems, kv[:n])
	return Frame{Kind: KindMap, Elems: elems}
}

// Set returns a RESP3 set frame.
func Set(elems ...Frame) Frame {
	if elems == nil {
		elems = []Frame{}
	}
	return Frame{Kind: KindSet, Elems: elems}
}

func sanitizeLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
