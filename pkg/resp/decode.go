package resp

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Protocol limits. They bound memory a single peer can make the server
// allocate before a frame is complete.
const (
	// DefaultMaxBulkLen limits a single bulk string (512 MiB, as Redis).
	DefaultMaxBulkLen = 512 * 1024 * 1024

	// DefaultMaxArrayLen limits the number of elements in an aggregate.
	DefaultMaxArrayLen = 1024 * 1024

	// DefaultMaxInlineLen limits inline command lines and header lines.
	DefaultMaxInlineLen = 64 * 1024

	// MaxDepth limits aggregate nesting.
	MaxDepth = 32
)

var (
	// ErrIncomplete means the buffer holds only a prefix of a frame.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrProtocol means the input is malformed. It is fatal for the stream.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded means a declared length is over the decoder limits.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

var crlf = []byte("\r\n")

// Decoder decodes frames with configurable limits. The zero value uses the
// package defaults.
type Decoder struct {
	MaxBulkLen   int
	MaxArrayLen  int
	MaxInlineLen int
}

var defaultDecoder Decoder

// Decode decodes one frame from the start of buf using default limits.
func Decode(buf []byte) (Frame, int, error) {
	return defaultDecoder.Decode(buf)
}

// DecodeCommand decodes one client command from the start of buf using
// default limits.
func DecodeCommand(buf []byte) ([][]byte, int, error) {
	return defaultDecoder.DecodeCommand(buf)
}

// Decode decodes one frame from the start of buf and returns it with the
// number of bytes consumed. If buf holds only part of a frame it returns
// ErrIncomplete and 0. Payloads are copied, so buf may be reused after return.
func (d *Decoder) Decode(buf []byte) (Frame, int, error) {
	f, n, err := d.decode(buf, 0)
	if err != nil {
		return Frame{}, 0, err
	}
	return f, n, nil
}

// DecodeCommand decodes a client request: an array of bulk strings, or an
// inline command line. An empty inline line yields zero arguments and a
// non-zero consumed count.
func (d *Decoder) DecodeCommand(buf []byte) ([][]byte, int, error) {
	if len(buf) == 0 {
		return nil, 0, ErrIncomplete
	}
	if buf[0] != byte(KindArray) {
		return d.decodeInline(buf)
	}

	f, n, err := d.Decode(buf)
	if err != nil {
		return nil, 0, err
	}
	if f.Null {
		return nil, n, nil
	}
	args := make([][]byte, len(f.Elems))
	for i, e := range f.Elems {
		switch {
		case e.Kind == KindBulkString && !e.Null:
			args[i] = e.Bulk
		case e.Kind == KindSimpleString:
			args[i] = []byte(e.Str)
		default:
			return nil, 0, fmt.Errorf("%w: expected bulk string in command, got %s", ErrProtocol, e.Kind)
		}
	}
	return args, n, nil
}

func (d *Decoder) decodeInline(buf []byte) ([][]byte, int, error) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		if len(buf) > d.maxInline() {
			return nil, 0, fmt.Errorf("%w: inline command longer than %d bytes", ErrLimitExceeded, d.maxInline())
		}
		return nil, 0, ErrIncomplete
	}
	if idx > d.maxInline() {
		return nil, 0, fmt.Errorf("%w: inline command longer than %d bytes", ErrLimitExceeded, d.maxInline())
	}
	line := strings.TrimSpace(string(buf[:idx]))
	fields := strings.Fields(line)
	args := make([][]byte, len(fields))
	for i, f := range fields {
		args[i] = []byte(f)
	}
	return args, idx + 1, nil
}

func (d *Decoder) decode(buf []byte, depth int) (Frame, int, error) {
	if len(buf) == 0 {
		return Frame{}, 0, ErrIncomplete
	}
	if depth > MaxDepth {
		return Frame{}, 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, MaxDepth)
	}

	kind := Kind(buf[0])
	line, next, err := d.readLine(buf[1:])
	if err != nil {
		return Frame{}, 0, err
	}
	next++ // type marker

	switch kind {
	case KindSimpleString:
		return Frame{Kind: kind, Str: string(line)}, next, nil
	case KindError:
		return Frame{Kind: kind, Str: string(line)}, next, nil
	case KindInteger:
		n, err := parseInt(line)
		if err != nil {
			return Frame{}, 0, err
		}
		return Frame{Kind: kind, Int: n}, next, nil
	case KindNull:
		if len(line) != 0 {
			return Frame{}, 0, fmt.Errorf("%w: unexpected payload after null marker", ErrProtocol)
		}
		return Frame{Kind: kind}, next, nil
	case KindBoolean:
		switch string(line) {
		case "t":
			return Frame{Kind: kind, Bool: true}, next, nil
		case "f":
			return Frame{Kind: kind, Bool: false}, next, nil
		}
		return Frame{}, 0, fmt.Errorf("%w: invalid boolean %q", ErrProtocol, line)
	case KindDouble:
		v, err := parseDouble(line)
		if err != nil {
			return Frame{}, 0, err
		}
		return Frame{Kind: kind, Double: v}, next, nil
	case KindBulkString:
		return d.decodeBulk(buf, line, next)
	case KindArray, KindSet, KindMap:
		return d.decodeAggregate(buf, kind, line, next, depth)
	default:
		return Frame{}, 0, fmt.Errorf("%w: unknown type marker %q", ErrProtocol, buf[0])
	}
}

func (d *Decoder) decodeBulk(buf, line []byte, next int) (Frame, int, error) {
	n, err := parseInt(line)
	if err != nil {
		return Frame{}, 0, err
	}
	if n == -1 {
		return NullBulk(), next, nil
	}
	if n < 0 {
		return Frame{}, 0, fmt.Errorf("%w: invalid bulk length %d", ErrProtocol, n)
	}
	if n > int64(d.maxBulk()) {
		return Frame{}, 0, fmt.Errorf("%w: bulk length %d exceeds %d", ErrLimitExceeded, n, d.maxBulk())
	}

	end := next + int(n)
	if len(buf) < end+len(crlf) {
		return Frame{}, 0, ErrIncomplete
	}
	if !bytes.Equal(buf[end:end+len(crlf)], crlf) {
		return Frame{}, 0, fmt.Errorf("%w: bulk payload not terminated by CRLF", ErrProtocol)
	}
	payload := make([]byte, n)
	copy(payload, buf[next:end])
	return Frame{Kind: KindBulkString, Bulk: payload}, end + len(crlf), nil
}

func (d *Decoder) decodeAggregate(buf []byte, kind Kind, line []byte, next, depth int) (Frame, int, error) {
	n, err := parseInt(line)
	if err != nil {
		return Frame{}, 0, err
	}
	if n == -1 && kind == KindArray {
		return NullArray(), next, nil
	}
	if n < 0 {
		return Frame{}, 0, fmt.Errorf("%w: invalid %s length %d", ErrProtocol, kind, n)
	}
	count := n
	if kind == KindMap {
		count = n * 2
	}
	if count > int64(d.maxArray()) {
		return Frame{}, 0, fmt.Errorf("%w: %s length %d exceeds %d", ErrLimitExceeded, kind, n, d.maxArray())
	}

	// Elements are allocated as they decode so a bogus header cannot
	// reserve memory for frames that never arrive.
	elems := make([]Frame, 0, min(int(count), 64))
	pos := next
	for i := int64(0); i < count; i++ {
		e, used, err := d.decode(buf[pos:], depth+1)
		if err != nil {
			return Frame{}, 0, err
		}
		elems = append(elems, e)
		pos += used
	}
	return Frame{Kind: kind, Elems: elems}, pos, nil
}

// readLine returns the bytes before the first CRLF and the offset just past it.
func (d *Decoder) readLine(buf []byte) ([]byte, int, error) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		if len(buf) > d.maxInline() {
			return nil, 0, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, d.maxInline())
		}
		return nil, 0, ErrIncomplete
	}
	if idx == 0 || buf[idx-1] != '\r' {
		return nil, 0, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return buf[:idx-1], idx + 1, nil
}

func (d *Decoder) maxBulk() int {
	if d.MaxBulkLen > 0 {
		return d.MaxBulkLen
	}
	return DefaultMaxBulkLen
}

func (d *Decoder) maxArray() int {
	if d.MaxArrayLen > 0 {
		return d.MaxArrayLen
	}
	return DefaultMaxArrayLen
}

func (d *Decoder) maxInline() int {
	if d.MaxInlineLen > 0 {
		return d.MaxInlineLen
	}
	return DefaultMaxInlineLen
}

func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, b)
	}
	return n, nil
}

func parseDouble(b []byte) (float64, error) {
	switch string(b) {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid double %q", ErrProtocol, b)
	}
	return v, nil
}
