package resp

import (
	"bufio"
	"math"
	"strconv"
)

// Encode returns the wire representation of f.
func Encode(f Frame) []byte {
	return Append(nil, f)
}

// Append appends the wire representation of f to dst.
func Append(dst []byte, f Frame) []byte {
	switch f.Kind {
	case KindSimpleString, KindError:
		dst = append(dst, byte(f.Kind))
		dst = append(dst, sanitizeLine(f.Str)...)
		return append(dst, crlf...)
	case KindInteger:
		dst = append(dst, byte(KindInteger))
		dst = strconv.AppendInt(dst, f.Int, 10)
		return append(dst, crlf...)
	case KindBulkString:
		if f.Null {
			return append(dst, "$-1\r\n"...)
		}
		dst = append(dst, byte(KindBulkString))
		dst = strconv.AppendInt(dst, int64(len(f.Bulk)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, f.Bulk...)
		return append(dst, crlf...)
	case KindArray, KindSet:
		if f.Kind == KindArray && f.Null {
			return append(dst, "*-1\r\n"...)
		}
		dst = append(dst, byte(f.Kind))
		dst = strconv.AppendInt(dst, int64(len(f.Elems)), 10)
		dst = append(dst, crlf...)
		for _, e := range f.Elems {
			dst = Append(dst, e)
		}
		return dst
	case KindMap:
		pairs := len(f.Elems) / 2
		dst = append(dst, byte(KindMap))
		dst = strconv.AppendInt(dst, int64(pairs), 10)
		dst = append(dst, crlf...)
		for _, e := range f.Elems[:pairs*2] {
			dst = Append(dst, e)
		}
		return dst
	case KindNull:
		return append(dst, "_\r\n"...)
	case KindBoolean:
		if f.Bool {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	case KindDouble:
		dst = append(dst, byte(KindDouble))
		dst = appendDouble(dst, f.Double)
		return append(dst, crlf...)
	default:
		// A zero Frame has no kind; it is written as the null bulk string,
		// which is what an absent reply looks like to RESP2 clients.
		return append(dst, "$-1\r\n"...)
	}
}

// WriteFrame writes f to w. The caller flushes.
func WriteFrame(w *bufio.Writer, f Frame) error {
	_, err := w.Write(Encode(f))
	return err
}

// FormatFloat formats a score or double the way replies carry it.
func FormatFloat(v float64) string {
	return string(appendDouble(nil, v))
}

func appendDouble(dst []byte, v float64) []byte {
	switch {
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	case math.IsNaN(v):
		return append(dst, "nan"...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 64)
}
