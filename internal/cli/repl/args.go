package repl

import (
	"errors"
	"strconv"
	"strings"
)

var errUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// SplitArgs splits line into arguments. Double-quoted arguments accept the
// escapes \n \r \t \b \a \\ \" and \xHH. Single-quoted arguments are
// literal except for \'. A closing quote must be followed by a space or
// the end of the line.
func SplitArgs(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			return args, nil
		}
		arg, n, err := nextArg(line[i:])
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		i += n
	}
}

// nextArg reads one argument from the start of s and returns it with the
// number of bytes consumed.
func nextArg(s string) (string, int, error) {
	var (
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote == '"':
			switch {
			case c == '\\' && i+3 < len(s) && s[i+1] == 'x' && isHex(s[i+2]) && isHex(s[i+3]):
				b, _ := strconv.ParseUint(s[i+2:i+4], 16, 8)
				cur.WriteByte(byte(b))
				i += 3
			case c == '\\' && i+1 < len(s):
				i++
				cur.WriteByte(unescape(s[i]))
			case c == '"':
				return closeQuote(s, i, cur.String())
			default:
				cur.WriteByte(c)
			}
		case quote == '\'':
			switch {
			case c == '\\' && i+1 < len(s) && s[i+1] == '\'':
				i++
				cur.WriteByte('\'')
			case c == '\'':
				return closeQuote(s, i, cur.String())
			default:
				cur.WriteByte(c)
			}
		case isSpace(c):
			return cur.String(), i, nil
		case (c == '"' || c == '\'') && cur.Len() == 0:
			quote = c
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return "", 0, errUnbalancedQuotes
	}
	return cur.String(), len(s), nil
}

func closeQuote(s string, i int, arg string) (string, int, error) {
	if i+1 < len(s) && !isSpace(s[i+1]) {
		return "", 0, errUnbalancedQuotes
	}
	return arg, i + 1, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'a':
		return '\a'
	default:
		return c
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
