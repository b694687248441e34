package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/simple-redis/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatRaw, nil
	case FormatRaw, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
	}
}

// Formatter writes one reply.
type Formatter interface {
	Format(w io.Writer, f resp.Frame) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Value converts a frame into plain Go values: strings, int64, float64,
// bool, nil, []any and map[string]any. Error replies become
// map[string]any{"error": message}.
func Value(f resp.Frame) any {
	if f.IsNull() {
		return nil
	}
	switch f.Kind {
	case resp.KindSimpleString:
		return f.Str
	case resp.KindError:
		return map[string]any{"error": f.Str}
	case resp.KindInteger:
		return f.Int
	case resp.KindBulkString:
		return string(f.Bulk)
	case resp.KindBoolean:
		return f.Bool
	case resp.KindDouble:
		return f.Double
	case resp.KindMap:
		m := make(map[string]any, len(f.Elems)/2)
		for i := 0; i+1 < len(f.Elems); i += 2 {
			m[keyText(f.Elems[i])] = Value(f.Elems[i+1])
		}
		return m
	case resp.KindArray, resp.KindSet:
		out := make([]any, len(f.Elems))
		for i, e := range f.Elems {
			out[i] = Value(e)
		}
		return out
	default:
		return nil
	}
}

func keyText(f resp.Frame) string {
	if f.Kind == resp.KindDouble {
		return resp.FormatFloat(f.Double)
	}
	return f.Text()
}
