package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/yndnr/simple-redis/pkg/resp"
)

// RawFormatter prints every scalar of the reply on its own line. Nulls
// print as empty lines.
type RawFormatter struct{}

// Format writes f.
func (r *RawFormatter) Format(w io.Writer, f resp.Frame) error {
	bw := bufio.NewWriter(w)
	writeRaw(bw, f)
	return bw.Flush()
}

func writeRaw(w *bufio.Writer, f resp.Frame) {
	if f.IsNull() {
		w.WriteByte('\n')
		return
	}
	switch f.Kind {
	case resp.KindArray, resp.KindSet, resp.KindMap:
		for _, e := range f.Elems {
			writeRaw(w, e)
		}
		return
	case resp.KindBoolean:
		w.WriteString(strconv.FormatBool(f.Bool))
	case resp.KindDouble:
		w.WriteString(resp.FormatFloat(f.Double))
	default:
		w.WriteString(f.Text())
	}
	w.WriteByte('\n')
}
