package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/simple-redis/pkg/resp"
)

// JSONFormatter formats replies as JSON.
type JSONFormatter struct{}

// Format writes Value(f) as indented JSON.
func (j *JSONFormatter) Format(w io.Writer, f resp.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Value(f))
}
