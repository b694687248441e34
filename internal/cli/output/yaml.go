package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/simple-redis/pkg/resp"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format writes Value(f) as a YAML document.
func (y *YAMLFormatter) Format(w io.Writer, f resp.Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Value(f)); err != nil {
		return err
	}
	return enc.Close()
}
