package output

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yndnr/simple-redis/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatRaw, false},
		{"raw", FormatRaw, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"table", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter("unknown").(*RawFormatter); !ok {
		t.Error("expected RawFormatter as default")
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Frame
		want any
	}{
		{"simple", resp.OK(), "OK"},
		{"error", resp.Error("ERR boom"), map[string]any{"error": "ERR boom"}},
		{"integer", resp.Integer(7), int64(7)},
		{"bulk", resp.BulkString("v"), "v"},
		{"null bulk", resp.NullBulk(), nil},
		{"null array", resp.NullArray(), nil},
		{"resp3 null", resp.Null(), nil},
		{"boolean", resp.Boolean(true), true},
		{"double", resp.Double(1.5), 1.5},
		{"array", resp.Array(resp.BulkString("a"), resp.Integer(1), resp.NullBulk()), []any{"a", int64(1), nil}},
		{"map", resp.Map(resp.BulkString("k"), resp.Integer(2)), map[string]any{"k": int64(2)}},
		{"set", resp.Set(resp.BulkString("x")), []any{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Value(tt.in)); diff != "" {
				t.Errorf("Value() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRawFormatter(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Frame
		want string
	}{
		{"ok", resp.OK(), "OK\n"},
		{"integer", resp.Integer(-3), "-3\n"},
		{"nil", resp.NullBulk(), "\n"},
		{"error", resp.Error("WRONGTYPE no"), "WRONGTYPE no\n"},
		{"nested", resp.Array(resp.BulkString("a"), resp.Array(resp.BulkString("b"), resp.Integer(2))), "a\nb\n2\n"},
		{"double", resp.Double(math.Inf(-1)), "-inf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&RawFormatter{}).Format(&buf, tt.in); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := resp.Array(resp.BulkString("a"), resp.Integer(1), resp.NullBulk())
	if err := (&JSONFormatter{}).Format(&buf, f); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[\n  \"a\",\n  1,\n  null\n]\n"
	if got := buf.String(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := resp.Array(resp.BulkString("a"), resp.Integer(1))
	if err := (&YAMLFormatter{}).Format(&buf, f); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "- a\n- 1\n"
	if got := buf.String(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := (&YAMLFormatter{}).Format(&buf, resp.Error("ERR x")); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "error: ERR x\n" {
		t.Errorf("Format(error) = %q", got)
	}
}
