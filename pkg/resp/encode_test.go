package resp

import (
	"bufio"
	"bytes"
	"math"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"simple string", SimpleString("PONG"), "+PONG\r\n"},
		{"error", Error("ERR unknown command"), "-ERR unknown command\r\n"},
		{"integer", Integer(1000), ":1000\r\n"},
		{"negative integer", Integer(-1), ":-1\r\n"},
		{"bulk", BulkString("hello"), "$5\r\nhello\r\n"},
		{"empty bulk", Bulk(nil), "$0\r\n\r\n"},
		{"null bulk", NullBulk(), "$-1\r\n"},
		{"null array", NullArray(), "*-1\r\n"},
		{"empty array", Array(), "*0\r\n"},
		{"array", StringArray("set", "hello", "world"), "*3\r\n$3\r\nset\r\n$5\r\nhello\r\n$5\r\nworld\r\n"},
		{"bulk array with nil", BulkArray([]byte("a"), nil), "*2\r\n$1\r\na\r\n$-1\r\n"},
		{"null", Null(), "_\r\n"},
		{"boolean", Boolean(true), "#t\r\n"},
		{"double", Double(1.5), ",1.5\r\n"},
		{"double inf", Double(math.Inf(1)), ",inf\r\n"},
		{"map", Map(BulkString("a"), Integer(1)), "%1\r\n$1\r\na\r\n:1\r\n"},
		{"set", Set(Integer(1)), "~1\r\n:1\r\n"},
		{"zero frame", Frame{}, "$-1\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Encode(tt.frame)); got != tt.want {
				t.Fatalf("Encode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_SanitizesLines(t *testing.T) {
	f := SimpleString("a\r\nb")
	if got := string(Encode(f)); got != "+a  b\r\n" {
		t.Fatalf("Encode = %q", got)
	}

	// Frames built by hand are sanitized at encode time too.
	raw := Frame{Kind: KindError, Str: "ERR x\ny"}
	if got := string(Encode(raw)); got != "-ERR x y\r\n" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestMap_DropsDanglingKey(t *testing.T) {
	f := Map(BulkString("a"), Integer(1), BulkString("dangling"))
	if len(f.Elems) != 2 {
		t.Fatalf("len(Elems) = %d, want 2", len(f.Elems))
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := WriteFrame(w, Integer(7)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := WriteFrame(w, OK()); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := buf.String(); got != ":7\r\n+OK\r\n" {
		t.Fatalf("written = %q", got)
	}
}

func TestFrame_Helpers(t *testing.T) {
	if !NullBulk().IsNull() || !NullArray().IsNull() || !Null().IsNull() {
		t.Fatal("null frames should report IsNull")
	}
	if BulkString("").IsNull() || Array().IsNull() {
		t.Fatal("empty frames are not null")
	}
	if got := Integer(12).Text(); got != "12" {
		t.Fatalf("Text = %q", got)
	}
	if got := FormatFloat(2); got != "2" {
		t.Fatalf("FormatFloat(2) = %q", got)
	}
	if got := KindArray.String(); got != "array" {
		t.Fatalf("KindArray.String() = %q", got)
	}
}
