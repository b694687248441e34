package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordExecutor struct {
	calls [][]string
	err   error
}

func (e *recordExecutor) Execute(_ context.Context, args []string, out io.Writer) error {
	e.calls = append(e.calls, args)
	if e.err != nil {
		return e.err
	}
	fmt.Fprintln(out, "OK")
	return nil
}

func newTestREPL(input string, exec Executor) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &REPL{
		input:     strings.NewReader(input),
		output:    out,
		prompt:    "> ",
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(""),
	}, out
}

func TestREPL_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit", "exit\nset a b\n"},
		{"quit", "QUIT\nset a b\n"},
		{"EOF", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordExecutor{}
			r, _ := newTestREPL(tt.input, exec)
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(exec.calls) != 0 {
				t.Errorf("executed %v after exit", exec.calls)
			}
		})
	}
}

func TestREPL_ExecutesCommands(t *testing.T) {
	exec := &recordExecutor{}
	r, out := newTestREPL("\n  set k \"a b\"  \n\nget k", exec)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"set", "k", "a b"}, {"get", "k"}}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(out.String(), "OK\n"); got != 2 {
		t.Errorf("printed %d replies, want 2", got)
	}
	if got := r.history.Get(0); got != "get k" {
		t.Errorf("history.Get(0) = %q, want %q", got, "get k")
	}
}

func TestREPL_Errors(t *testing.T) {
	exec := &recordExecutor{err: errors.New("connection refused")}
	r, out := newTestREPL("ping\nset k \"open\nexit\n", exec)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "(error) connection refused") {
		t.Errorf("output %q missing executor error", s)
	}
	if !strings.Contains(s, "(error) invalid argument(s): unbalanced quotes") {
		t.Errorf("output %q missing parse error", s)
	}
	if len(exec.calls) != 1 {
		t.Errorf("calls = %v, want only ping", exec.calls)
	}
}

func TestREPL_Help(t *testing.T) {
	exec := &recordExecutor{}
	r, out := newTestREPL("help\n", exec)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "  zrange\n") {
		t.Errorf("help output missing commands: %q", out.String())
	}
	if len(exec.calls) != 0 {
		t.Errorf("help reached the executor: %v", exec.calls)
	}
}

func TestREPL_CanceledContext(t *testing.T) {
	exec := &recordExecutor{}
	r, _ := newTestREPL("ping\n", exec)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("executed %v with canceled context", exec.calls)
	}
}
