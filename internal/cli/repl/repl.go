package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one command and writes its reply to out.
type Executor interface {
	Execute(ctx context.Context, args []string, out io.Writer) error
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// New creates a REPL reading stdin and writing stdout. historyFile may be
// empty to keep history in memory.
func New(exec Executor, prompt, historyFile string) *REPL {
	return &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    prompt,
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(historyFile),
	}
}

// Run reads lines until EOF, "exit", "quit" or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for ctx.Err() == nil {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "help":
			r.help()
			continue
		}

		args, perr := SplitArgs(line)
		if perr != nil {
			fmt.Fprintf(r.output, "(error) %v\n", perr)
			continue
		}
		if xerr := r.exec.Execute(ctx, args, r.output); xerr != nil {
			fmt.Fprintf(r.output, "(error) %v\n", xerr)
		}
		if err == io.EOF {
			return nil
		}
	}
	return nil
}

func (r *REPL) help() {
	fmt.Fprintln(r.output, "commands:")
	for _, c := range r.completer.commands {
		fmt.Fprintf(r.output, "  %s\n", c)
	}
}
