package command

import (
	"context"
	"io"
	"strings"

	"github.com/yndnr/simple-redis/internal/cli/connection"
	"github.com/yndnr/simple-redis/internal/cli/output"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// Executor sends commands through a connection.Client and prints replies.
type Executor struct {
	client    *connection.Client
	formatter output.Formatter
}

// NewExecutor creates an Executor.
func NewExecutor(client *connection.Client, formatter output.Formatter) *Executor {
	return &Executor{client: client, formatter: formatter}
}

// Execute runs args and writes the reply. After a successful SUBSCRIBE it
// keeps printing messages until ctx is done. Error replies are printed,
// only transport failures are returned.
func (e *Executor) Execute(ctx context.Context, args []string, out io.Writer) error {
	f, err := e.client.Do(ctx, args...)
	if err != nil {
		return err
	}
	if err := e.formatter.Format(out, f); err != nil {
		return err
	}
	if !strings.EqualFold(args[0], "subscribe") || f.Kind == resp.KindError {
		return nil
	}

	// One confirmation per channel, then the message stream.
	for i := 2; i < len(args); i++ {
		if err := e.receive(ctx, out); err != nil {
			return err
		}
	}
	for {
		if err := e.receive(ctx, out); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (e *Executor) receive(ctx context.Context, out io.Writer) error {
	f, err := e.client.Receive(ctx)
	if err != nil {
		return err
	}
	return e.formatter.Format(out, f)
}
