package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/simple-redis/pkg/resp"
)

// DefaultDialTimeout bounds how long Connect waits for the server.
const DefaultDialTimeout = 5 * time.Second

// Client talks RESP to a single server over TCP.
type Client struct {
	addr        string
	dialTimeout time.Duration
	conn        net.Conn
	buf         []byte
}

// NewClient creates a client for addr. No connection is made until the
// first command.
func NewClient(addr string) *Client {
	return &Client{addr: addr, dialTimeout: DefaultDialTimeout}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Connect dials the server if not already connected.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	c.conn = conn
	c.buf = c.buf[:0]
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Do sends one command and returns its reply. Error replies are returned
// as frames, not Go errors.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	if len(args) == 0 {
		return resp.Frame{}, errors.New("empty command")
	}
	if err := c.Connect(ctx); err != nil {
		return resp.Frame{}, err
	}
	if _, err := c.conn.Write(resp.Encode(resp.StringArray(args...))); err != nil {
		c.Close()
		return resp.Frame{}, fmt.Errorf("send: %w", err)
	}
	return c.Receive(ctx)
}

// Receive reads the next frame from the server, blocking until one arrives
// or ctx is done.
func (c *Client) Receive(ctx context.Context) (resp.Frame, error) {
	if c.conn == nil {
		return resp.Frame{}, net.ErrClosed
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	tmp := make([]byte, 4096)
	for {
		if len(c.buf) > 0 {
			f, n, err := resp.Decode(c.buf)
			if err == nil {
				c.buf = c.buf[n:]
				return f, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				c.Close()
				return resp.Frame{}, err
			}
		}
		n, err := c.conn.Read(tmp)
		c.buf = append(c.buf, tmp[:n]...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			c.Close()
			return resp.Frame{}, err
		}
	}
}
