package redisserver

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// startServer runs a server on a loopback port and shuts it down when the
// test ends.
func startServer(t *testing.T, mutate func(*Config), hubOpts ...pubsub.Option) (*Server, string) {
	t.Helper()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	srv := New(cfg, memory.New(), pubsub.NewHub(hubOpts...), WithLogger(logger.Discard()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(context.Background(), ln)
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = ln.Close()
		if err := <-errCh; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})
	return srv, ln.Addr().String()
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	buf  []byte
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(raw string) {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(raw)); err != nil {
		c.t.Fatalf("Write() error = %v", err)
	}
}

func (c *testClient) do(args ...string) resp.Frame {
	c.t.Helper()
	c.send(string(resp.Encode(resp.StringArray(args...))))
	return c.read()
}

func (c *testClient) read() resp.Frame {
	c.t.Helper()
	f, err := c.tryRead(2 * time.Second)
	if err != nil {
		c.t.Fatalf("read reply: %v", err)
	}
	return f
}

func (c *testClient) tryRead(timeout time.Duration) (resp.Frame, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	tmp := make([]byte, 4096)
	for {
		if len(c.buf) > 0 {
			f, n, err := resp.Decode(c.buf)
			if err == nil {
				c.buf = c.buf[n:]
				return f, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				return resp.Frame{}, err
			}
		}
		n, err := c.conn.Read(tmp)
		c.buf = append(c.buf, tmp[:n]...)
		if err != nil && n == 0 {
			return resp.Frame{}, err
		}
	}
}

// expectClosed asserts that the server closes the connection without
// sending anything more.
func (c *testClient) expectClosed() {
	c.t.Helper()
	f, err := c.tryRead(2 * time.Second)
	if err == nil {
		c.t.Fatalf("got frame %+v, want connection closed", f)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		c.t.Fatal("connection still open")
	}
}

func assertFrame(t *testing.T, got, want resp.Frame) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("reply mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_PingInline(t *testing.T) {
	_, addr := startServer(t, nil)
	c := dial(t, addr)

	c.send("PING\r\n")
	assertFrame(t, c.read(), resp.SimpleString("PONG"))

	// Blank inline lines are skipped.
	c.send("\r\nECHO hi\r\n")
	assertFrame(t, c.read(), resp.BulkString("hi"))

	assertFrame(t, c.do("ping", "hello"), resp.BulkString("hello"))
}

func TestServer_FragmentedInput(t *testing.T) {
	_, addr := startServer(t, nil)
	c := dial(t, addr)

	raw := string(resp.Encode(resp.StringArray("SET", "k", "fragmented value")))
	for i := 0; i < len(raw); i++ {
		c.send(raw[i : i+1])
		time.Sleep(time.Millisecond)
	}
	assertFrame(t, c.read(), resp.OK())
	assertFrame(t, c.do("GET", "k"), resp.BulkString("fragmented value"))
}

func TestServer_Pipelining(t *testing.T) {
	_, addr := startServer(t, nil)
	c := dial(t, addr)

	var raw []byte
	raw = resp.Append(raw, resp.StringArray("SET", "a", "1"))
	raw = resp.Append(raw, resp.StringArray("INCR", "a"))
	raw = resp.Append(raw, resp.StringArray("GET", "a"))
	c.send(string(raw))

	assertFrame(t, c.read(), resp.OK())
	assertFrame(t, c.read(), resp.Integer(2))
	assertFrame(t, c.read(), resp.BulkString("2"))
}

func TestServer_ProtocolError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"integer argument", "*1\r\n:5\r\n"},
		{"negative bulk length", "*1\r\n$-5\r\n"},
		{"array over limit", "*10000000\r\n"},
		{"bad length", "*x\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, addr := startServer(t, nil)
			c := dial(t, addr)

			c.send(tt.raw)
			f := c.read()
			if f.Kind != resp.KindError || !strings.HasPrefix(f.Str, "ERR Protocol error") {
				t.Fatalf("reply = %+v, want protocol error", f)
			}
			c.expectClosed()
		})
	}
}

func TestServer_MaxConnections(t *testing.T) {
	srv, addr := startServer(t, func(cfg *Config) { cfg.MaxConnections = 1 })

	first := dial(t, addr)
	assertFrame(t, first.do("PING"), resp.SimpleString("PONG"))

	second := dial(t, addr)
	assertFrame(t, second.read(), resp.Error("ERR max number of clients reached"))
	second.expectClosed()

	if n := srv.Connections(); n != 1 {
		t.Errorf("Connections() = %d, want 1", n)
	}

	// Closing the first session frees its slot.
	first.conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.Connections() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	third := dial(t, addr)
	assertFrame(t, third.do("PING"), resp.SimpleString("PONG"))
}

func TestServer_IdleTimeout(t *testing.T) {
	_, addr := startServer(t, func(cfg *Config) { cfg.IdleTimeout = 100 * time.Millisecond })

	idle := dial(t, addr)
	assertFrame(t, idle.do("PING"), resp.SimpleString("PONG"))
	idle.expectClosed()

	// Subscribed sessions are never idle-closed.
	sub := dial(t, addr)
	sub.do("SUBSCRIBE", "news")
	time.Sleep(300 * time.Millisecond)
	assertFrame(t, sub.do("PING"), resp.Array(resp.BulkString("pong"), resp.BulkString("")))
}

func TestServer_RateLimit(t *testing.T) {
	_, addr := startServer(t, func(cfg *Config) { cfg.RateLimit = 1 })
	c := dial(t, addr)

	assertFrame(t, c.do("PING"), resp.SimpleString("PONG"))
	assertFrame(t, c.do("PING"), resp.Error("ERR rate limit exceeded"))
}

func TestServer_Quit(t *testing.T) {
	_, addr := startServer(t, nil)
	c := dial(t, addr)

	// Commands after QUIT in the same packet are not executed.
	var raw []byte
	raw = resp.Append(raw, resp.StringArray("QUIT"))
	raw = resp.Append(raw, resp.StringArray("SET", "after", "quit"))
	c.send(string(raw))

	assertFrame(t, c.read(), resp.OK())
	c.expectClosed()

	other := dial(t, addr)
	assertFrame(t, other.do("EXISTS", "after"), resp.Integer(0))
}

func TestServer_Shutdown(t *testing.T) {
	srv, addr := startServer(t, nil)
	c := dial(t, addr)
	assertFrame(t, c.do("PING"), resp.SimpleString("PONG"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	c.expectClosed()

	if _, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		t.Error("Dial() after Shutdown succeeded, want error")
	}
	if n := srv.Connections(); n != 0 {
		t.Errorf("Connections() = %d, want 0", n)
	}
}
