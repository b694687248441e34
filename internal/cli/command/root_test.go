package command

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/simple-redis/internal/cli/connection"
	"github.com/yndnr/simple-redis/internal/cli/output"
	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/server/redisserver"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
)

// startServer runs a real server and returns its host and port.
func startServer(t *testing.T) (string, int) {
	t.Helper()
	srv := redisserver.New(redisserver.DefaultConfig(), memory.New(), pubsub.NewHub(),
		redisserver.WithLogger(logger.Discard()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go srv.Serve(context.Background(), ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	tcp := ln.Addr().(*net.TCPAddr)
	return tcp.IP.String(), tcp.Port
}

// runApp runs the CLI with a settings file in a temp dir unless args
// name one.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := App()
	var out bytes.Buffer
	app.Writer = &out
	argv := []string{"simple-redis-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml")}
	err := app.Run(append(argv, args...))
	return out.String(), err
}

func TestApp_Flags(t *testing.T) {
	app := App()
	if app.Name != "simple-redis-cli" {
		t.Errorf("Name = %q, want simple-redis-cli", app.Name)
	}

	names := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"host", "h", "port", "p", "output", "o", "config"} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}

func TestApp_OneShot(t *testing.T) {
	host, port := startServer(t)
	p := strconv.Itoa(port)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"set", []string{"set", "k", "hello"}, "OK\n"},
		{"get raw", []string{"get", "k"}, "hello\n"},
		{"get json", []string{"-o", "json", "get", "k"}, "\"hello\"\n"},
		{"rpush", []string{"rpush", "l", "a", "b"}, "2\n"},
		{"lrange yaml", []string{"-o", "yaml", "lrange", "l", "0", "-1"}, "- a\n- b\n"},
		{"error reply", []string{"incr", "k"}, "ERR value is not an integer or out of range\n"},
		{"missing", []string{"-o", "json", "get", "nope"}, "null\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-h", host, "-p", p}, tt.args...)
			got, err := runApp(t, args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApp_ConfigFileDefaults(t *testing.T) {
	host, port := startServer(t)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	body := "host: " + host + "\nport: " + strconv.Itoa(port) + "\noutput: json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := runApp(t, "--config", path, "ping")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "\"PONG\"\n" {
		t.Errorf("output = %q, want JSON PONG", got)
	}

	// Flags win over the file.
	got, err = runApp(t, "--config", path, "-o", "raw", "ping")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "PONG\n" {
		t.Errorf("output = %q, want raw PONG", got)
	}
}

func TestApp_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"-o", "table", "ping"}},
		{"port", []string{"-p", "0", "ping"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
}

func TestApp_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	if _, err := runApp(t, "-p", strconv.Itoa(port), "ping"); err == nil {
		t.Error("Run() against closed port should fail")
	}
}

func TestExecutor_Subscribe(t *testing.T) {
	host, port := startServer(t)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	sub := connection.NewClient(addr)
	defer sub.Close()
	exec := NewExecutor(sub, output.NewFormatter(output.FormatRaw))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- exec.Execute(ctx, []string{"SUBSCRIBE", "a", "b"}, &out)
	}()

	pub := connection.NewClient(addr)
	defer pub.Close()
	for {
		f, err := pub.Do(ctx, "PUBLISH", "b", "hello")
		if err != nil {
			t.Fatalf("PUBLISH error = %v", err)
		}
		if f.Int == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	for !strings.Contains(out.String(), "hello\n") {
		if ctx.Err() != nil {
			t.Fatalf("message not printed, output %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := "subscribe\na\n1\nsubscribe\nb\n2\nmessage\nb\nhello\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
