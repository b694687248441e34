package redisserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/semaphore"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
	"github.com/yndnr/simple-redis/internal/telemetry/metric"
	"github.com/yndnr/simple-redis/pkg/cmap"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP address ListenAndServe binds.
	Addr string
	// MaxConnections caps concurrent sessions. 0 means unbounded.
	MaxConnections int
	// IdleTimeout closes sessions that send nothing for this long.
	// 0 disables it. It does not apply while a session is subscribed.
	IdleTimeout time.Duration
	// WriteTimeout bounds every flush of replies or pushes.
	WriteTimeout time.Duration
	// RateLimit is the number of commands per second allowed per session.
	// 0 disables rate limiting.
	RateLimit float64
	// MaxBulkLen and MaxArrayLen bound request frames.
	MaxBulkLen  int
	MaxArrayLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		WriteTimeout: 30 * time.Second,
		MaxBulkLen:   resp.DefaultMaxBulkLen,
		MaxArrayLen:  resp.DefaultMaxArrayLen,
	}
}

// Server accepts RESP connections and runs one session per connection.
type Server struct {
	cfg      *Config
	store    *memory.Store
	hub      *pubsub.Hub
	log      logger.Logger
	metrics  *metric.Registry
	decoder  *resp.Decoder
	commands map[string]*command

	mu      sync.Mutex
	ln      net.Listener
	running atomic.Bool

	sem      *semaphore.Weighted
	sessions *cmap.Map[string, *session]
	wg       conc.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics records command and connection metrics in r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// New creates a server over store and hub.
func New(cfg *Config, store *memory.Store, hub *pubsub.Hub, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:   cfg,
		store: store,
		hub:   hub,
		log:   logger.Default(),
		decoder: &resp.Decoder{
			MaxBulkLen:  cfg.MaxBulkLen,
			MaxArrayLen: cfg.MaxArrayLen,
		},
		commands: commandTable(),
		sessions: cmap.New[string, *session](),
	}
	if cfg.MaxConnections > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe listens on the configured address and serves until
// Shutdown is called or ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. It returns nil once Shutdown is called
// or ctx ends, and the accept error otherwise.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.running.Store(true)
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.running.Store(false)
		s.mu.Unlock()
		_ = ln.Close()
	})
	defer stop()

	s.log.Info("redis server listening", "addr", ln.Addr().String())

	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		if !s.start(ctx, c) {
			return nil
		}
	}
}

// start hands c to a new session, or rejects it when the connection limit
// is reached. It reports false once the server is shutting down.
func (s *Server) start(ctx context.Context, c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		_ = c.Close()
		return false
	}
	if s.sem != nil && !s.sem.TryAcquire(1) {
		s.reject(c)
		return true
	}
	if s.metrics != nil {
		s.metrics.ConnectionsAccepted.Inc()
	}

	sess := newSession(ctx, s, c)
	s.sessions.Set(sess.id, sess)
	s.wg.Go(func() {
		var pc panics.Catcher
		pc.Try(sess.serve)
		if r := pc.Recovered(); r != nil {
			sess.log.Error("session panic", "panic", r.Value, "stack", string(r.Stack))
		}
	})
	return true
}

func (s *Server) reject(c net.Conn) {
	if s.metrics != nil {
		s.metrics.ConnectionsRejected.Inc()
	}
	s.log.Warn("connection rejected", "remote", c.RemoteAddr().String(), "reason", "max connections")

	s.wg.Go(func() {
		defer c.Close()
		_ = c.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
		_, _ = c.Write(resp.Encode(resp.Error(domain.ErrMaxClients.Reply())))
	})
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout > 0 {
		return s.cfg.WriteTimeout
	}
	return 30 * time.Second
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Connections returns the number of open sessions.
func (s *Server) Connections() int {
	return s.sessions.Count()
}

// Shutdown stops accepting, lets every session finish the frames it has
// already received, and waits for the sessions to exit. When ctx ends
// first the remaining connections are closed and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.running.Store(false)
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	s.sessions.Range(func(_ string, sess *session) bool {
		sess.interrupt()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("redis server stopped")
		return nil
	case <-ctx.Done():
		n := 0
		s.sessions.Range(func(_ string, sess *session) bool {
			_ = sess.conn.Close()
			n++
			return true
		})
		s.log.Warn("redis server forced shutdown", "sessions", n)
		<-done
		return ctx.Err()
	}
}
