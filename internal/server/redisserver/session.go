package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
	"github.com/yndnr/simple-redis/pkg/resp"
)

const readChunk = 16 * 1024

// session is the server side of one client connection.
type session struct {
	id   string
	srv  *Server
	conn net.Conn
	ctx  context.Context
	log  logger.Logger

	// Read buffer. Bytes before start have been decoded.
	buf   []byte
	start int

	// writeMu guards bw and the write deadline. It is held while a command
	// executes so that pushes cannot interleave with its replies.
	writeMu sync.Mutex
	bw      *bufio.Writer

	limiter *rate.Limiter

	// sub is created by the first SUBSCRIBE. channels mirrors the hub
	// registrations of sub; it is written by the session goroutine with
	// writeMu held and read by the pump under writeMu.
	sub      *pubsub.Subscriber
	channels map[string]struct{}
	pumpDone chan struct{}

	quit      bool
	closeOnce sync.Once
	opened    time.Time
}

func newSession(ctx context.Context, srv *Server, c net.Conn) *session {
	id := ulid.Make().String()
	ctx = logger.WithSessionID(logger.WithLogger(ctx, srv.log), id)

	s := &session{
		id:     id,
		srv:    srv,
		conn:   c,
		ctx:    ctx,
		log:    logger.L(ctx).With("remote", c.RemoteAddr().String()),
		buf:      make([]byte, 0, readChunk),
		bw:       bufio.NewWriter(c),
		channels: make(map[string]struct{}),
		opened:   time.Now(),
	}
	if r := srv.cfg.RateLimit; r > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(r), int(math.Max(1, math.Ceil(r))))
	}
	return s
}

func (s *session) serve() {
	defer s.close()
	s.log.Debug("client connected")

	for {
		if err := s.processBuffered(); err != nil {
			s.protocolError(err)
			return
		}
		if err := s.flush(); err != nil {
			s.log.Debug("client disconnected", "reason", "write failed", "error", err)
			return
		}
		if s.quit {
			s.log.Debug("client disconnected", "reason", "quit")
			return
		}

		if err := s.conn.SetReadDeadline(s.readDeadline()); err != nil {
			return
		}
		// Shutdown moves the deadline to now after clearing running, so
		// checking here cannot miss it.
		if !s.srv.running.Load() {
			s.log.Debug("client disconnected", "reason", "server shutdown")
			return
		}
		if err := s.readMore(); err != nil {
			s.log.Debug("client disconnected", "reason", s.disconnectReason(err))
			return
		}
	}
}

// processBuffered executes every complete command in the read buffer.
func (s *session) processBuffered() error {
	for !s.quit {
		args, n, err := s.srv.decoder.DecodeCommand(s.buf[s.start:])
		if errors.Is(err, resp.ErrIncomplete) {
			return nil
		}
		if err != nil {
			return err
		}
		s.start += n
		if len(args) == 0 {
			continue
		}
		s.execute(args)
	}
	return nil
}

func (s *session) execute(args [][]byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, f := range s.srv.dispatch(s, args) {
		_ = resp.WriteFrame(s.bw, f)
	}
}

func (s *session) readMore() error {
	if s.start > 0 {
		n := copy(s.buf, s.buf[s.start:])
		s.buf = s.buf[:n]
		s.start = 0
	}
	if cap(s.buf)-len(s.buf) < readChunk {
		grown := make([]byte, len(s.buf), 2*cap(s.buf)+readChunk)
		copy(grown, s.buf)
		s.buf = grown
	}

	n, err := s.conn.Read(s.buf[len(s.buf):cap(s.buf)])
	s.buf = s.buf[:len(s.buf)+n]
	if n > 0 {
		return nil
	}
	return err
}

func (s *session) readDeadline() time.Time {
	if s.srv.cfg.IdleTimeout <= 0 || s.subscribed() {
		return time.Time{}
	}
	return time.Now().Add(s.srv.cfg.IdleTimeout)
}

func (s *session) flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.flushLocked()
}

func (s *session) flushLocked() error {
	if s.bw.Buffered() == 0 {
		return nil
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.srv.writeTimeout())); err != nil {
		return err
	}
	return s.bw.Flush()
}

func (s *session) protocolError(err error) {
	detail := strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
	de := domain.ErrProtocol.WithMessage("Protocol error: %s", detail).WithCause(err)

	if s.srv.metrics != nil {
		s.srv.metrics.ProtocolErrors.Inc()
	}
	s.log.Warn("protocol error, closing connection", "error", detail)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = resp.WriteFrame(s.bw, resp.Error(de.Reply()))
	_ = s.flushLocked()
}

func (s *session) disconnectReason(err error) string {
	var ne net.Error
	switch {
	case errors.Is(err, io.EOF):
		return "eof"
	case errors.As(err, &ne) && ne.Timeout():
		if !s.srv.running.Load() {
			return "server shutdown"
		}
		return "idle timeout"
	case errors.Is(err, net.ErrClosed):
		return "closed"
	default:
		return err.Error()
	}
}

// interrupt wakes a session blocked in Read so it notices shutdown.
func (s *session) interrupt() {
	_ = s.conn.SetReadDeadline(time.Now())
}

func (s *session) subscribed() bool {
	return len(s.channels) > 0
}

// subscriber returns the session's hub subscriber, creating it and its
// pump on first use. The session ID doubles as the subscriber ID.
func (s *session) subscriber() *pubsub.Subscriber {
	if s.sub == nil {
		s.sub = s.srv.hub.NewSubscriber(s.id)
		s.pumpDone = make(chan struct{})
		go s.pump(s.sub)
	}
	return s.sub
}

// pump forwards published messages to the client until the subscriber
// queue is closed.
func (s *session) pump(sub *pubsub.Subscriber) {
	defer close(s.pumpDone)

	msgs := sub.Messages()
	overflow := sub.Overflowed()
	broken := false
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if broken {
				continue
			}
			if err := s.push(msg, len(msgs) == 0); err != nil {
				s.log.Debug("push failed, closing connection", "error", err)
				broken = true
				_ = s.conn.Close()
			}
		case <-overflow:
			overflow = nil
			s.log.Warn("subscriber queue overflow, closing connection")
			s.writeMu.Lock()
			_ = resp.WriteFrame(s.bw, resp.Error(domain.ErrSlowConsumer.Reply()))
			_ = s.flushLocked()
			s.writeMu.Unlock()
			broken = true
			_ = s.conn.Close()
		}
	}
}

// push writes one message unless the session has left its channel since
// the message was queued.
func (s *session) push(msg pubsub.Message, flush bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.channels[msg.Channel]; !ok {
		return nil
	}
	err := resp.WriteFrame(s.bw, messageFrame(msg))
	if err != nil || !flush {
		return err
	}
	return s.flushLocked()
}

// drainPending moves queued messages for subscribed channels into req,
// ahead of its remaining replies. Runs with writeMu held.
func (s *session) drainPending(req *Request) {
	msgs := s.sub.Messages()
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if _, sub := s.channels[msg.Channel]; sub {
				req.Reply(messageFrame(msg))
			}
		default:
			return
		}
	}
}

func messageFrame(msg pubsub.Message) resp.Frame {
	return resp.Array(
		resp.BulkString("message"),
		resp.BulkString(msg.Channel),
		resp.Bulk(msg.Payload),
	)
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		if s.sub != nil {
			s.srv.hub.Close(s.sub)
			<-s.pumpDone
		}
		s.srv.release()
		s.srv.sessions.Delete(s.id)
		s.log.Debug("session closed", "duration", time.Since(s.opened).String())
	})
}
