package redisserver

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

type cmdFlag uint8

const (
	// flagPubSub marks commands allowed while the session is subscribed.
	flagPubSub cmdFlag = 1 << iota
)

// handlerFunc executes one command. Replies are added with Request.Reply;
// a returned error becomes the final reply instead.
type handlerFunc func(req *Request) error

type command struct {
	name    string
	arity   int
	flags   cmdFlag
	handler handlerFunc
}

// Request is one command being executed by a session.
type Request struct {
	Name string
	Args [][]byte // Args[0] is the verb

	sess    *session
	replies []resp.Frame
}

// Reply appends a reply frame.
func (r *Request) Reply(f resp.Frame) {
	r.replies = append(r.replies, f)
}

func (r *Request) arg(i int) string {
	return string(r.Args[i])
}

func (r *Request) keys(from int) []string {
	keys := make([]string, 0, len(r.Args)-from)
	for _, a := range r.Args[from:] {
		keys = append(keys, string(a))
	}
	return keys
}

// commandTable builds the command set. Arity follows Redis: a positive N
// is exactly N arguments including the verb, -N is at least N.
func commandTable() map[string]*command {
	cmds := []*command{
		// connection
		{"ping", -1, flagPubSub, cmdPing},
		{"echo", 2, 0, cmdEcho},
		{"quit", -1, flagPubSub, cmdQuit},

		// keys
		{"del", -2, 0, cmdDel},
		{"exists", -2, 0, cmdExists},
		{"expire", 3, 0, cmdExpire},
		{"pexpire", 3, 0, cmdExpire},
		{"persist", 2, 0, cmdPersist},
		{"ttl", 2, 0, cmdTTL},
		{"pttl", 2, 0, cmdTTL},
		{"type", 2, 0, cmdType},
		{"dbsize", 1, 0, cmdDBSize},
		{"flushall", -1, 0, cmdFlushAll},

		// strings
		{"get", 2, 0, cmdGet},
		{"set", -3, 0, cmdSet},
		{"incr", 2, 0, cmdIncr},
		{"decr", 2, 0, cmdIncr},
		{"incrby", 3, 0, cmdIncrBy},
		{"decrby", 3, 0, cmdIncrBy},
		{"append", 3, 0, cmdAppend},
		{"strlen", 2, 0, cmdStrLen},

		// lists
		{"lpush", -3, 0, cmdPush},
		{"rpush", -3, 0, cmdPush},
		{"lpop", -2, 0, cmdPop},
		{"rpop", -2, 0, cmdPop},
		{"lrange", 4, 0, cmdLRange},
		{"llen", 2, 0, cmdLLen},
		{"lindex", 3, 0, cmdLIndex},

		// hashes
		{"hset", -4, 0, cmdHSet},
		{"hget", 3, 0, cmdHGet},
		{"hdel", -3, 0, cmdHDel},
		{"hgetall", 2, 0, cmdHGetAll},
		{"hmget", -3, 0, cmdHMGet},
		{"hlen", 2, 0, cmdHLen},
		{"hexists", 3, 0, cmdHExists},

		// sets
		{"sadd", -3, 0, cmdSAdd},
		{"srem", -3, 0, cmdSRem},
		{"smembers", 2, 0, cmdSMembers},
		{"sismember", 3, 0, cmdSIsMember},
		{"scard", 2, 0, cmdSCard},

		// sorted sets
		{"zadd", -4, 0, cmdZAdd},
		{"zrem", -3, 0, cmdZRem},
		{"zscore", 3, 0, cmdZScore},
		{"zcard", 2, 0, cmdZCard},
		{"zrank", 3, 0, cmdZRank},
		{"zrange", -4, 0, cmdZRange},

		// pub/sub
		{"subscribe", -2, flagPubSub, cmdSubscribe},
		{"unsubscribe", -1, flagPubSub, cmdUnsubscribe},
		{"publish", 3, 0, cmdPublish},
		{"pubsub", -2, 0, cmdPubSub},
	}

	table := make(map[string]*command, len(cmds))
	for _, c := range cmds {
		table[c.name] = c
	}
	return table
}

// dispatch validates and executes one command and returns its replies.
// This is the only place where errors are turned into error frames.
func (s *Server) dispatch(sess *session, args [][]byte) []resp.Frame {
	name := strings.ToLower(string(args[0]))
	req := &Request{Name: name, Args: args, sess: sess}

	cmd, ok := s.commands[name]
	if !ok {
		req.Reply(errorFrame(domain.UnknownCommandError(string(args[0]), quotedArgs(args[1:]))))
		return req.replies
	}

	start := time.Now()
	err := s.validate(cmd, req)
	if err == nil {
		err = cmd.handler(req)
	}
	if s.metrics != nil {
		s.metrics.ObserveCommand(name, err, time.Since(start))
	}

	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			sess.log.Error("command failed", "command", name, "error", err)
		}
		req.Reply(errorFrame(err))
	}
	return req.replies
}

func (s *Server) validate(cmd *command, req *Request) error {
	n := len(req.Args)
	if (cmd.arity > 0 && n != cmd.arity) || (cmd.arity < 0 && n < -cmd.arity) {
		return domain.ArityError(cmd.name)
	}
	if req.sess.subscribed() && cmd.flags&flagPubSub == 0 {
		return domain.SubscribedModeError(cmd.name)
	}
	if l := req.sess.limiter; l != nil && !l.Allow() {
		return domain.ErrRateLimited
	}
	return nil
}

func errorFrame(err error) resp.Frame {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return resp.Error(de.Reply())
	}
	return resp.Error(domain.ErrInternal.Reply())
}

// quotedArgs returns the leading arguments quoted in an unknown-command
// reply, stopping once about 128 bytes have been collected.
func quotedArgs(args [][]byte) []string {
	var (
		out  []string
		size int
	)
	for _, a := range args {
		if size >= 128 {
			break
		}
		a = a[:min(len(a), 128-size)]
		out = append(out, string(a))
		size += len(a) + 3
	}
	return out
}

func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, domain.ErrNotInteger
	}
	return n, nil
}

func parseFloat(b []byte) (float64, error) {
	switch string(bytes.ToLower(b)) {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(v) {
		return 0, domain.ErrNotFloat
	}
	return v, nil
}

// durationArg parses a relative expiry given in unit.
func durationArg(b []byte, unit time.Duration, cmd string) (time.Duration, error) {
	n, err := parseInt(b)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64/int64(unit) || n < math.MinInt64/int64(unit) {
		return 0, domain.ErrInvalidExpire.WithMessage("invalid expire time in '%s' command", cmd)
	}
	return time.Duration(n) * unit, nil
}

func boolInt(b bool) resp.Frame {
	if b {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}
