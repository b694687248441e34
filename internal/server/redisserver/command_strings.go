package redisserver

import (
	"math"
	"strings"
	"time"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// GET key
func cmdGet(req *Request) error {
	v, ok, err := req.sess.srv.store.Get(req.arg(1))
	if err != nil {
		return err
	}
	if !ok {
		req.Reply(resp.NullBulk())
		return nil
	}
	req.Reply(resp.Bulk(v))
	return nil
}

// SET key value [NX|XX] [GET] [EX seconds|PX milliseconds|KEEPTTL]
func cmdSet(req *Request) error {
	opts, err := parseSetOptions(req.Args[3:])
	if err != nil {
		return err
	}

	res, err := req.sess.srv.store.Set(req.arg(1), req.Args[2], opts)
	if err != nil {
		return err
	}

	switch {
	case opts.Get && res.HadPrev:
		req.Reply(resp.Bulk(res.Prev))
	case opts.Get, !res.Written:
		req.Reply(resp.NullBulk())
	default:
		req.Reply(resp.OK())
	}
	return nil
}

func parseSetOptions(args [][]byte) (memory.SetOptions, error) {
	var (
		opts   memory.SetOptions
		expiry bool
	)
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(string(args[i])) {
		case "nx":
			if opts.XX {
				return opts, domain.ErrSyntax
			}
			opts.NX = true
		case "xx":
			if opts.NX {
				return opts, domain.ErrSyntax
			}
			opts.XX = true
		case "get":
			opts.Get = true
		case "keepttl":
			if expiry {
				return opts, domain.ErrSyntax
			}
			opts.KeepTTL, expiry = true, true
		case "ex", "px":
			if expiry || i+1 >= len(args) {
				return opts, domain.ErrSyntax
			}
			unit := time.Second
			if args[i][0]|0x20 == 'p' {
				unit = time.Millisecond
			}
			ttl, err := durationArg(args[i+1], unit, "set")
			if err != nil {
				return opts, err
			}
			if ttl <= 0 {
				return opts, domain.ErrInvalidExpire.WithMessage("invalid expire time in 'set' command")
			}
			opts.TTL, expiry = ttl, true
			i++
		default:
			return opts, domain.ErrSyntax
		}
	}
	return opts, nil
}

// INCR key, DECR key
func cmdIncr(req *Request) error {
	delta := int64(1)
	if req.Name == "decr" {
		delta = -1
	}
	return incrBy(req, delta)
}

// INCRBY key increment, DECRBY key decrement
func cmdIncrBy(req *Request) error {
	delta, err := parseInt(req.Args[2])
	if err != nil {
		return err
	}
	if req.Name == "decrby" {
		if delta == math.MinInt64 {
			return domain.ErrOutOfRange.WithMessage("decrement would overflow")
		}
		delta = -delta
	}
	return incrBy(req, delta)
}

func incrBy(req *Request, delta int64) error {
	n, err := req.sess.srv.store.IncrBy(req.arg(1), delta)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(n))
	return nil
}

// APPEND key value
func cmdAppend(req *Request) error {
	n, err := req.sess.srv.store.Append(req.arg(1), req.Args[2])
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// STRLEN key
func cmdStrLen(req *Request) error {
	n, err := req.sess.srv.store.StrLen(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}
