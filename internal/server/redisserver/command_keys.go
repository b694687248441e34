package redisserver

import (
	"strings"
	"time"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// DEL key [key ...]
func cmdDel(req *Request) error {
	n := req.sess.srv.store.Del(req.keys(1)...)
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// EXISTS key [key ...]
func cmdExists(req *Request) error {
	n := req.sess.srv.store.Exists(req.keys(1)...)
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// EXPIRE key seconds, PEXPIRE key milliseconds
func cmdExpire(req *Request) error {
	unit := time.Second
	if req.Name == "pexpire" {
		unit = time.Millisecond
	}
	ttl, err := durationArg(req.Args[2], unit, req.Name)
	if err != nil {
		return err
	}
	req.Reply(boolInt(req.sess.srv.store.Expire(req.arg(1), ttl)))
	return nil
}

// PERSIST key
func cmdPersist(req *Request) error {
	req.Reply(boolInt(req.sess.srv.store.Persist(req.arg(1))))
	return nil
}

// TTL key, PTTL key
func cmdTTL(req *Request) error {
	ms := req.sess.srv.store.TTL(req.arg(1))
	if ms >= 0 && req.Name == "ttl" {
		ms = (ms + 500) / 1000
	}
	req.Reply(resp.Integer(ms))
	return nil
}

// TYPE key
func cmdType(req *Request) error {
	req.Reply(resp.SimpleString(req.sess.srv.store.Type(req.arg(1))))
	return nil
}

// DBSIZE
func cmdDBSize(req *Request) error {
	req.Reply(resp.Integer(int64(req.sess.srv.store.DBSize())))
	return nil
}

// FLUSHALL [ASYNC|SYNC]
func cmdFlushAll(req *Request) error {
	switch len(req.Args) {
	case 1:
	case 2:
		mode := strings.ToLower(req.arg(1))
		if mode != "async" && mode != "sync" {
			return domain.ErrSyntax
		}
	default:
		return domain.ErrSyntax
	}
	n := req.sess.srv.store.FlushAll()
	req.sess.log.Info("keyspace flushed", "keys", n)
	req.Reply(resp.OK())
	return nil
}
