package redisserver

import (
	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

var errNotPositive = domain.NewDomainError(domain.KindOutOfRange, "value is out of range, must be positive")

// LPUSH key element [element ...], RPUSH key element [element ...]
func cmdPush(req *Request) error {
	store := req.sess.srv.store
	push := store.RPush
	if req.Name == "lpush" {
		push = store.LPush
	}
	n, err := push(req.arg(1), req.Args[2:]...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// LPOP key [count], RPOP key [count]
func cmdPop(req *Request) error {
	if len(req.Args) > 3 {
		return domain.ArityError(req.Name)
	}
	count, withCount := 1, len(req.Args) == 3
	if withCount {
		n, err := parseInt(req.Args[2])
		if err != nil {
			return err
		}
		if n < 0 {
			return errNotPositive
		}
		count = int(min(n, int64(1<<31-1)))
	}

	store := req.sess.srv.store
	pop := store.RPop
	if req.Name == "lpop" {
		pop = store.LPop
	}
	items, err := pop(req.arg(1), count)
	if err != nil {
		return err
	}

	switch {
	case withCount && items == nil:
		req.Reply(resp.NullArray())
	case withCount:
		req.Reply(resp.BulkArray(items...))
	case len(items) == 0:
		req.Reply(resp.NullBulk())
	default:
		req.Reply(resp.Bulk(items[0]))
	}
	return nil
}

// LRANGE key start stop
func cmdLRange(req *Request) error {
	start, err := parseInt(req.Args[2])
	if err != nil {
		return err
	}
	stop, err := parseInt(req.Args[3])
	if err != nil {
		return err
	}
	items, err := req.sess.srv.store.LRange(req.arg(1), start, stop)
	if err != nil {
		return err
	}
	req.Reply(resp.BulkArray(items...))
	return nil
}

// LLEN key
func cmdLLen(req *Request) error {
	n, err := req.sess.srv.store.LLen(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// LINDEX key index
func cmdLIndex(req *Request) error {
	idx, err := parseInt(req.Args[2])
	if err != nil {
		return err
	}
	v, ok, err := req.sess.srv.store.LIndex(req.arg(1), idx)
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
