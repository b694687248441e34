package redisserver

import (
	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// HSET key field value [field value ...]
func cmdHSet(req *Request) error {
	if len(req.Args)%2 != 0 {
		return domain.ArityError(req.Name)
	}
	n, err := req.sess.srv.store.HSet(req.arg(1), req.Args[2:]...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// HGET key field
func cmdHGet(req *Request) error {
	v, ok, err := req.sess.srv.store.HGet(req.arg(1), req.arg(2))
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

// HDEL key field [field ...]
func cmdHDel(req *Request) error {
	n, err := req.sess.srv.store.HDel(req.arg(1), req.keys(2)...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// HGETALL key replies with a flat field/value array.
func cmdHGetAll(req *Request) error {
	fields, err := req.sess.srv.store.HGetAll(req.arg(1))
	if err != nil {
		return err
	}
	out := make([][]byte, 0, 2*len(fields))
	for _, fv := range fields {
		out = append(out, []byte(fv.Field), fv.Value)
	}
	req.Reply(resp.BulkArray(out...))
	return nil
}

// HMGET key field [field ...]
func cmdHMGet(req *Request) error {
	vals, err := req.sess.srv.store.HMGet(req.arg(1), req.keys(2)...)
	if err != nil {
		return err
	}
	req.Reply(resp.BulkArray(vals...))
	return nil
}

// HLEN key
func cmdHLen(req *Request) error {
	n, err := req.sess.srv.store.HLen(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// HEXISTS key field
func cmdHExists(req *Request) error {
	ok, err := req.sess.srv.store.HExists(req.arg(1), req.arg(2))
	if err != nil {
		return err
	}
	req.Reply(boolInt(ok))
	return nil
}
