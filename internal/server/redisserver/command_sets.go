package redisserver

import "github.com/yndnr/simple-redis/pkg/resp"

// SADD key member [member ...]
func cmdSAdd(req *Request) error {
	n, err := req.sess.srv.store.SAdd(req.arg(1), req.keys(2)...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// SREM key member [member ...]
func cmdSRem(req *Request) error {
	n, err := req.sess.srv.store.SRem(req.arg(1), req.keys(2)...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// SMEMBERS key
func cmdSMembers(req *Request) error {
	members, err := req.sess.srv.store.SMembers(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.StringArray(members...))
	return nil
}

// SISMEMBER key member
func cmdSIsMember(req *Request) error {
	ok, err := req.sess.srv.store.SIsMember(req.arg(1), req.arg(2))
	if err != nil {
		return err
	}
	req.Reply(boolInt(ok))
	return nil
}

// SCARD key
func cmdSCard(req *Request) error {
	n, err := req.sess.srv.store.SCard(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}
