package redisserver

import (
	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// PING [message]
func cmdPing(req *Request) error {
	if len(req.Args) > 2 {
		return domain.ArityError(req.Name)
	}
	if req.sess.subscribed() {
		msg := []byte{}
		if len(req.Args) == 2 {
			msg = req.Args[1]
		}
		req.Reply(resp.Array(resp.BulkString("pong"), resp.Bulk(msg)))
		return nil
	}
	if len(req.Args) == 2 {
		req.Reply(resp.Bulk(req.Args[1]))
		return nil
	}
	req.Reply(resp.SimpleString("PONG"))
	return nil
}

// ECHO message
func cmdEcho(req *Request) error {
	req.Reply(resp.Bulk(req.Args[1]))
	return nil
}

// QUIT replies OK; the session closes once the reply is flushed.
func cmdQuit(req *Request) error {
	req.sess.quit = true
	req.Reply(resp.OK())
	return nil
}
