package redisserver

import (
	"path"
	"strings"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// SUBSCRIBE channel [channel ...] replies once per channel.
func cmdSubscribe(req *Request) error {
	sess := req.sess
	hub := sess.srv.hub
	sub := sess.subscriber()
	for _, ch := range req.keys(1) {
		if hub.Subscribe(sub, ch) {
			sess.channels[ch] = struct{}{}
		}
		req.Reply(subscriptionReply("subscribe", resp.BulkString(ch), len(sess.channels)))
	}
	return nil
}

// UNSUBSCRIBE [channel ...] leaves the named channels, or all of them.
// Messages still queued when the last channel is left are replied before
// its confirmation, so nothing is pushed once the session is back in
// normal mode.
func cmdUnsubscribe(req *Request) error {
	sess := req.sess
	channels := req.keys(1)
	if len(channels) == 0 && sess.sub != nil {
		channels = sess.srv.hub.SubscribedTo(sess.sub)
	}
	if len(channels) == 0 {
		req.Reply(subscriptionReply("unsubscribe", resp.NullBulk(), len(sess.channels)))
		return nil
	}

	for _, ch := range channels {
		if sess.sub != nil && sess.srv.hub.Unsubscribe(sess.sub, ch) {
			if len(sess.channels) == 1 {
				sess.drainPending(req)
			}
			delete(sess.channels, ch)
		}
		req.Reply(subscriptionReply("unsubscribe", resp.BulkString(ch), len(sess.channels)))
	}
	return nil
}

func subscriptionReply(kind string, channel resp.Frame, count int) resp.Frame {
	return resp.Array(resp.BulkString(kind), channel, resp.Integer(int64(count)))
}

// PUBLISH channel message
func cmdPublish(req *Request) error {
	n := req.sess.srv.hub.Publish(req.arg(1), req.Args[2])
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// PUBSUB CHANNELS [pattern] | NUMSUB [channel ...]
func cmdPubSub(req *Request) error {
	hub := req.sess.srv.hub
	switch strings.ToLower(req.arg(1)) {
	case "channels":
		if len(req.Args) > 3 {
			return domain.ArityError("pubsub|channels")
		}
		names := hub.Channels()
		if len(req.Args) == 3 {
			names = matching(names, req.arg(2))
		}
		req.Reply(resp.StringArray(names...))
	case "numsub":
		out := make([]resp.Frame, 0, 2*(len(req.Args)-2))
		for _, ch := range req.keys(2) {
			out = append(out, resp.BulkString(ch), resp.Integer(int64(hub.NumSub(ch))))
		}
		req.Reply(resp.Array(out...))
	default:
		return domain.NewDomainError(domain.KindSyntax, "unknown subcommand '"+req.arg(1)+"'. Try PUBSUB HELP.")
	}
	return nil
}

// matching filters names by a glob pattern. A malformed pattern matches
// nothing.
func matching(names []string, pattern string) []string {
	out := names[:0]
	for _, n := range names {
		if ok, err := path.Match(pattern, n); err == nil && ok {
			out = append(out, n)
		}
	}
	return out
}
