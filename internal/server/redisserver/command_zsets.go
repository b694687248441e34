package redisserver

import (
	"strings"

	"github.com/yndnr/simple-redis/internal/core/domain"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/pkg/resp"
)

// ZADD key score member [score member ...]
func cmdZAdd(req *Request) error {
	pairs := req.Args[2:]
	if len(pairs)%2 != 0 {
		return domain.ErrSyntax
	}
	members := make([]memory.ScoredMember, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		score, err := parseFloat(pairs[i])
		if err != nil {
			return err
		}
		members = append(members, memory.ScoredMember{Member: string(pairs[i+1]), Score: score})
	}

	n, err := req.sess.srv.store.ZAdd(req.arg(1), members...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// ZREM key member [member ...]
func cmdZRem(req *Request) error {
	n, err := req.sess.srv.store.ZRem(req.arg(1), req.keys(2)...)
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// ZSCORE key member
func cmdZScore(req *Request) error {
	score, ok, err := req.sess.srv.store.ZScore(req.arg(1), req.arg(2))
	if err != nil {
		return err
	}
	if !ok {
		req.Reply(resp.NullBulk())
		return nil
	}
	req.Reply(resp.BulkString(resp.FormatFloat(score)))
	return nil
}

// ZCARD key
func cmdZCard(req *Request) error {
	n, err := req.sess.srv.store.ZCard(req.arg(1))
	if err != nil {
		return err
	}
	req.Reply(resp.Integer(int64(n)))
	return nil
}

// ZRANK key member
func cmdZRank(req *Request) error {
	rank, ok, err := req.sess.srv.store.ZRank(req.arg(1), req.arg(2))
	if err != nil {
		return err
	}
	if !ok {
		req.Reply(resp.NullBulk())
		return nil
	}
	req.Reply(resp.Integer(int64(rank)))
	return nil
}

// ZRANGE key start stop [WITHSCORES]
func cmdZRange(req *Request) error {
	withScores := false
	switch len(req.Args) {
	case 4:
	case 5:
		if !strings.EqualFold(req.arg(4), "withscores") {
			return domain.ErrSyntax
		}
		withScores = true
	default:
		return domain.ErrSyntax
	}

	start, err := parseInt(req.Args[2])
	if err != nil {
		return err
	}
	stop, err := parseInt(req.Args[3])
	if err != nil {
		return err
	}
	members, err := req.sess.srv.store.ZRange(req.arg(1), start, stop)
	if err != nil {
		return err
	}

	out := make([]resp.Frame, 0, 2*len(members))
	for _, m := range members {
		out = append(out, resp.BulkString(m.Member))
		if withScores {
			out = append(out, resp.BulkString(resp.FormatFloat(m.Score)))
		}
	}
	req.Reply(resp.Array(out...))
	return nil
}
