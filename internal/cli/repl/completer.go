package repl

import (
	"sort"
	"strings"
)

// Completer provides command name completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the server's command names.
func NewCompleter() *Completer {
	commands := []string{
		"ping", "echo", "quit",
		"del", "exists", "expire", "pexpire", "persist", "ttl", "pttl", "type", "dbsize", "flushall",
		"get", "set", "incr", "decr", "incrby", "decrby", "append", "strlen",
		"lpush", "rpush", "lpop", "rpop", "lrange", "llen", "lindex",
		"hset", "hget", "hdel", "hgetall", "hmget", "hlen", "hexists",
		"sadd", "srem", "smembers", "sismember", "scard",
		"zadd", "zrem", "zscore", "zcard", "zrank", "zrange",
		"subscribe", "unsubscribe", "publish", "pubsub",
		"help", "exit",
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
