// Package main provides the entry point for simple-redis-cli.
//
// Usage:
//
//	simple-redis-cli [-h host] [-p port] [-o raw|json|yaml] [command [arg ...]]
//
// Without a command it starts an interactive prompt.
package main
