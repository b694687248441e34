// Package main provides the entry point for simple-redis-server.
//
// The server provides:
//
//   - a RESP listener for the key-value and pub/sub commands
//   - an optional HTTP listener exposing /metrics and /healthz
//
// Usage:
//
//	simple-redis-server [flags]
//	simple-redis-server --config /path/to/config.yaml
//
// Configuration is layered: built-in defaults, the YAML file, SIMPLEREDIS_
// environment variables, then command-line flags.
package main
