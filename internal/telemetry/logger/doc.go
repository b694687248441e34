// Package logger provides structured logging for simple-redis.
//
// It wraps log/slog behind the Logger interface:
//
//   - logger.go: handler selection (JSON or text) and the runtime level
//   - context.go: loggers and session IDs carried in a context
//   - rotate.go: size-based log file rotation
package logger
