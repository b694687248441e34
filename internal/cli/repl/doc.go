// Package repl provides the interactive mode of simple-redis-cli.
//
//   - repl.go: main loop, prompt and dispatch to an Executor
//   - args.go: splitting an input line into command arguments
//   - completer.go: command name completion
//   - history.go: command history persistence
package repl
