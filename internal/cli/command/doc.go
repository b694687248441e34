// Package command defines the simple-redis-cli application.
//
// With arguments it sends one command and prints the reply; without
// arguments it starts the REPL. SUBSCRIBE keeps printing pushed messages
// until the context is canceled or the server disconnects.
package command
