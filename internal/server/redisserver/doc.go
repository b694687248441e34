// Package redisserver serves the RESP protocol over TCP.
//
// Each accepted connection becomes a session: a goroutine that decodes
// commands from its read buffer, dispatches them against the value store
// or the pub/sub hub, and writes the replies back in request order.
// Sessions that subscribe to channels also run a pump goroutine that
// forwards published messages; replies and pushes share one write lock so
// they never interleave.
package redisserver
