// Package connection provides the RESP client used by simple-redis-cli.
//
// Client dials lazily, encodes each command as an array of bulk strings
// and decodes replies with pkg/resp. Receive reads unsolicited frames
// for subscribed connections.
package connection
