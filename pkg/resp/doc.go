// Package resp implements the Redis serialization protocol (RESP) used on
// the simple-redis wire.
//
// Every frame starts with a one byte type marker and ends with CRLF ("\r\n"):
//
//	+<string>\r\n                 simple string (no CR or LF inside)
//	-<PREFIX> <message>\r\n       error
//	:<int64>\r\n                  integer (decimal, optional leading '-')
//	$<len>\r\n<bytes>\r\n         bulk string; "$-1\r\n" is the null bulk string
//	*<n>\r\n<frame>...            array of n frames; "*-1\r\n" is the null array
//	_\r\n                         null (RESP3)
//	#t\r\n / #f\r\n               boolean (RESP3)
//	,<float>\r\n                  double (RESP3, also inf, -inf, nan)
//	%<n>\r\n<key><value>...       map of n pairs (RESP3)
//	~<n>\r\n<frame>...            set of n frames (RESP3)
//
// Lengths are decimal ASCII. A bulk string's payload is binary safe and its
// declared length must match the payload exactly.
//
// Clients send commands as arrays of bulk strings:
//
//	*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n
//
// Inline commands ("PING\r\n", arguments separated by whitespace) are also
// accepted by DecodeCommand.
//
// Decoding is resumable: Decode never consumes input unless a whole frame is
// present, and returns ErrIncomplete so the caller can append more bytes and
// retry. Malformed input yields an error wrapping ErrProtocol.
package resp
