package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError.
type ErrorKind int

// Error kinds.
const (
	KindInternal ErrorKind = iota
	KindProtocol
	KindArity
	KindUnknownCommand
	KindWrongType
	KindSyntax
	KindNotInteger
	KindNotFloat
	KindOutOfRange
	KindSubscribedMode
	KindRateLimited
	KindCapacity
)

var kindNames = map[ErrorKind]string{
	KindInternal:       "internal",
	KindProtocol:       "protocol",
	KindArity:          "arity",
	KindUnknownCommand: "unknown_command",
	KindWrongType:      "wrong_type",
	KindSyntax:         "syntax",
	KindNotInteger:     "not_integer",
	KindNotFloat:       "not_float",
	KindOutOfRange:     "out_of_range",
	KindSubscribedMode: "subscribed_mode",
	KindRateLimited:    "rate_limited",
	KindCapacity:       "capacity",
}

// String returns the kind name used in logs and metric labels.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DomainError is a client-visible failure.
type DomainError struct {
	Kind    ErrorKind
	Prefix  string // RESP error prefix, e.g. "ERR" or "WRONGTYPE"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Prefix, e.Message, e.Cause)
	}
	return e.Prefix + " " + e.Message
}

// Reply returns the text of the RESP error line, without the cause.
func (e *DomainError) Reply() string {
	return e.Prefix + " " + e.Message
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError of the same kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Fatal reports whether the error ends the connection.
func (e *DomainError) Fatal() bool {
	return e.Kind == KindProtocol || e.Kind == KindCapacity
}

// NewDomainError creates a DomainError with the "ERR" prefix.
func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Prefix: "ERR", Message: message}
}

// WithMessage returns a copy of the error with a different message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Prefix:  e.Prefix,
		Message: fmt.Sprintf(format, args...),
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Prefix:  e.Prefix,
		Message: e.Message,
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or KindInternal if err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Sentinels. Compare with errors.Is; messages match what Redis clients expect.
var (
	ErrProtocol = NewDomainError(KindProtocol, "Protocol error")

	ErrWrongType = &DomainError{
		Kind:    KindWrongType,
		Prefix:  "WRONGTYPE",
		Message: "Operation against a key holding the wrong kind of value",
	}

	ErrSyntax        = NewDomainError(KindSyntax, "syntax error")
	ErrNotInteger    = NewDomainError(KindNotInteger, "value is not an integer or out of range")
	ErrNotFloat      = NewDomainError(KindNotFloat, "value is not a valid float")
	ErrOutOfRange    = NewDomainError(KindOutOfRange, "increment or decrement would overflow")
	ErrInvalidExpire = NewDomainError(KindOutOfRange, "invalid expire time")
	ErrRateLimited   = NewDomainError(KindRateLimited, "rate limit exceeded")
	ErrMaxClients    = NewDomainError(KindCapacity, "max number of clients reached")
	ErrSlowConsumer  = NewDomainError(KindCapacity, "subscriber queue overflow")
	ErrInternal      = NewDomainError(KindInternal, "internal error")
)

// ArityError reports a wrong argument count for cmd.
func ArityError(cmd string) *DomainError {
	return NewDomainError(KindArity, fmt.Sprintf("wrong number of arguments for '%s' command", cmd))
}

// UnknownCommandError reports an unknown verb. args are the arguments after
// the verb; they are quoted the way Redis does in its reply.
func UnknownCommandError(cmd string, args []string) *DomainError {
	msg := fmt.Sprintf("unknown command '%s', with args beginning with: ", cmd)
	for _, a := range args {
		msg += fmt.Sprintf("'%s' ", a)
	}
	return NewDomainError(KindUnknownCommand, msg)
}

// SubscribedModeError reports a command refused while the session is subscribed.
func SubscribedModeError(cmd string) *DomainError {
	return NewDomainError(KindSubscribedMode, fmt.Sprintf(
		"Can't execute '%s': only (P|S)SUBSCRIBE / (P|S)UNSUBSCRIBE / PING / QUIT / RESET are allowed in this context", cmd))
}
