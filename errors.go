package slmp

import (
	"errors"
	"fmt"
)

// Kind classifies an Error by which part of the contract it broke
// (spec.md §7).
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindPrecondition
	KindTimeout
	KindCommunication
	KindProtocol
	KindTransport
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindPrecondition:
		return "PreconditionError"
	case KindTimeout:
		return "Timeout"
	case KindCommunication:
		return "CommunicationError"
	case KindProtocol:
		return "ProtocolError"
	case KindTransport:
		return "TransportError"
	case KindCancelled:
		return "Cancelled"
	default:
		return "UnknownError"
	}
}

// Error is the single error type every command-surface operation
// returns. Callers should inspect Kind, or use errors.Is against the
// package-level sentinels below.
type Error struct {
	Kind    Kind
	Command CommandCode
	EndCode EndCode
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("slmp: %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("slmp: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is one of the Kind sentinels below, so
// errors.Is(err, slmp.ErrTimeout) works without exposing *Error's
// fields to every caller.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.Msg == ""
}

// Sentinel errors for errors.Is comparisons, one per Kind.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrPrecondition    = &Error{Kind: KindPrecondition}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrCommunication   = &Error{Kind: KindCommunication}
	ErrProtocol        = &Error{Kind: KindProtocol}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrCancelled       = &Error{Kind: KindCancelled}
)

func invalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func precondition(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Msg: fmt.Sprintf(format, args...)}
}

func timeoutError(cmd CommandCode, err error) *Error {
	return &Error{Kind: KindTimeout, Command: cmd, Msg: "local wait budget elapsed", Err: err}
}

func communicationError(cmd CommandCode, code EndCode) *Error {
	return &Error{Kind: KindCommunication, Command: cmd, EndCode: code, Msg: code.String()}
}

func protocolError(cmd CommandCode, err error) *Error {
	return &Error{Kind: KindProtocol, Command: cmd, Msg: "malformed response body", Err: err}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Msg: "transport failure", Err: err}
}

func cancelledError(err error) *Error {
	return &Error{Kind: KindCancelled, Msg: "session closed while waiting", Err: err}
}

// classifyWaitErr maps the internal correlator/context errors surfaced
// by Session.Wait onto the public Kind taxonomy.
func classifyWaitErr(cmd CommandCode, err error) *Error {
	switch {
	case errors.Is(err, errCorrelatorTimeout):
		return timeoutError(cmd, err)
	case errors.Is(err, errCorrelatorCancelled):
		return cancelledError(err)
	default:
		return timeoutError(cmd, err)
	}
}
