package fault

import "fmt"

// MalformedEnvelopeError reports a request that could not be parsed
// into an envelope with a usable body: invalid XML, a missing
// Envelope or Body element, or an empty Body.
type MalformedEnvelopeError struct {
	Reason string
}

func (e *MalformedEnvelopeError) Error() string {
	return "malformed envelope: " + e.Reason
}

// UnknownOperationError reports a request addressing an operation that
// is not registered.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// DecodeError reports a request body that does not conform to the
// operation's request schema. Field is the logical field name.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode field %q: %s", e.Field, e.Reason)
}

// HandlerError wraps a failure reported by an operation handler, or a
// failure encoding its response. Detail, when set, is emitted verbatim
// as the fault's detail element content and must be well-formed XML.
type HandlerError struct {
	Err    error
	Detail string
}

func (e *HandlerError) Error() string {
	if e.Err == nil {
		return "handler error"
	}
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
