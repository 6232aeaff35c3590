package mockd

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so a single place (the admin handler
// wrapper) can map it to an HTTP status, following the
// teacher's APIError pattern of carrying a status alongside the error
// rather than sniffing error strings at the edge.
type Kind int

const (
	// KindInternal is the zero value so a bare Error{} fails safe as 500.
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindBadGateway
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadGateway:
		return "bad_gateway"
	default:
		return "internal"
	}
}

// Error is the single error type every component in the engine returns.
// The admin handler wrapper switches on Kind to decide the HTTP status;
// everything in between just propagates it. The Dispatcher does not look
// at Kind: it answers any forwarder error with 502.
type Error struct {
	Kind Kind
	Err  error
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, defaulting to KindInternal for any
// error that isn't one of ours.
func KindOf(err error) Kind {
	var merr *Error
	if err == nil {
		return KindInternal
	}
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return KindInternal
}

func Invalid(err error) *Error    { return NewError(KindInvalid, err) }
func NotFound(err error) *Error   { return NewError(KindNotFound, err) }
func Conflict(err error) *Error   { return NewError(KindConflict, err) }
func BadGateway(err error) *Error { return NewError(KindBadGateway, err) }
