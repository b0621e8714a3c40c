package pagination

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a loading failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindDecoding
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecoding:
		return "decoding"
	case KindCanceled:
		return "canceled"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	// ErrNetwork is the sentinel for transport failures.
	ErrNetwork = errors.New("network failure")
	// ErrDecoding is the sentinel for malformed responses.
	ErrDecoding = errors.New("decoding failure")
)

// Error is the error value carried by LoadingFailed and Failed.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}

	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError normalizes err into an *Error: an *Error anywhere in the chain is
// returned as is, context cancellation and deadlines become KindCanceled,
// the package sentinels map to their kinds, and anything else is KindUnknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewError(KindCanceled, err)
	case errors.Is(err, ErrNetwork):
		return NewError(KindNetwork, err)
	case errors.Is(err, ErrDecoding):
		return NewError(KindDecoding, err)
	default:
		return NewError(KindUnknown, err)
	}
}
