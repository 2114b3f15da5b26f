package rosterservice

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrUnknown   = errors.New("internal error")
)

// ErrorKind classifies a TradeError.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindForbidden
	KindConflict
	KindUnknown
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindConflict:
		return ErrConflict
	default:
		return ErrUnknown
	}
}

// TradeError is the only error type AssignPick returns. Unknown errors hide
// their cause from Error but keep it for errors.Is / errors.As.
type TradeError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func newTradeError(kind ErrorKind, reason string) *TradeError {
	return &TradeError{Kind: kind, Reason: reason}
}

func (e *TradeError) Error() string {
	if e.Kind == KindUnknown || e.Reason == "" {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Reason)
}

func (e *TradeError) Unwrap() error { return e.Err }

func (e *TradeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
