// Package apperr defines the error kinds shared by every service.
//
// Services declare their own named errors on top of these kinds so callers
// can branch on the kind (errors.Is(err, apperr.ErrLockConflict)) without
// knowing which service produced the error.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuth              Kind = "auth"
	KindNotFound          Kind = "not_found"
	KindLockConflict      Kind = "lock_conflict"
	KindTransientDelivery Kind = "transient_delivery"
	KindPermanentDelivery Kind = "permanent_delivery"
	KindInternal          Kind = "internal"
)

// Error is an error tagged with a Kind
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, and by message when the target carries one
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Msg == "" || t.Msg == e.Msg
}

// Kind sentinels for errors.Is
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrAuth              = &Error{Kind: KindAuth}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrLockConflict      = &Error{Kind: KindLockConflict}
	ErrTransientDelivery = &Error{Kind: KindTransientDelivery}
	ErrPermanentDelivery = &Error{Kind: KindPermanentDelivery}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Validation(msg string) *Error   { return New(KindValidation, msg) }
func Auth(msg string) *Error         { return New(KindAuth, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func LockConflict(msg string) *Error { return New(KindLockConflict, msg) }

// Wrap tags err with a kind and operation name
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
