package service

import (
	"context"
	"errors"
	"fmt"
)

// Kind categorizes service failures.
type Kind string

const (
	// KindNotFound indicates the addressed entity does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindUnauthorized indicates the caller may not perform the operation.
	KindUnauthorized Kind = "UNAUTHORIZED"

	// KindConflict indicates a uniqueness rule would be broken.
	KindConflict Kind = "CONFLICT"

	// KindValidation indicates malformed input.
	KindValidation Kind = "VALIDATION"

	// KindExpired indicates a password-reset token is past its deadline.
	KindExpired Kind = "EXPIRED"

	// KindInvalidCredentials indicates a wrong email/password pair or a
	// wrong current password.
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"

	// KindCanceled indicates the call was cancelled before it took effect.
	KindCanceled Kind = "CANCELED"

	// KindInternal indicates the storage medium failed.
	KindInternal Kind = "INTERNAL"
)

// Error is a typed service failure.
type Error struct {
	// Kind identifies the failure category.
	Kind Kind

	// Message is a human-readable description safe to show end users.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err. Context cancellation maps to KindCanceled;
// any other untyped error maps to KindInternal. KindOf(nil) is "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// IsNotFound returns true if err is a not-found failure.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict returns true if err is a uniqueness failure.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsExpired returns true if err is an expired-token failure.
func IsExpired(err error) bool { return KindOf(err) == KindExpired }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) *Error   { return newError(KindNotFound, message) }
func conflict(message string) *Error   { return newError(KindConflict, message) }
func validation(message string) *Error { return newError(KindValidation, message) }

// internal wraps a storage failure so callers see one envelope shape.
func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindInternal, Message: op + " failed", Err: err}
}
