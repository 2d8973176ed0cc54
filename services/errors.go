package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by every registry operation
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// OpError is a structured failure: a kind from the list above plus a message
// that callers can show verbatim.
type OpError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *OpError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *OpError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// KindOf returns the error kind carried by err, or nil for unclassified errors
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrValidationFailed, ErrStoreUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// MessageOf returns the human-readable message of a structured error
func MessageOf(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func notFoundf(format string, args ...interface{}) error {
	return &OpError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &OpError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...interface{}) error {
	return &OpError{Kind: ErrValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func storeUnavailable(op string, cause error) error {
	return &OpError{Kind: ErrStoreUnavailable, Message: "record store unavailable during " + op, Cause: cause}
}
