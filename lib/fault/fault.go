// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error].
type Kind uint8

const (
	// KindUnknown is the zero value. Errors not produced by this
	// package report KindUnknown from [KindOf].
	KindUnknown Kind = iota
	KindBadParameters
	KindConfiguration
	KindDeserialization
	KindSerialization
	KindInternal
	KindNotImplemented
)

// String returns the human-readable name of a kind.
func (kind Kind) String() string {
	switch kind {
	case KindBadParameters:
		return "bad parameters"
	case KindConfiguration:
		return "configuration"
	case KindDeserialization:
		return "deserialization"
	case KindSerialization:
		return "serialization"
	case KindInternal:
		return "internal"
	case KindNotImplemented:
		return "not implemented"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

// Error is a classified CortexBridge error.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op names the operation that failed, e.g. "streamcache.NewRunner".
	// May be empty.
	Op string

	// Message describes the failure.
	Message string

	// Err is an optional underlying cause.
	Err error
}

func (err *Error) Error() string {
	message := err.Message
	if err.Err != nil {
		if message == "" {
			message = err.Err.Error()
		} else {
			message = message + ": " + err.Err.Error()
		}
	}
	if err.Op != "" {
		return fmt.Sprintf("%s: %s: %s", err.Op, err.Kind, message)
	}
	return fmt.Sprintf("%s: %s", err.Kind, message)
}

// Unwrap returns the underlying cause.
func (err *Error) Unwrap() error {
	return err.Err
}

// New returns an Error of the given kind with a formatted message.
func New(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind. Returns nil if cause is nil.
func Wrap(kind Kind, op string, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: cause}
}

// BadParameters reports an invalid caller-supplied value.
func BadParameters(op string, format string, args ...any) error {
	return New(KindBadParameters, op, format, args...)
}

// Configuration reports an invalid composition of components.
func Configuration(op string, format string, args ...any) error {
	return New(KindConfiguration, op, format, args...)
}

// Deserialization reports a malformed input buffer.
func Deserialization(op string, format string, args ...any) error {
	return New(KindDeserialization, op, format, args...)
}

// Serialization reports a failure while writing bytes.
func Serialization(op string, format string, args ...any) error {
	return New(KindSerialization, op, format, args...)
}

// Internal reports a violated invariant.
func Internal(op string, format string, args ...any) error {
	return New(KindInternal, op, format, args...)
}

// NotImplemented reports an algorithm variant with no defined behavior.
func NotImplemented(op string, format string, args ...any) error {
	return New(KindNotImplemented, op, format, args...)
}

// KindOf returns the kind of the first [Error] in err's chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// Is reports whether err's chain contains an [Error] of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
