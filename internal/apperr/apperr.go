// Package apperr defines the error taxonomy shared by the adapters, the
// narrative gateway and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller.
type Kind string

const (
	KindConfig    Kind = "config"
	KindData      Kind = "data"
	KindTransport Kind = "transport"
	KindMalformed Kind = "upstream-malformed"
	KindUnknown   Kind = "unknown"
)

// ComponentNarrative marks errors raised by the language-model gateway.
const ComponentNarrative = "narrative"

// Error is a classified error. Op names the operation that failed, Component
// the subsystem that raised it.
type Error struct {
	Kind      Kind
	Op        string
	Component string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err. A nil err returns nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Config reports a missing or invalid credential.
func Config(op, format string, args ...any) *Error {
	return New(KindConfig, op, fmt.Sprintf(format, args...))
}

// Data reports that an upstream returned no usable records.
func Data(op, format string, args ...any) *Error {
	return New(KindData, op, fmt.Sprintf(format, args...))
}

// Transport reports a network or non-2xx failure.
func Transport(op string, err error) error {
	return Wrap(KindTransport, op, err)
}

// Malformed reports an upstream payload that failed schema validation.
func Malformed(op, format string, args ...any) *Error {
	return New(KindMalformed, op, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first classified error in the chain.
// Errors implementing Kind() Kind are honoured as well.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromComponent reports whether any classified error in the chain was raised
// by the named component.
func FromComponent(err error, component string) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Component == component {
			return true
		}
		err = e.Err
	}
	return false
}

// WithComponent tags err with a component, classifying it as unknown when it
// carries no kind yet.
func WithComponent(component string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Component == "" {
		e.Component = component
		return err
	}
	return &Error{Kind: KindOf(err), Component: component, Err: err}
}

// UserMessage returns the human-readable part of err without operation
// prefixes.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + UserMessage(e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return UserMessage(e.Err)
	default:
		return string(e.Kind)
	}
}
