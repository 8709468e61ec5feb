// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package errcode defines the stable error identifiers shared by the
// registry, the shared buses and the drivers.
//
// Every error returned by this module can be classified with Of(), so an
// application can tell a structural configuration problem (PinInUse,
// UnknownSocket) from a hardware fault (Timeout) or a missing capability
// (Unsupported) without string matching.
package errcode

import "errors"

// Code is a stable error identifier.
//
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes.
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	Closed        Code = "closed"

	UnknownSocket Code = "unknown_socket"
	UnknownPin    Code = "unknown_pin"
	PinInUse      Code = "pin_in_use"
	NotDetected   Code = "not_detected"
	Timeout       Code = "timeout"

	Error Code = "error" // generic fallback
)

// E wraps a Code with the operation that failed, a human readable message
// and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the cause, if any.
func (e *E) Unwrap() error { return e.Err }

// Code returns the error's Code.
func (e *E) Code() Code { return e.C }

// Is reports whether target is the Code carried by e.
//
// This makes errors.Is(err, errcode.Timeout) work through any wrapping.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New returns an *E for op with a message.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap returns an *E for op wrapping err. It returns nil if err is nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// Retryable reports whether retrying the failed operation can ever help.
//
// Pin conflicts, unknown sockets, undetected devices and unsupported
// operations are structural and never are. Nothing in this module retries on
// its own; the decision is left to the application.
func Retryable(err error) bool {
	switch Of(err) {
	case Timeout, Error:
		return true
	}
	return false
}
