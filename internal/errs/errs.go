// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package errs implements the error taxonomy and propagation policy
// described in the runtime's error handling design: every fallible
// operation returns a Kind plus a short context string, recoverable
// failures are handled locally, and fatal failures are surfaced for a
// supervisor restart.
package errs

import "fmt"

// Kind classifies a failure so callers and the notification channel can
// decide how to react without string-matching error text.
type Kind int

const (
	InvalidArgument Kind = iota
	OutOfMemory
	NotFound
	AlreadyExists
	InvalidState
	QueueFull
	RenderFailed
	DisplayInitFailed
	DisplayDisconnected
	InputDeviceUnavailable
	PermissionDenied
	Timeout
	Network
	Parse
	IO
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case OutOfMemory:
		return "out-of-memory"
	case NotFound:
		return "not-found"
	case AlreadyExists:
		return "already-exists"
	case InvalidState:
		return "invalid-state"
	case QueueFull:
		return "queue-full"
	case RenderFailed:
		return "render-failed"
	case DisplayInitFailed:
		return "display-init-failed"
	case DisplayDisconnected:
		return "display-disconnected"
	case InputDeviceUnavailable:
		return "input-device-unavailable"
	case PermissionDenied:
		return "permission-denied"
	case Timeout:
		return "timeout"
	case Network:
		return "network"
	case Parse:
		return "parse"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error carries a Kind plus a short context string (the function name and
// the key/id involved) and optionally wraps an underlying cause.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Context, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error and records it in the calling scope's last-error
// slot, mirroring the reference design's thread-local diagnostic aid.
func New(scope *Scope, kind Kind, context string, cause error) *Error {
	e := &Error{Kind: kind, Context: context, Cause: cause}
	if scope != nil {
		scope.record(e)
	}
	return e
}

// Fatal reports whether a Kind is defined as fatal: display-disconnected
// after initialization, out-of-memory, or loss of display master (modeled
// here as DisplayDisconnected since both end the process for supervisor
// restart).
func (k Kind) Fatal() bool {
	return k == DisplayDisconnected || k == OutOfMemory
}

// Severity classes for the user-visible notification channel.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "error"
	}
}

// SeverityFor derives the notification severity for a Kind per the policy
// table: parameter and network errors are warnings, memory and display
// errors are critical, everything else is a plain error.
func SeverityFor(k Kind) Severity {
	switch k {
	case InvalidArgument, Network:
		return SeverityWarning
	case OutOfMemory, DisplayInitFailed, DisplayDisconnected:
		return SeverityCritical
	default:
		return SeverityError
	}
}
