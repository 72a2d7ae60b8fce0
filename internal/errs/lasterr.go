// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package errs

import "sync"

// Go has no goroutine-local storage, so the reference design's "thread-local
// last error slot" is modeled as a Scope: a small token each long-lived
// goroutine (the UI loop, the evdev reader, a worker) creates once at
// startup and carries explicitly, the same way the teacher engine threads
// an explicit context through constructors instead of reaching for package
// globals. A nil Scope is a valid no-op, so leaf helpers that don't want to
// participate can pass nil.
type Scope struct {
	mu   sync.Mutex
	last *Error
}

// NewScope creates a fresh diagnostic scope for one long-lived goroutine.
func NewScope() *Scope { return &Scope{} }

func (s *Scope) record(e *Error) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.last = e
	s.mu.Unlock()
}

// Last returns the most recently recorded error in this scope, or nil.
func (s *Scope) Last() *Error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
