// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bus implements the synchronous, named publish/subscribe dispatcher
// that decouples producers (input, API clients, timers) from consumers
// (widgets). Dispatch copies the payload per handler, runs handlers in
// subscription order, and isolates a failing handler from the rest.
package bus

import (
	"sync"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// maxHandlersPerName bounds subscriptions so a leak shows up as an explicit
// queue-full error instead of an unbounded handler list.
const maxHandlersPerName = 100

// Handler receives a per-handler copy of the published payload. Returning an
// error only logs; it never stops the remaining handlers from running.
type Handler func(name string, payload any) error

// Token identifies one subscription so Unsubscribe can remove exactly the
// entry it was given, rather than matching by handler identity (handler
// values are not comparable in Go, and the legacy handler-only match the
// reference design allows is ambiguous when the same function is
// subscribed twice — this implementation picks the stricter token-based
// match called out as preferable in the design notes).
type Token uint64

type subscription struct {
	token   Token
	handler Handler
}

// Bus is the event bus. The zero value is not usable; use New.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]subscription
	nextTok  Token
	scope    *errs.Scope
}

// New creates an empty Bus.
func New(scope *errs.Scope) *Bus {
	return &Bus{handlers: make(map[string][]subscription), scope: scope}
}

// Subscribe registers handler at the end of name's handler list and returns
// a Token for later Unsubscribe. Fails with QueueFull if name already has
// 100 handlers, or InvalidArgument if name is empty.
func (b *Bus) Subscribe(name string, handler Handler) (Token, error) {
	if name == "" {
		return 0, errs.New(b.scope, errs.InvalidArgument, "bus.Subscribe", nil)
	}
	if handler == nil {
		return 0, errs.New(b.scope, errs.InvalidArgument, "bus.Subscribe", nil)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.handlers[name]) >= maxHandlersPerName {
		return 0, errs.New(b.scope, errs.QueueFull, "bus.Subscribe:"+name, nil)
	}
	b.nextTok++
	tok := b.nextTok
	// Copy-on-write: dispatch holds the old slice header while this
	// goroutine builds a new one, so an in-flight publish never observes a
	// torn append.
	old := b.handlers[name]
	next := make([]subscription, len(old), len(old)+1)
	copy(next, old)
	next = append(next, subscription{token: tok, handler: handler})
	b.handlers[name] = next
	return tok, nil
}

// Unsubscribe removes the subscription identified by token from name's
// handler list. Returns errs.NotFound if no such subscription exists.
func (b *Bus) Unsubscribe(name string, token Token) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.handlers[name]
	for i, sub := range old {
		if sub.token == token {
			next := make([]subscription, 0, len(old)-1)
			next = append(next, old[:i]...)
			next = append(next, old[i+1:]...)
			b.handlers[name] = next
			return nil
		}
	}
	return errs.New(b.scope, errs.NotFound, "bus.Unsubscribe:"+name, nil)
}

// Publish copies payload, then invokes every handler registered for name at
// the moment dispatch begins, in subscription order, with a fresh copy per
// handler so one handler's mutation cannot affect another's view. A handler
// that returns an error is logged (via the caller-supplied onHandlerError,
// if set) and does not prevent later handlers from running. Publishing to a
// name with no subscribers is a no-op success. payload must be a value type
// or implement Clone() any; see CopyPayload.
func (b *Bus) Publish(name string, payload any, onHandlerError func(name string, err error)) error {
	if name == "" {
		return errs.New(b.scope, errs.InvalidArgument, "bus.Publish", nil)
	}
	b.mu.Lock()
	subs := b.handlers[name] // reference to the current slice; future
	// Subscribe/Unsubscribe calls build a new slice rather than mutate
	// this one, so iterating it here after unlocking is race-free and
	// matches "unsubscribes during dispatch take effect after the
	// current dispatch".
	b.mu.Unlock()

	for _, sub := range subs {
		copied := CopyPayload(payload)
		if err := sub.handler(name, copied); err != nil && onHandlerError != nil {
			onHandlerError(name, err)
		}
	}
	return nil
}

// CopyPayload returns a value-level copy of payload so a handler's
// mutations cannot leak to other handlers or back to the publisher. Types
// that need deep-copy semantics beyond a plain value copy implement
// Cloner.
func CopyPayload(payload any) any {
	if c, ok := payload.(Cloner); ok {
		return c.Clone()
	}
	return payload
}

// Cloner is implemented by payload types that carry reference fields
// (slices, maps, pointers) needing an explicit deep copy per handler.
type Cloner interface {
	Clone() any
}
