// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bus

import (
	"errors"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := New(nil)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if _, err := b.Subscribe("weather.temperature", func(name string, payload any) error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
	}
	if err := b.Publish("weather.temperature", 72, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("want [0 1 2], got %v", order)
	}
}

func TestHandlerIsolation(t *testing.T) {
	b := New(nil)
	var h1, h3 bool
	b.Subscribe("x", func(string, any) error { h1 = true; return nil })
	b.Subscribe("x", func(string, any) error { return errors.New("boom") })
	b.Subscribe("x", func(string, any) error { h3 = true; return nil })

	var failed string
	b.Publish("x", nil, func(name string, err error) { failed = name })

	if !h1 || !h3 {
		t.Errorf("want h1 and h3 both called, got h1=%v h3=%v", h1, h3)
	}
	if failed != "x" {
		t.Errorf("want handler error observed for x, got %q", failed)
	}
}

func TestSubscriptionCap(t *testing.T) {
	b := New(nil)
	for i := 0; i < maxHandlersPerName; i++ {
		if _, err := b.Subscribe("weather.temperature", func(string, any) error { return nil }); err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
	}
	if _, err := b.Subscribe("weather.temperature", func(string, any) error { return nil }); err == nil {
		t.Fatal("want queue-full error on 101st subscribe")
	}
	if len(b.handlers["weather.temperature"]) != maxHandlersPerName {
		t.Errorf("want handler list to stay at %d, got %d", maxHandlersPerName, len(b.handlers["weather.temperature"]))
	}

	received := 0
	b.Publish("weather.temperature", nil, nil)
	for range b.handlers["weather.temperature"] {
		received++
	}
	if received != maxHandlersPerName {
		t.Errorf("want %d handlers still registered, got %d", maxHandlersPerName, received)
	}
}

func TestUnsubscribeNotFound(t *testing.T) {
	b := New(nil)
	tok, _ := b.Subscribe("x", func(string, any) error { return nil })
	if err := b.Unsubscribe("x", tok); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := b.Unsubscribe("x", tok); err == nil {
		t.Fatal("want not-found on second unsubscribe of the same token")
	}
}

func TestPublishUnknownNameIsNoop(t *testing.T) {
	b := New(nil)
	if err := b.Publish("nothing.subscribed", 1, nil); err != nil {
		t.Fatalf("publish to unknown name should succeed, got %v", err)
	}
}

type cloneable struct {
	vals []int
}

func (c cloneable) Clone() any {
	out := make([]int, len(c.vals))
	copy(out, c.vals)
	return cloneable{vals: out}
}

func TestPerHandlerCopyIsolation(t *testing.T) {
	b := New(nil)
	b.Subscribe("x", func(_ string, payload any) error {
		c := payload.(cloneable)
		c.vals[0] = 999 // mutate this handler's copy only.
		return nil
	})
	var seenByH2 int
	b.Subscribe("x", func(_ string, payload any) error {
		seenByH2 = payload.(cloneable).vals[0]
		return nil
	})
	b.Publish("x", cloneable{vals: []int{1}}, nil)
	if seenByH2 != 1 {
		t.Errorf("want second handler unaffected by first handler's mutation, got %d", seenByH2)
	}
}
