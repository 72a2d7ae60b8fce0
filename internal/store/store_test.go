// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package store

import (
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	s := New(nil)
	want := []byte("hello")
	if err := s.Set("app", "bg_color", want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, ok := s.Get("app", "bg_color")
	if !ok {
		t.Fatal("want entry present")
	}
	if string(got) != string(want) {
		t.Errorf("want %q, got %q", want, got)
	}
	got[0] = 'X' // mutate the caller's copy.
	got2, _, _ := s.Get("app", "bg_color")
	if string(got2) != "hello" {
		t.Errorf("mutating the returned copy must not affect the store, got %q", got2)
	}
}

func TestIdempotentSetWithDefaultPolicy(t *testing.T) {
	s := New(nil)
	s.Set("app", "current_page", []byte{0})
	_, t1, _ := s.Get("app", "current_page")
	time.Sleep(time.Millisecond)
	s.Set("app", "current_page", []byte{1})
	data, t2, ok := s.Get("app", "current_page")
	if !ok || data[0] != 1 {
		t.Fatalf("want single surviving entry with latest value, got %v ok=%v", data, ok)
	}
	if !t2.After(t1) {
		t.Errorf("want latest timestamp to be newer")
	}
}

func TestMaxItemsPerKeyEviction(t *testing.T) {
	s := New(nil)
	s.RegisterType("session", TypePolicy{MaxItemsPerKey: 2, RetentionSeconds: 0, CacheEnabled: true})
	s.Set("session", "a", []byte("1"))
	s.Set("session", "b", []byte("2"))
	s.Set("session", "c", []byte("3")) // evicts "a", the oldest.

	if _, _, ok := s.Get("session", "a"); ok {
		t.Error("want oldest entry evicted once over capacity")
	}
	if _, _, ok := s.Get("session", "b"); !ok {
		t.Error("want b still present")
	}
	if _, _, ok := s.Get("session", "c"); !ok {
		t.Error("want c still present")
	}
}

func TestRetentionExpiry(t *testing.T) {
	s := New(nil)
	s.RegisterType("api", TypePolicy{MaxItemsPerKey: 1, RetentionSeconds: 0, CacheEnabled: true})
	s.Set("api", "user_data", []byte("ada"))
	// Re-registering carries the entry over into a fresh bucket; a retention
	// of 0 still means it never expires.
	time.Sleep(5 * time.Millisecond)
	s.RegisterType("api", TypePolicy{MaxItemsPerKey: 1, RetentionSeconds: 0, CacheEnabled: true})
	// Manually force an already-expired bucket via a zero-second retention
	// isn't directly expressible (0 means "never"); use a 1-tick window
	// instead and sleep past it.
	s.buckets["api"].policy.RetentionSeconds = 1
	time.Sleep(1100 * time.Millisecond)
	if _, _, ok := s.Get("api", "user_data"); ok {
		t.Error("want entry treated as not-found once it exceeds retention")
	}
}

func TestWildcardIteration(t *testing.T) {
	s := New(nil)
	s.Set("user", "1", []byte("a"))
	s.Set("user", "2", []byte("b"))
	s.Set("device", "1", []byte("c"))

	seen := map[string]bool{}
	s.IterateWildcard("user:*", func(typeName, id string, data []byte, _ time.Time) bool {
		seen[typeName+":"+id] = true
		return true
	})
	if len(seen) != 2 || !seen["user:1"] || !seen["user:2"] {
		t.Errorf("want user:1 and user:2 only, got %v", seen)
	}
}

func TestSizeLimits(t *testing.T) {
	s := New(nil)
	big := make([]byte, maxItemBytes+1)
	if err := s.Set("app", "x", big); err == nil {
		t.Error("want oversized payload rejected")
	}
	longType := make([]byte, maxTypeNameLen+1)
	for i := range longType {
		longType[i] = 'a'
	}
	if err := s.Set(string(longType), "x", []byte("v")); err == nil {
		t.Error("want overlong type_name rejected")
	}
}
