// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package store implements the thread-safe, compound-keyed typed blob cache
// that backs UI state: current page, background color, the latest API
// record, and the quit flag. Every read and write copies its payload so
// callers own what they pass in and what they get back.
package store

import (
	"path"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

const (
	maxTypeNameLen = 64
	maxIDLen       = 128
	maxItemBytes   = 1 << 20 // 1 MiB
)

// TypePolicy configures how entries of one type_name behave.
type TypePolicy struct {
	MaxItemsPerKey   int // distinct ids retained per type_name before eviction.
	RetentionSeconds int // 0 means entries never expire by age.
	CacheEnabled     bool
}

// DefaultPolicy is applied to any type_name that was never registered.
var DefaultPolicy = TypePolicy{MaxItemsPerKey: 1, RetentionSeconds: 0, CacheEnabled: true}

type entry struct {
	data      []byte
	size      int
	createdAt time.Time
}

func (e *entry) expired(policy TypePolicy) bool {
	if policy.RetentionSeconds <= 0 {
		return false
	}
	return time.Since(e.createdAt) > time.Duration(policy.RetentionSeconds)*time.Second
}

type bucket struct {
	policy TypePolicy
	byID   *lru.Cache[string, *entry]
	order  []string // insertion order, for deterministic wildcard iteration.
}

func newBucket(policy TypePolicy) *bucket {
	cap := policy.MaxItemsPerKey
	if cap < 1 {
		cap = 1
	}
	c, _ := lru.New[string, *entry](cap)
	return &bucket{policy: policy, byID: c}
}

// Store is the compound-keyed state store. Use New.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	scope   *errs.Scope
}

// New creates an empty Store.
func New(scope *errs.Scope) *Store {
	return &Store{buckets: make(map[string]*bucket), scope: scope}
}

// RegisterType sets the per-type_name policy. Existing entries for the type
// are carried over, newest-first, up to the new capacity.
func (s *Store) RegisterType(typeName string, policy TypePolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := newBucket(policy)
	if old, ok := s.buckets[typeName]; ok {
		for _, id := range old.order {
			if e, ok := old.byID.Get(id); ok {
				next.byID.Add(id, e)
				next.order = append(next.order, id)
			}
		}
	}
	s.buckets[typeName] = next
}

func (s *Store) policyFor(typeName string) TypePolicy {
	if b, ok := s.buckets[typeName]; ok {
		return b.policy
	}
	return DefaultPolicy
}

// Set validates and copies bytes into the store under (typeName, id),
// timestamping the entry and evicting the oldest entry for that type_name
// if it now exceeds max_items_per_key. It also opportunistically removes
// one expired entry, anywhere in the store, as a garbage-collection pass.
func (s *Store) Set(typeName, id string, data []byte) error {
	if len(typeName) == 0 || len(typeName) > maxTypeNameLen {
		return errs.New(s.scope, errs.InvalidArgument, "store.Set:type_name", nil)
	}
	if len(id) == 0 || len(id) > maxIDLen {
		return errs.New(s.scope, errs.InvalidArgument, "store.Set:id", nil)
	}
	if len(data) > maxItemBytes {
		return errs.New(s.scope, errs.InvalidArgument, "store.Set:size", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[typeName]
	if !ok {
		b = newBucket(DefaultPolicy)
		s.buckets[typeName] = b
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	e := &entry{data: copied, size: len(copied), createdAt: time.Now()}

	evicted := b.byID.Add(id, e)
	b.order = appendOnce(b.order, id)
	if evicted {
		b.order = removeEvicted(b.order, b.byID)
	}

	s.gcOne()
	return nil
}

// appendOnce keeps an id at the back of order, moving it there if present.
func appendOnce(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			order = append(order[:i], order[i+1:]...)
			break
		}
	}
	return append(order, id)
}

// removeEvicted drops ids from order that the LRU no longer tracks.
func removeEvicted(order []string, c *lru.Cache[string, *entry]) []string {
	out := order[:0]
	for _, id := range order {
		if c.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// gcOne removes the first expired entry it finds across all buckets. Called
// opportunistically from Set, matching the reference design's "during any
// set, remove one expired entry if found".
func (s *Store) gcOne() {
	for _, b := range s.buckets {
		if b.policy.RetentionSeconds <= 0 {
			continue
		}
		for _, id := range b.order {
			if e, ok := b.byID.Peek(id); ok && e.expired(b.policy) {
				b.byID.Remove(id)
				b.order = removeEvicted(b.order, b.byID)
				return
			}
		}
	}
}

// Get returns a fresh copy of the bytes stored under (typeName, id) plus
// the timestamp they were stored at. ok is false if no entry exists or the
// entry has expired per its type's retention policy (an expired entry is
// evicted as a side effect, matching "treat as not_found after eviction").
func (s *Store) Get(typeName, id string) (data []byte, storedAt time.Time, ok bool) {
	s.mu.RLock()
	b, exists := s.buckets[typeName]
	if !exists {
		s.mu.RUnlock()
		return nil, time.Time{}, false
	}
	e, found := b.byID.Peek(id)
	s.mu.RUnlock()
	if !found {
		return nil, time.Time{}, false
	}
	if e.expired(b.policy) {
		s.mu.Lock()
		b.byID.Remove(id)
		b.order = removeEvicted(b.order, b.byID)
		s.mu.Unlock()
		return nil, time.Time{}, false
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, e.createdAt, true
}

// Visitor is called once per matching (typeName, id, data, storedAt) during
// IterateWildcard. Returning false stops iteration early.
type Visitor func(typeName, id string, data []byte, storedAt time.Time) bool

// IterateWildcard visits entries whose compound key matches pattern, a
// "type_glob:id_glob" string using '*' wildcards (path.Match semantics),
// under a read lock.
func (s *Store) IterateWildcard(pattern string, visit Visitor) error {
	typeGlob, idGlob, ok := strings.Cut(pattern, ":")
	if !ok {
		return errs.New(s.scope, errs.InvalidArgument, "store.IterateWildcard:pattern", nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for typeName, b := range s.buckets {
		matchType, err := path.Match(typeGlob, typeName)
		if err != nil || !matchType {
			continue
		}
		for _, id := range b.order {
			matchID, err := path.Match(idGlob, id)
			if err != nil || !matchID {
				continue
			}
			e, found := b.byID.Peek(id)
			if !found || e.expired(b.policy) {
				continue
			}
			out := make([]byte, len(e.data))
			copy(out, e.data)
			if !visit(typeName, id, out, e.createdAt) {
				return nil
			}
		}
	}
	return nil
}
