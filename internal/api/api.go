// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package api is the background data collaborator: it fetches user
// records on a worker thread and publishes them onto the event bus. The
// concrete HTTP client and JSON decoding are deliberately out of scope
// (they are a producer the core only ever sees through the Fetcher
// contract); this package ships a deterministic in-memory Fetcher so the
// runtime has something real to drive end to end.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/store"
)

// UserRecord is the payload shape published on "api.user_data_updated"
// and stored under ("api", "user_data").
type UserRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// RefreshRequest is the payload published on "system.api_refresh".
type RefreshRequest struct {
	Timestamp time.Time
	Source    string
}

// Fetcher is the contract the concrete HTTP/JSON collaborator implements;
// Worker only depends on this.
type Fetcher interface {
	FetchUserData(ctx context.Context) (UserRecord, error)
}

// MockFetcher returns a record from a small fixed pool, standing in for
// the out-of-scope HTTP client during development and tests.
type MockFetcher struct {
	Records []UserRecord
}

// NewMockFetcher returns a MockFetcher seeded with a small sample pool.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Records: []UserRecord{
		{Name: "Ada", Email: "ada@example.com", Phone: "555-0101", Location: "London"},
		{Name: "Grace", Email: "grace@example.com", Phone: "555-0102", Location: "Arlington"},
		{Name: "Katherine", Email: "katherine@example.com", Phone: "555-0103", Location: "Hampton"},
	}}
}

func (f *MockFetcher) FetchUserData(ctx context.Context) (UserRecord, error) {
	if len(f.Records) == 0 {
		return UserRecord{}, fmt.Errorf("mock fetcher has no records")
	}
	return f.Records[rand.Intn(len(f.Records))], nil
}

// Worker listens for "system.api_refresh", calls Fetcher on a background
// goroutine with bounded retry, writes the result into the state store
// (thread-safe), and publishes "api.user_data_updated". Per the
// concurrency model, it never touches the widget tree directly.
type Worker struct {
	fetcher     Fetcher
	bus         *bus.Bus
	store       *store.Store
	retryCount  int
	retryDelay  time.Duration
	timeout     time.Duration
	log         *slog.Logger
	scope       *errs.Scope
	notifier    *errs.Notifier
}

// NewWorker creates a Worker. retryCount/retryDelay/timeout come from
// api.default_retry_count, api.default_retry_delay_ms, api.default_timeout_ms.
func NewWorker(fetcher Fetcher, b *bus.Bus, st *store.Store, retryCount int, retryDelay, timeout time.Duration, notifier *errs.Notifier, log *slog.Logger, scope *errs.Scope) *Worker {
	return &Worker{fetcher: fetcher, bus: b, store: st, retryCount: retryCount, retryDelay: retryDelay, timeout: timeout, notifier: notifier, log: log, scope: scope}
}

// Start subscribes to "system.api_refresh"; each refresh request spawns
// one fetch goroutine.
func (w *Worker) Start() error {
	_, err := w.bus.Subscribe("system.api_refresh", func(name string, payload any) error {
		go w.refresh()
		return nil
	})
	return err
}

// RequestRefresh publishes a refresh request, the same trigger a "Refresh
// User" button or a periodic timer would use.
func (w *Worker) RequestRefresh(source string) {
	w.bus.Publish("system.api_refresh", RefreshRequest{Timestamp: time.Now(), Source: source}, nil)
}

func (w *Worker) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var (
		record UserRecord
		err    error
	)
	attempts := w.retryCount + 1
	for i := 0; i < attempts; i++ {
		record, err = w.fetcher.FetchUserData(ctx)
		if err == nil {
			break
		}
		if i < attempts-1 {
			time.Sleep(w.retryDelay)
		}
	}
	if err != nil {
		w.log.Warn("api refresh failed after retries", "attempts", attempts, "error", err)
		if w.notifier != nil {
			w.notifier.Push(errs.Network, "could not refresh user data")
		}
		return
	}

	data, marshalErr := json.Marshal(record)
	if marshalErr != nil {
		w.log.Warn("api refresh record could not be serialized", "error", marshalErr)
		return
	}
	if err := w.store.Set("api", "user_data", data); err != nil {
		w.log.Warn("api refresh could not write to store", "error", err)
		return
	}
	w.bus.Publish("api.user_data_updated", record, nil)
}
