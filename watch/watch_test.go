/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2026 The Groundwork Authors

This file is part of Groundwork.

Groundwork is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Groundwork is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Groundwork. If not, see https://www.gnu.org/licenses/.
*/

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/groundworklabs/groundwork/events"
)

func newTestWatcher(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("event channel closed before an event arrived")
		}
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatcherDeliversWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, Config{Debounce: 50 * time.Millisecond})
	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if err := os.WriteFile(path, []byte("a: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w, 5*time.Second)
	if ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
	if !ev.Op.Has(fsnotify.Write) {
		t.Errorf("event op = %v, want a write", ev.Op)
	}
	if ev.At.IsZero() {
		t.Error("event timestamp is zero")
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burst.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, Config{Debounce: 200 * time.Millisecond})
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	ev := waitEvent(t, w, 5*time.Second)
	if ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}

	// The burst fits inside one window, so no second event should
	// follow for a while.
	select {
	case extra := <-w.Events():
		t.Errorf("unexpected second event: %+v", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w := newTestWatcher(t, Config{})
	if err := w.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("event channel still open after Close")
	}
}

func TestNotifyDispatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, Config{Debounce: 50 * time.Millisecond})
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	d := events.NewDispatcher(events.DirectExecutor{})
	var (
		mu  sync.Mutex
		got []Event
	)
	done := make(chan struct{})
	_, err := d.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.NotifyDispatcher(ctx, d)

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatched event")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 || got[0].Path != path {
		t.Errorf("dispatched events = %+v, want one for %q", got, path)
	}
}
