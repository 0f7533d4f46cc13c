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

// Package watch wraps fsnotify with per-path debouncing.
//
// Editors and build tools hit a file several times in quick
// succession; the watcher coalesces such bursts into one Event per
// path and delivers them on a channel or into an events.Dispatcher.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/groundworklabs/groundwork/events"
	"github.com/groundworklabs/groundwork/logging"
)

// DefaultDebounce is the coalescing window used when the config does
// not set one.
const DefaultDebounce = 250 * time.Millisecond

// Event is one debounced file change. Op accumulates every operation
// seen for the path during the window.
type Event struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Config tunes a Watcher.
type Config struct {
	// Debounce is the coalescing window; 0 means DefaultDebounce,
	// negative disables debouncing.
	Debounce time.Duration
	// Buffer is the delivery channel capacity.
	Buffer int
}

// Watcher watches files and directories and delivers debounced
// events.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	out      chan Event

	mu      sync.Mutex
	pending map[string]*pendingEvent
	closed  bool
	done    chan struct{}
}

type pendingEvent struct {
	op    fsnotify.Op
	timer *time.Timer
}

// New creates a started watcher. Paths are added with Add.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	buffer := cfg.Buffer
	if buffer < 1 {
		buffer = 64
	}

	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		out:      make(chan Event, buffer),
		pending:  make(map[string]*pendingEvent),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add starts watching a file or directory.
func (w *Watcher) Add(path string) error {
	return w.fs.Add(path)
}

// Remove stops watching a path.
func (w *Watcher) Remove(path string) error {
	return w.fs.Remove(path)
}

// Events is the delivery channel. It closes when the watcher closes.
func (w *Watcher) Events() <-chan Event {
	return w.out
}

// Close shuts the watcher down, flushes pending events and closes the
// event channel. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done

	// Flush whatever was still being debounced.
	w.mu.Lock()
	for path, pe := range w.pending {
		pe.timer.Stop()
		w.emit(Event{Path: path, Op: pe.op, At: time.Now()})
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.out)
	return err
}

// run consumes the fsnotify channels until they close.
func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.observe(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Warn("watch: %v", err)
		}
	}
}

// observe folds an fsnotify event into the pending set, arming the
// debounce timer on first sight of a path.
func (w *Watcher) observe(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce < 0 {
		w.emit(Event{Path: ev.Name, Op: ev.Op, At: time.Now()})
		return
	}

	if pe, ok := w.pending[ev.Name]; ok {
		pe.op |= ev.Op
		return
	}

	pe := &pendingEvent{op: ev.Op}
	path := ev.Name
	pe.timer = time.AfterFunc(w.debounce, func() { w.flush(path) })
	w.pending[path] = pe
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pe, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)
	w.emit(Event{Path: path, Op: pe.op, At: time.Now()})
}

// emit delivers without blocking; a full buffer drops the event with a
// warning. Callers hold w.mu.
func (w *Watcher) emit(ev Event) {
	select {
	case w.out <- ev:
	default:
		logging.Warn("watch: event buffer full, dropping event for %s", ev.Path)
	}
}

// NotifyDispatcher forwards the watcher's events into an event
// dispatcher until the watcher closes or ctx is canceled. It runs in
// its own goroutine and returns immediately.
func (w *Watcher) NotifyDispatcher(ctx context.Context, d *events.Dispatcher) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.out:
				if !ok {
					return
				}
				if err := d.Dispatch(ctx, ev); err != nil {
					logging.Error("watch: dispatching event for %s: %v", ev.Path, err)
				}
			}
		}
	}()
}
