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

// Package events implements typed event dispatch.
//
// Listeners are plain functions. The event type a listener receives is
// discovered by reflecting over the function signature, so subscribing
// looks like:
//
//	unsub, err := d.Subscribe(func(e ConfigChanged) { ... })
//
// Dispatch delivers an event to every listener whose declared event
// type is assignable from the event's dynamic type: a listener on an
// interface type receives every event implementing it. Listeners run
// in ascending priority order, either in the caller's goroutine
// (DirectExecutor) or on a worker pool (PoolExecutor).
package events

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/groundworklabs/groundwork/logging"
)

// Unsubscribe removes the subscription it was returned for. Calling it
// more than once is harmless.
type Unsubscribe func()

// Listenable is the capability of accepting typed event listeners.
// Dispatcher implements it, and types that emit events can provide it
// by embedding a Notifier.
type Listenable interface {
	Subscribe(handler any, opts ...Option) (Unsubscribe, error)
}

// Option adjusts a single subscription.
type Option func(*subscription)

// WithPriority sets the subscription priority. Listeners are invoked
// in ascending priority order; the default is 0.
func WithPriority(p int) Option {
	return func(s *subscription) { s.priority = p }
}

// WithFilter attaches a predicate evaluated against each event at
// dispatch time. When it returns false the listener is skipped.
func WithFilter(keep func(event any) bool) Option {
	return func(s *subscription) { s.filter = keep }
}

type subscription struct {
	id       uuid.UUID
	typ      reflect.Type
	priority int
	seq      int
	filter   func(any) bool
	fn       reflect.Value
	wantsCtx bool
}

// invoke calls the listener function. Panics from listener code are
// logged and swallowed so one listener cannot take down dispatch.
func (s *subscription) invoke(ctx context.Context, event any) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("events: listener for %s panicked: %v", s.typ, r)
		}
	}()

	args := make([]reflect.Value, 0, 2)
	if s.wantsCtx {
		args = append(args, reflect.ValueOf(ctx))
	}
	args = append(args, reflect.ValueOf(event))
	s.fn.Call(args)
}

// Dispatcher registers listeners keyed by their reflected event type
// and delivers events to them.
type Dispatcher struct {
	exec Executor

	mu   sync.Mutex
	subs map[reflect.Type][]*subscription
	next int
}

// NewDispatcher creates a dispatcher using the given execution model.
// A nil executor means direct dispatch in the caller's goroutine.
func NewDispatcher(exec Executor) *Dispatcher {
	if exec == nil {
		exec = DirectExecutor{}
	}
	return &Dispatcher{
		exec: exec,
		subs: make(map[reflect.Type][]*subscription),
	}
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Subscribe registers a listener function. The handler must be
// func(E) or func(context.Context, E) with no return values; E is the
// event type the listener is keyed under.
func (d *Dispatcher) Subscribe(handler any, opts ...Option) (Unsubscribe, error) {
	typ, fn, wantsCtx, err := inspectHandler(handler)
	if err != nil {
		return nil, err
	}

	sub := &subscription{
		id:       uuid.New(),
		typ:      typ,
		fn:       fn,
		wantsCtx: wantsCtx,
	}
	for _, opt := range opts {
		opt(sub)
	}

	d.mu.Lock()
	sub.seq = d.next
	d.next++
	d.subs[typ] = append(d.subs[typ], sub)
	d.mu.Unlock()

	return func() { d.remove(sub) }, nil
}

// inspectHandler validates the handler signature and extracts the
// event type it listens for.
func inspectHandler(handler any) (reflect.Type, reflect.Value, bool, error) {
	if handler == nil {
		return nil, reflect.Value{}, false, errors.New("events: nil handler")
	}
	fn := reflect.ValueOf(handler)
	t := fn.Type()
	if t.Kind() != reflect.Func {
		return nil, reflect.Value{}, false, fmt.Errorf("events: handler must be a func, got %T", handler)
	}
	if t.NumOut() != 0 {
		return nil, reflect.Value{}, false, fmt.Errorf("events: handler %s must not return values", t)
	}

	switch t.NumIn() {
	case 1:
		return t.In(0), fn, false, nil
	case 2:
		if t.In(0) != ctxType {
			return nil, reflect.Value{}, false, fmt.Errorf("events: handler %s first parameter must be context.Context", t)
		}
		return t.In(1), fn, true, nil
	default:
		return nil, reflect.Value{}, false, fmt.Errorf("events: handler %s must take (event) or (ctx, event)", t)
	}
}

func (d *Dispatcher) remove(sub *subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.subs[sub.typ]
	for i, s := range list {
		if s.id == sub.id {
			d.subs[sub.typ] = append(list[:i], list[i+1:]...)
			if len(d.subs[sub.typ]) == 0 {
				delete(d.subs, sub.typ)
			}
			return
		}
	}
}

// Dispatch delivers event to all matching listeners in ascending
// priority order. With a pool executor it returns once every
// invocation has been handed to the pool.
func (d *Dispatcher) Dispatch(ctx context.Context, event any) error {
	if event == nil {
		return errors.New("events: nil event")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	et := reflect.TypeOf(event)

	// Snapshot matching subscriptions; listener code must not run
	// under the dispatcher mutex.
	d.mu.Lock()
	var matched []*subscription
	for typ, list := range d.subs {
		if et.AssignableTo(typ) {
			matched = append(matched, list...)
		}
	}
	d.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].priority != matched[j].priority {
			return matched[i].priority < matched[j].priority
		}
		return matched[i].seq < matched[j].seq
	})

	for _, sub := range matched {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		sub := sub
		d.exec.Execute(func() { sub.invoke(ctx, event) })
	}
	return nil
}

// Len returns the number of active subscriptions, across all event
// types.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, list := range d.subs {
		n += len(list)
	}
	return n
}

// Notifier is an embeddable Listenable for types that emit their own
// events:
//
//	type Store struct {
//	    events.Notifier
//	}
//
//	func (s *Store) save(...) {
//	    ...
//	    s.Notify(ctx, Saved{Key: key})
//	}
//
// The zero value is ready to use and dispatches directly.
type Notifier struct {
	once sync.Once
	d    *Dispatcher
}

func (n *Notifier) dispatcher() *Dispatcher {
	n.once.Do(func() { n.d = NewDispatcher(nil) })
	return n.d
}

// Subscribe implements Listenable.
func (n *Notifier) Subscribe(handler any, opts ...Option) (Unsubscribe, error) {
	return n.dispatcher().Subscribe(handler, opts...)
}

// Notify dispatches an event to the subscribed listeners.
func (n *Notifier) Notify(ctx context.Context, event any) error {
	return n.dispatcher().Dispatch(ctx, event)
}
