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

// Package provider implements a priority-ordered provider registry.
//
// It is the discovery mechanism used across the library: logging
// backends and process-id resolvers register themselves here and the
// highest-priority usable provider wins.
package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registration holds a single registered provider together with the
// name and priority it was registered under.
type Registration[T any] struct {
	Name     string
	Priority int
	Value    T

	seq int
}

// Registry is a thread-safe collection of providers of a common type.
// Providers are kept sorted by descending priority; ties keep their
// registration order.
type Registry[T any] struct {
	kind string

	mu   sync.Mutex
	regs []Registration[T]
	next int
}

// NewRegistry creates an empty registry. The kind string names what the
// registry holds and is used in error messages only.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind}
}

// Register adds a provider under the given name and priority.
// It returns an error if the name is empty or already taken.
func (r *Registry[T]) Register(name string, priority int, value T) error {
	if name == "" {
		return fmt.Errorf("provider: empty %s name", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.regs {
		if reg.Name == name {
			return fmt.Errorf("provider: %s %q already registered", r.kind, name)
		}
	}

	r.regs = append(r.regs, Registration[T]{
		Name:     name,
		Priority: priority,
		Value:    value,
		seq:      r.next,
	})
	r.next++

	sort.SliceStable(r.regs, func(i, j int) bool {
		if r.regs[i].Priority != r.regs[j].Priority {
			return r.regs[i].Priority > r.regs[j].Priority
		}
		return r.regs[i].seq < r.regs[j].seq
	})
	return nil
}

// MustRegister is Register but panics on error. Intended for package
// init time registration where a failure is a programming mistake.
func (r *Registry[T]) MustRegister(name string, priority int, value T) {
	if err := r.Register(name, priority, value); err != nil {
		panic(err)
	}
}

// List returns a snapshot of all registrations sorted by priority,
// highest first. Mutating the returned slice does not affect the
// registry.
func (r *Registry[T]) List() []Registration[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Registration[T], len(r.regs))
	copy(out, r.regs)
	return out
}

// Lookup returns the provider registered under name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.regs {
		if reg.Name == name {
			return reg.Value, true
		}
	}
	var zero T
	return zero, false
}

// Resolve walks the registrations in priority order and returns the
// first provider the usable predicate accepts. A nil predicate accepts
// every provider. It returns an error naming the registry kind when no
// provider qualifies.
func (r *Registry[T]) Resolve(usable func(Registration[T]) bool) (T, error) {
	for _, reg := range r.List() {
		if usable == nil || usable(reg) {
			return reg.Value, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("provider: no usable %s among %d registered", r.kind, r.Len())
}

// Len returns the number of registered providers.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}
