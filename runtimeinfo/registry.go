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

package runtimeinfo

import (
	"context"

	"github.com/groundworklabs/groundwork/logging"
)

// Reader produces attributes for one management area.
type Reader interface {
	Name() string
	Read(ctx context.Context) ([]Attribute, error)
}

// Registry holds active readers keyed by name.
type Registry struct {
	Readers map[string]Reader
}

// DefaultSources lists every built-in reader name.
func DefaultSources() []string {
	return []string{"goruntime", "host", "cpu", "mem"}
}

// NewRegistry initializes and registers the readers named in sources.
// Unknown names are logged and skipped.
func NewRegistry(sources []string) *Registry {
	reg := &Registry{Readers: make(map[string]Reader)}

	for _, name := range sources {
		switch name {
		case "goruntime":
			reg.Readers["goruntime"] = NewGoRuntimeReader()
		case "host":
			reg.Readers["host"] = NewHostReader()
		case "cpu":
			reg.Readers["cpu"] = NewCPUReader()
		case "mem":
			reg.Readers["mem"] = NewMemReader()
		default:
			logging.Warn("runtimeinfo: unknown reader %q (skipping)", name)
		}
	}
	logging.Debug("runtimeinfo: loaded %d readers", len(reg.Readers))

	return reg
}

// Snapshot runs all readers and returns the combined attributes.
// A reader failure is logged and skipped; the snapshot carries
// whatever the remaining readers produced.
func (r *Registry) Snapshot(ctx context.Context) []Attribute {
	var all []Attribute

	for name, reader := range r.Readers {
		attrs, err := reader.Read(ctx)
		if err != nil {
			logging.Error("runtimeinfo: reader %s failed: %v", name, err)
			continue
		}
		all = append(all, attrs...)
	}
	return all
}
