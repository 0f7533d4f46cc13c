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
	"runtime"
	"time"
)

// GoRuntimeReader reads attributes out of the Go runtime itself:
// memory statistics, goroutine counts, and scheduler settings.
type GoRuntimeReader struct{}

// NewGoRuntimeReader creates a new GoRuntimeReader instance.
func NewGoRuntimeReader() *GoRuntimeReader {
	return &GoRuntimeReader{}
}

// Name returns the name of the reader.
func (r *GoRuntimeReader) Name() string {
	return "goruntime"
}

// Read gathers runtime attributes. It never fails; the runtime is
// always readable.
func (r *GoRuntimeReader) Read(ctx context.Context) ([]Attribute, error) {
	now := time.Now()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	labels := map[string]string{
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}

	attrs := []Attribute{
		NewAttribute("Runtime", "goroutines", runtime.NumGoroutine(), "count", nil, now),
		NewAttribute("Runtime", "gomaxprocs", runtime.GOMAXPROCS(0), "count", nil, now),
		NewAttribute("Runtime", "cgo_calls", runtime.NumCgoCall(), "count", nil, now),
		NewAttribute("Runtime", "heap_alloc", ms.HeapAlloc, "bytes", nil, now),
		NewAttribute("Runtime", "heap_sys", ms.HeapSys, "bytes", nil, now),
		NewAttribute("Runtime", "heap_objects", ms.HeapObjects, "count", nil, now),
		NewAttribute("Runtime", "stack_sys", ms.StackSys, "bytes", nil, now),
		NewAttribute("Runtime", "gc_cycles", ms.NumGC, "count", nil, now),
		NewAttribute("Runtime", "gc_pause_total", ms.PauseTotalNs, "nanoseconds", nil, now),
		NewAttribute("Runtime", "next_gc", ms.NextGC, "bytes", nil, now),
		NewAttribute("Runtime", "info", 1, "info", labels, now),
	}
	return attrs, nil
}
