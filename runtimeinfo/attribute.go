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

// Package runtimeinfo exposes runtime and host management data as
// attribute snapshots.
//
// Readers wrap the Go runtime and gopsutil and produce Attribute
// values, the library's analog of a managed bean attribute: a
// namespaced name, a numeric value, a unit, and descriptive labels.
package runtimeinfo

import (
	"time"

	"github.com/groundworklabs/groundwork/logging"
)

// Attribute is one piece of management data read from the runtime or
// the host.
type Attribute struct {
	Namespace string
	Name      string
	Value     float64
	Unit      string
	Labels    map[string]string
	Timestamp time.Time
}

// NewAttribute builds an Attribute, converting value to float64. The
// conversion accepts the usual numeric types; anything else logs a
// warning and yields 0.
func NewAttribute(namespace, name string, value any, unit string, labels map[string]string, ts time.Time) Attribute {
	return Attribute{
		Namespace: namespace,
		Name:      name,
		Value:     toFloat64(value),
		Unit:      unit,
		Labels:    labels,
		Timestamp: ts,
	}
}

// toFloat64 converts a given value to float64. Unknown types log a
// warning and default to 0.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		logging.Warn("runtimeinfo: toFloat64: unknown type %T, defaulting to 0", v)
		return 0
	}
}
