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

// Package groundwork is a general-purpose runtime-support library.
//
// It is consumed by other Go programs as a dependency, not an end-user
// system. The module is organized as small, independent packages:
//
//   - provider: priority-ordered provider registry used for backend and
//     strategy discovery across the library.
//   - logging: a logging facade with pluggable backends (zerolog,
//     journald, standard log, no-op), selected by priority.
//   - events: typed event dispatch with listener registration keyed by
//     the reflected event type, priority-sorted delivery and a choice
//     of direct or pooled execution.
//   - artifact: resolution of dependency metadata (module group, name,
//     version, location) from build info, binaries and properties
//     files, plus checksum and PGP signature verification.
//   - runtimeinfo: readers over the Go runtime and the host system that
//     produce attribute snapshots (uptime, memory, goroutines, CPU).
//   - procid: process-id resolution via prioritized strategies.
//   - proc: process execution with timeouts and a manager that tracks
//     unfinished processes for external destruction.
//   - beans: struct property introspection (list, get, set by name).
//   - watch: debounced file-watch wrappers over fsnotify.
//   - iostreams: bounded IO helpers and file tail-following.
//   - config: yaml configuration loading with environment overrides.
//
// A small diagnostic CLI lives in cmd/groundworkctl.
package groundwork
