//go:build linux
// +build linux

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

package logging

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/journal"
)

func init() {
	backends.MustRegister("journald", 80, journaldBackend{})
}

// journaldBackend sends log entries to the systemd journal. Since
// zerolog outranks it and is always available, journald is normally
// chosen by setting Config.Backend to "journald".
type journaldBackend struct{}

// Available reports whether the journal socket can be reached.
func (journaldBackend) Available() bool { return journal.Enabled() }

func (journaldBackend) Open(cfg Config) (Logger, error) {
	if !journal.Enabled() {
		return nil, fmt.Errorf("systemd journal socket not available")
	}
	return &journaldLogger{min: ParseLevel(cfg.Level)}, nil
}

type journaldLogger struct {
	min Level
}

func (j *journaldLogger) send(lvl Level, prio journal.Priority, format string, args ...any) {
	if lvl < j.min {
		return
	}
	// Send failures are unreportable from inside the logger; drop them.
	_ = journal.Send(fmt.Sprintf(format, args...), prio, nil)
}

func (j *journaldLogger) Debug(format string, args ...any) {
	j.send(LevelDebug, journal.PriDebug, format, args...)
}

func (j *journaldLogger) Info(format string, args ...any) {
	j.send(LevelInfo, journal.PriInfo, format, args...)
}

func (j *journaldLogger) Warn(format string, args ...any) {
	j.send(LevelWarn, journal.PriWarning, format, args...)
}

func (j *journaldLogger) Error(format string, args ...any) {
	j.send(LevelError, journal.PriErr, format, args...)
}
