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

// Package logging is a small logging facade with pluggable backends.
//
// Backends register themselves on a priority-ordered registry. Init
// selects the highest-priority backend that is available on the current
// system and installs it as the process-wide logger. Until Init is
// called (or when no backend is usable) a no-op logger is in place, so
// the package-level functions are always safe to call.
//
// Built-in backends, highest priority first: zerolog, journald (linux,
// when the journal socket is present), the standard library log
// package, and no-op.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/groundworklabs/groundwork/provider"
)

// Logger is the minimal logging surface the facade exposes. All methods
// are printf-style.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config controls backend selection and output.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values fall
	// back to info.
	Level string
	// AppLogFile, when set, receives all log output in addition to the
	// console.
	AppLogFile string
	// ErrorLogFile, when set, receives warn-and-above output.
	ErrorLogFile string
	// Backend forces a specific backend by name instead of the
	// priority-ordered selection.
	Backend string
}

// Backend builds Loggers for one logging implementation.
type Backend interface {
	// Available reports whether the backend can run on this system.
	Available() bool
	// Open builds a Logger for the given config.
	Open(cfg Config) (Logger, error)
}

var backends = provider.NewRegistry[Backend]("logging backend")

// RegisterBackend adds a backend to the selection registry.
func RegisterBackend(name string, priority int, b Backend) error {
	return backends.Register(name, priority, b)
}

// Backends returns the registered backends sorted by priority,
// highest first.
func Backends() []provider.Registration[Backend] {
	return backends.List()
}

// loggerBox keeps the stored concrete type constant regardless of
// which backend's logger is inside, as atomic.Value requires.
type loggerBox struct{ l Logger }

var current atomic.Value // loggerBox

func init() {
	current.Store(loggerBox{noopLogger{}})
}

// Init selects a backend and installs the process-wide logger. When no
// backend is usable, the no-op logger stays installed and the error
// describes what was tried.
func Init(cfg Config) error {
	l, _, err := selectLogger(backends, cfg)
	current.Store(loggerBox{l})
	return err
}

// selectLogger picks a logger from reg for cfg. It returns the chosen
// backend name alongside the logger; on failure the returned logger is
// the no-op logger.
func selectLogger(reg *provider.Registry[Backend], cfg Config) (Logger, string, error) {
	if cfg.Backend != "" {
		b, ok := reg.Lookup(cfg.Backend)
		if !ok {
			return noopLogger{}, "", fmt.Errorf("logging: unknown backend %q", cfg.Backend)
		}
		if !b.Available() {
			return noopLogger{}, "", fmt.Errorf("logging: backend %q not available on this system", cfg.Backend)
		}
		l, err := b.Open(cfg)
		if err != nil {
			return noopLogger{}, "", fmt.Errorf("logging: backend %q failed to open: %w", cfg.Backend, err)
		}
		return l, cfg.Backend, nil
	}

	var tried []string
	for _, r := range reg.List() {
		if !r.Value.Available() {
			continue
		}
		l, err := r.Value.Open(cfg)
		if err != nil {
			tried = append(tried, fmt.Sprintf("%s: %v", r.Name, err))
			continue
		}
		return l, r.Name, nil
	}
	return noopLogger{}, "", fmt.Errorf("logging: no usable backend (tried: %s)", strings.Join(tried, "; "))
}

// Current returns the installed logger. It never returns nil.
func Current() Logger {
	return current.Load().(loggerBox).l
}

// Set installs an explicit logger, bypassing backend selection. A nil
// logger installs the no-op logger.
func Set(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	current.Store(loggerBox{l})
}

// Debug logs through the installed logger.
func Debug(format string, args ...any) { Current().Debug(format, args...) }

// Info logs through the installed logger.
func Info(format string, args ...any) { Current().Info(format, args...) }

// Warn logs through the installed logger.
func Warn(format string, args ...any) { Current().Warn(format, args...) }

// Error logs through the installed logger.
func Error(format string, args ...any) { Current().Error(format, args...) }

// Fatal logs through the installed logger and exits the process.
func Fatal(format string, args ...any) {
	Current().Error(format, args...)
	osExit(1)
}

// osExit is swapped out in tests.
var osExit = os.Exit

// noopLogger discards everything. Installed before Init and after a
// failed selection.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
