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
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	backends.MustRegister("zerolog", 100, zerologBackend{})
}

// zerologBackend is the default backend: console output on stderr plus
// optional app and error log files.
type zerologBackend struct{}

func (zerologBackend) Available() bool { return true }

// Open builds a zerolog-backed logger. The app log file receives all
// output, the error log file only warn and above.
func (zerologBackend) Open(cfg Config) (Logger, error) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}

	if cfg.AppLogFile != "" {
		f, err := os.OpenFile(cfg.AppLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open app log file: %w", err)
		}
		writers = append(writers, f)
	}
	if cfg.ErrorLogFile != "" {
		f, err := os.OpenFile(cfg.ErrorLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open error log file: %w", err)
		}
		writers = append(writers, &minLevelWriter{w: f, min: zerolog.WarnLevel})
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerologLevel(ParseLevel(cfg.Level))).
		With().Timestamp().Logger()

	return &zerologLogger{l: l}, nil
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
func (z *zerologLogger) Info(format string, args ...any)  { z.l.Info().Msgf(format, args...) }
func (z *zerologLogger) Warn(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z *zerologLogger) Error(format string, args ...any) { z.l.Error().Msgf(format, args...) }

// minLevelWriter drops events below min. Used for the error log file.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m *minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m *minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
