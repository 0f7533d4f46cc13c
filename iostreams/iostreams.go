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

// Package iostreams provides bounded IO helpers: size-capped reads and
// writes, message truncation, and file tail-following.
package iostreams

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ReadAllLimit reads from r until EOF or until max bytes have been
// collected. The boolean result reports whether input was discarded.
func ReadAllLimit(r io.Reader, max int) ([]byte, bool, error) {
	if max <= 0 {
		return nil, false, fmt.Errorf("iostreams: non-positive limit %d", max)
	}

	buf, err := io.ReadAll(io.LimitReader(r, int64(max)))
	if err != nil {
		return nil, false, err
	}
	if len(buf) < max {
		return buf, false, nil
	}

	// Check whether anything remains past the cap.
	var probe [1]byte
	n, err := r.Read(probe[:])
	if err != nil && err != io.EOF {
		return buf, false, err
	}
	if n > 0 {
		// Drain the rest so pipe writers are not blocked.
		if _, err := io.Copy(io.Discard, r); err != nil {
			return buf, true, err
		}
		return buf, true, nil
	}
	return buf, false, nil
}

// CopyLimit copies at most max bytes from src to dst and reports how
// many were written.
func CopyLimit(dst io.Writer, src io.Reader, max int64) (int64, error) {
	return io.Copy(dst, io.LimitReader(src, max))
}

// DrainClose consumes whatever remains in rc and closes it. Read
// errors win over close errors.
func DrainClose(rc io.ReadCloser) error {
	_, readErr := io.Copy(io.Discard, rc)
	closeErr := rc.Close()
	if readErr != nil {
		return readErr
	}
	return closeErr
}

// TruncateString caps s at max bytes without splitting a UTF-8
// sequence. Strings at or under the cap come back unchanged.
func TruncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Sanitize before truncating, so the boundary back-off below only
	// ever trims a rune split by the cap, never earlier garbage.
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
		if len(s) <= max {
			return s
		}
	}
	cut := s[:max]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// Lines reads r line by line, truncating each line at maxLine bytes.
func Lines(r io.Reader, maxLine int) ([]string, error) {
	var out []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		out = append(out, TruncateString(sc.Text(), maxLine))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LimitWriter collects writes up to a byte cap and silently discards
// the rest, tracking how much was dropped.
type LimitWriter struct {
	buf     bytes.Buffer
	max     int
	dropped int64
}

// NewLimitWriter creates a LimitWriter capped at max bytes.
func NewLimitWriter(max int) *LimitWriter {
	if max < 1 {
		max = 1
	}
	return &LimitWriter{max: max}
}

// Write implements io.Writer. It never fails; excess input is counted
// as dropped.
func (w *LimitWriter) Write(p []byte) (int, error) {
	room := w.max - w.buf.Len()
	if room > 0 {
		n := len(p)
		if n > room {
			n = room
		}
		w.buf.Write(p[:n])
		w.dropped += int64(len(p) - n)
	} else {
		w.dropped += int64(len(p))
	}
	return len(p), nil
}

// String returns the collected prefix.
func (w *LimitWriter) String() string { return w.buf.String() }

// Bytes returns the collected prefix.
func (w *LimitWriter) Bytes() []byte { return w.buf.Bytes() }

// Truncated reports whether any input was discarded.
func (w *LimitWriter) Truncated() bool { return w.dropped > 0 }

// Dropped returns the number of discarded bytes.
func (w *LimitWriter) Dropped() int64 { return w.dropped }
