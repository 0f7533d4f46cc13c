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

package iostreams

import (
	"context"
	"io"

	"github.com/nxadm/tail"

	"github.com/groundworklabs/groundwork/logging"
)

// FollowConfig tunes Follow.
type FollowConfig struct {
	// FromEnd starts at the end of the file instead of replaying it.
	FromEnd bool
	// ReOpen keeps following through rotation (tail -F behavior).
	ReOpen bool
	// MaxLine truncates delivered lines at this many bytes; 0 means
	// unlimited.
	MaxLine int
}

// Follow tails the file at path and delivers its lines on the returned
// channel until ctx is canceled or the tail ends. The channel is
// closed when following stops.
func Follow(ctx context.Context, path string, cfg FollowConfig) (<-chan string, error) {
	tcfg := tail.Config{
		Follow: true,
		ReOpen: cfg.ReOpen,
		Logger: tail.DiscardingLogger,
	}
	if cfg.FromEnd {
		tcfg.Location = &tail.SeekInfo{Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer t.Cleanup()

		for {
			select {
			case <-ctx.Done():
				_ = t.Stop()
				return
			case line, ok := <-t.Lines:
				if !ok {
					return
				}
				if line.Err != nil {
					logging.Warn("iostreams: tail error on %s: %v", path, line.Err)
					continue
				}
				text := line.Text
				if cfg.MaxLine > 0 {
					text = TruncateString(text, cfg.MaxLine)
				}
				select {
				case out <- text:
				case <-ctx.Done():
					_ = t.Stop()
					return
				}
			}
		}
	}()
	return out, nil
}
