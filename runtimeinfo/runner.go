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
	"sync"
	"time"

	"github.com/groundworklabs/groundwork/logging"
)

// DefaultInterval is the snapshot interval used when the runner is
// given none.
const DefaultInterval = 30 * time.Second

// Runner collects attribute snapshots on a fixed interval and hands
// each one to a sink. Readers run on a small worker pool so one slow
// reader does not hold up the rest.
type Runner struct {
	reg      *Registry
	interval time.Duration
	workers  int
	sink     func([]Attribute)
}

// NewRunner creates a runner over reg. A non-positive interval falls
// back to DefaultInterval; workers below 1 run a single worker.
func NewRunner(reg *Registry, interval time.Duration, workers int, sink func([]Attribute)) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{reg: reg, interval: interval, workers: workers, sink: sink}
}

// Run collects snapshots until ctx is done. It blocks.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logging.Info("runtimeinfo: runner started, collecting every %v", r.interval)

	for {
		select {
		case <-ctx.Done():
			logging.Warn("runtimeinfo: runner shutting down...")
			return
		case <-ticker.C:
			r.sink(r.collect(ctx))
		}
	}
}

// collect runs every reader on the worker pool and merges the
// results. Reader failures are logged and skipped, as in Snapshot.
func (r *Runner) collect(ctx context.Context) []Attribute {
	type outcome struct {
		name  string
		attrs []Attribute
		err   error
	}

	jobs := make(chan Reader)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for reader := range jobs {
				attrs, err := reader.Read(ctx)
				results <- outcome{reader.Name(), attrs, err}
			}
		}()
	}

	go func() {
		for _, reader := range r.reg.Readers {
			jobs <- reader
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var all []Attribute
	for res := range results {
		if res.err != nil {
			logging.Error("runtimeinfo: reader %s failed: %v", res.name, res.err)
			continue
		}
		all = append(all, res.attrs...)
	}
	return all
}
