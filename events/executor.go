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

package events

import (
	"sync"

	"github.com/groundworklabs/groundwork/logging"
)

// Executor runs listener invocations on behalf of a Dispatcher.
type Executor interface {
	Execute(task func())
}

// DirectExecutor runs tasks in the caller's goroutine. With it,
// listeners run synchronously inside Dispatch and in priority order.
type DirectExecutor struct{}

func (DirectExecutor) Execute(task func()) { task() }

// PoolExecutor runs tasks on a fixed pool of worker goroutines. Tasks
// are picked up in submission order but run concurrently, so there is
// no ordering guarantee across listeners beyond the priority sort at
// dispatch time.
type PoolExecutor struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPoolExecutor starts workers goroutines consuming a queue of the
// given size. Workers and queue sizes below 1 are raised to 1.
func NewPoolExecutor(workers, queue int) *PoolExecutor {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}

	p := &PoolExecutor{tasks: make(chan func(), queue)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
			logging.Debug("events: pool worker #%d shutting down", id)
		}(i + 1)
	}
	return p
}

// Execute queues a task, blocking while the queue is full. Tasks
// submitted after Close are dropped with a warning.
func (p *PoolExecutor) Execute(task func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		logging.Warn("events: pool executor closed, dropping task")
		return
	}
	p.tasks <- task
}

// Close stops accepting tasks, drains the queue and waits for the
// workers to finish. Safe to call more than once.
func (p *PoolExecutor) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
