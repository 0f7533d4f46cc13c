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

package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/groundworklabs/groundwork/iostreams"
	"github.com/groundworklabs/groundwork/logging"
)

// ErrUnknownHandle is returned when a manager operation names a
// process it is not tracking.
var ErrUnknownHandle = errors.New("proc: unknown process handle")

// Handle identifies one process the manager is tracking.
type Handle struct {
	ID        string
	PID       int32
	Path      string
	StartedAt time.Time

	cmd  *exec.Cmd
	done chan struct{}

	mu     sync.Mutex
	result *Result
	err    error
}

// Done is closed when the process has exited and been untracked.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ErrStillRunning is returned by Handle.Result while the process has
// not exited yet.
var ErrStillRunning = errors.New("proc: process still running")

// Result returns the outcome once the process has finished. While it
// is still running the error is ErrStillRunning.
func (h *Handle) Result() (*Result, error) {
	select {
	case <-h.done:
	default:
		return nil, ErrStillRunning
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

// Manager starts processes and keeps every unfinished one in a
// concurrent map so that external callers can destroy them.
type Manager struct {
	// GracePeriod is how long Destroy waits between the graceful
	// terminate and the hard kill.
	GracePeriod time.Duration

	exec *Executor

	mu    sync.RWMutex
	procs map[string]*Handle
}

// NewManager creates a manager using the given executor's bounds for
// output capture. A nil executor gets the package defaults.
func NewManager(e *Executor) *Manager {
	if e == nil {
		e = NewExecutor()
	}
	return &Manager{
		GracePeriod: 3 * time.Second,
		exec:        e,
		procs:       make(map[string]*Handle),
	}
}

// Start launches the command without waiting for it and tracks it
// under a fresh handle id. The child is not bound to any context; it
// lives until it exits on its own or Destroy is called. The handle is
// untracked automatically when the process exits.
func (m *Manager) Start(c Command) (*Handle, error) {
	if c.Path == "" {
		return nil, errors.New("proc: empty command path")
	}

	maxOutput := c.MaxOutput
	if maxOutput <= 0 {
		maxOutput = m.exec.MaxOutput
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	out := newManagedOutput(maxOutput)
	cmd.Stdout = out
	cmd.Stderr = out
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("proc: starting %s: %w", c.Path, err)
	}

	h := &Handle{
		ID:        uuid.NewString(),
		PID:       int32(cmd.Process.Pid),
		Path:      c.Path,
		StartedAt: time.Now(),
		cmd:       cmd,
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.procs[h.ID] = h
	m.mu.Unlock()

	go m.reap(h, out)

	logging.Debug("proc: started %s (pid %d, handle %s)", c.Path, h.PID, h.ID)
	return h, nil
}

// reap waits for the process, records the outcome and untracks the
// handle.
func (m *Manager) reap(h *Handle, out *managedOutput) {
	waitErr := h.cmd.Wait()

	res := &Result{
		Output:    out.String(),
		Duration:  time.Since(h.StartedAt),
		Truncated: out.Truncated(),
	}

	var err error
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			err = waitErr
		}
	}

	h.mu.Lock()
	h.result, h.err = res, err
	h.mu.Unlock()

	m.mu.Lock()
	delete(m.procs, h.ID)
	m.mu.Unlock()

	close(h.done)
}

// Running returns the handles of all unfinished processes.
func (m *Manager) Running() []*Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Handle, 0, len(m.procs))
	for _, h := range m.procs {
		out = append(out, h)
	}
	return out
}

// Lookup returns the tracked handle with the given id.
func (m *Manager) Lookup(id string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.procs[id]
	return h, ok
}

// Destroy terminates the process behind the handle id: a graceful
// terminate first, then a process-group kill once the grace period
// expires. It waits until the process is gone or ctx ends.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	h, ok := m.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, id)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if p, err := process.NewProcessWithContext(ctx, h.PID); err == nil {
		if err := p.TerminateWithContext(ctx); err != nil {
			logging.Warn("proc: graceful terminate of pid %d failed: %v", h.PID, err)
		}
	}

	select {
	case <-h.done:
		return nil
	case <-time.After(m.GracePeriod):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := h.kill(); err != nil {
		return err
	}

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// kill hard-kills the process group behind the handle. The process
// may have exited right as the grace period lapsed; that is not an
// error, there is simply nothing left to kill.
func (h *Handle) kill() error {
	select {
	case <-h.done:
		return nil
	default:
	}

	if err := killGroup(h.PID); err != nil {
		// Fall back to killing just the leader.
		if killErr := h.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			return fmt.Errorf("proc: killing pid %d: %w", h.PID, killErr)
		}
	}
	return nil
}

// DestroyAll destroys every unfinished process and returns the first
// error encountered, having tried them all.
func (m *Manager) DestroyAll(ctx context.Context) error {
	var first error
	for _, h := range m.Running() {
		if err := m.Destroy(ctx, h.ID); err != nil && !errors.Is(err, ErrUnknownHandle) {
			if first == nil {
				first = err
			}
			logging.Error("proc: destroying %s (pid %d): %v", h.ID, h.PID, err)
		}
	}
	return first
}

// managedOutput is a LimitWriter safe for concurrent stdout/stderr
// writes from the child process pipes.
type managedOutput struct {
	mu sync.Mutex
	w  *iostreams.LimitWriter
}

func newManagedOutput(max int) *managedOutput {
	return &managedOutput{w: iostreams.NewLimitWriter(max)}
}

func (o *managedOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

func (o *managedOutput) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.String()
}

func (o *managedOutput) Truncated() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Truncated()
}
