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

// Package proc runs OS processes with bounded output and deadlines,
// and tracks unfinished processes for external destruction.
package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/groundworklabs/groundwork/iostreams"
)

const (
	// DefaultTimeout bounds a run when neither the command nor the
	// executor sets one.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxOutput caps captured combined output.
	DefaultMaxOutput = 1 << 20 // 1 MiB
)

// Command describes one process to run.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env entries are appended to the parent environment.
	Env []string
	// Timeout bounds the run; 0 falls back to the executor default.
	Timeout time.Duration
	// MaxOutput caps captured combined output in bytes; 0 falls back
	// to the executor default.
	MaxOutput int
}

// Result is the outcome of a completed run. A non-zero exit code is a
// result, not an error.
type Result struct {
	ExitCode  int
	Output    string
	Duration  time.Duration
	TimedOut  bool
	Truncated bool
}

// Executor runs commands with default bounds applied to every run.
type Executor struct {
	DefaultTimeout time.Duration
	MaxOutput      int
}

// NewExecutor creates an executor with the package defaults.
func NewExecutor() *Executor {
	return &Executor{
		DefaultTimeout: DefaultTimeout,
		MaxOutput:      DefaultMaxOutput,
	}
}

// Run executes the command and waits for it. The process is killed
// when the deadline passes; the partial output captured so far is
// still returned, with TimedOut set. Failing to start is an error;
// exiting non-zero is not.
func (e *Executor) Run(ctx context.Context, c Command) (*Result, error) {
	if c.Path == "" {
		return nil, errors.New("proc: empty command path")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = e.DefaultTimeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := c.MaxOutput
	if maxOutput <= 0 {
		maxOutput = e.MaxOutput
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	out := iostreams.NewLimitWriter(maxOutput)
	cmd.Stdout = out
	cmd.Stderr = out
	setSysProcAttr(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("proc: starting %s: %w", c.Path, err)
	}

	waitErr := cmd.Wait()

	res := &Result{
		Output:    out.String(),
		Duration:  time.Since(start),
		TimedOut:  runCtx.Err() == context.DeadlineExceeded,
		Truncated: out.Truncated(),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		case res.TimedOut:
			res.ExitCode = -1
		default:
			return nil, fmt.Errorf("proc: waiting for %s: %w", c.Path, waitErr)
		}
	}
	return res, nil
}
