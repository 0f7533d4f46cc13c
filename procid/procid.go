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

// Package procid resolves the current OS process id through a
// prioritized list of resolver strategies.
//
// On linux the procfs resolver is preferred; the portable getpid
// resolver is always registered as the fallback. The resolved id is
// cached for the lifetime of the process.
package procid

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/groundworklabs/groundwork/logging"
	"github.com/groundworklabs/groundwork/provider"
)

// Resolver is one strategy for finding the current process id.
type Resolver interface {
	// Available reports whether the strategy can work on this system.
	Available() bool
	// Resolve returns the current process id.
	Resolve(ctx context.Context) (int32, error)
}

var resolvers = provider.NewRegistry[Resolver]("process-id resolver")

// RegisterResolver adds a resolver strategy to the registry.
func RegisterResolver(name string, priority int, r Resolver) error {
	return resolvers.Register(name, priority, r)
}

// Resolvers returns the registered strategies sorted by priority,
// highest first.
func Resolvers() []provider.Registration[Resolver] {
	return resolvers.List()
}

var cache struct {
	once sync.Once
	pid  int32
	err  error
}

// Current returns the current process id, walking the resolvers in
// priority order. The first successful result is cached.
func Current(ctx context.Context) (int32, error) {
	cache.once.Do(func() {
		cache.pid, cache.err = resolve(ctx, resolvers)
	})
	return cache.pid, cache.err
}

// resolve tries each available resolver in priority order; failures
// are logged and the next strategy is tried.
func resolve(ctx context.Context, reg *provider.Registry[Resolver]) (int32, error) {
	for _, r := range reg.List() {
		if !r.Value.Available() {
			continue
		}
		pid, err := r.Value.Resolve(ctx)
		if err != nil {
			logging.Warn("procid: resolver %s failed: %v", r.Name, err)
			continue
		}
		logging.Debug("procid: resolved pid %d via %s", pid, r.Name)
		return pid, nil
	}
	return 0, fmt.Errorf("procid: no resolver produced a process id")
}

func init() {
	resolvers.MustRegister("pshandle", 120, handleResolver{})
	// The portable fallback. Strategy-specific resolvers outrank it.
	resolvers.MustRegister("getpid", 10, getpidResolver{})
}

// handleResolver confirms the pid through a gopsutil process handle,
// so a bogus id surfaces here instead of at first use.
type handleResolver struct{}

func (handleResolver) Available() bool { return true }

func (handleResolver) Resolve(ctx context.Context) (int32, error) {
	pid := int32(os.Getpid())
	if _, err := process.NewProcessWithContext(ctx, pid); err != nil {
		return 0, fmt.Errorf("procid: no process handle for pid %d: %w", pid, err)
	}
	return pid, nil
}

// getpidResolver wraps os.Getpid. It cannot fail.
type getpidResolver struct{}

func (getpidResolver) Available() bool { return true }

func (getpidResolver) Resolve(context.Context) (int32, error) {
	return int32(os.Getpid()), nil
}

// CurrentProcess returns a gopsutil handle for the resolved pid.
func CurrentProcess(ctx context.Context) (*process.Process, error) {
	pid, err := Current(ctx)
	if err != nil {
		return nil, err
	}
	return process.NewProcessWithContext(ctx, pid)
}

// Info describes the current process, best effort: fields the system
// refuses to report stay zero.
type Info struct {
	PID        int32
	PPID       int32
	Executable string
	Cmdline    string
	User       string
	StartTime  time.Time
}

// CurrentInfo resolves the current pid and fills in process details
// via gopsutil. Only the pid itself is mandatory; everything else is
// collected opportunistically.
func CurrentInfo(ctx context.Context) (*Info, error) {
	pid, err := Current(ctx)
	if err != nil {
		return nil, err
	}

	info := &Info{PID: pid}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		logging.Warn("procid: process details unavailable for pid %d: %v", pid, err)
		return info, nil
	}

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		info.PPID = ppid
	}
	if exe, err := p.ExeWithContext(ctx); err == nil {
		info.Executable = exe
	}
	if cl, err := p.CmdlineWithContext(ctx); err == nil {
		info.Cmdline = cl
	}
	if u, err := p.UsernameWithContext(ctx); err == nil {
		info.User = u
	}
	if start, err := p.CreateTimeWithContext(ctx); err == nil {
		info.StartTime = time.UnixMilli(start)
	}

	return info, nil
}
