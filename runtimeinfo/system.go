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
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/groundworklabs/groundwork/logging"
)

// HostReader gathers host system information such as uptime, number
// of processes, and number of logged-in users.
type HostReader struct{}

// NewHostReader creates a new HostReader instance.
func NewHostReader() *HostReader {
	return &HostReader{}
}

// Name returns the name of the reader.
func (r *HostReader) Name() string {
	return "host"
}

// Read gathers host attributes. Platform details are attached to a
// dimension-only "info" attribute.
func (r *HostReader) Read(ctx context.Context) ([]Attribute, error) {
	now := time.Now()

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	users, err := host.UsersWithContext(ctx)
	userCount := 0
	if err != nil {
		logging.Warn("runtimeinfo: error getting host users (continuing anyway): %v", err)
	} else {
		userCount = len(users)
	}

	attrs := []Attribute{
		NewAttribute("System", "uptime", info.Uptime, "seconds", nil, now),
		NewAttribute("System", "procs", info.Procs, "count", nil, now),
		NewAttribute("System", "users_loggedin", userCount, "count", nil, now),
	}

	hostLabels := map[string]string{
		"hostname":         info.Hostname,
		"os":               info.OS,
		"platform":         info.Platform,
		"platform_family":  info.PlatformFamily,
		"platform_version": info.PlatformVersion,
		"kernel_version":   info.KernelVersion,
		"kernel_arch":      info.KernelArch,
		"host_id":          info.HostID,
	}
	attrs = append(attrs, NewAttribute("System", "info", 1, "info", hostLabels, now))

	return attrs, nil
}

// CPUReader reports logical/physical CPU counts and overall usage.
type CPUReader struct{}

// NewCPUReader creates a new CPUReader instance.
func NewCPUReader() *CPUReader {
	return &CPUReader{}
}

// Name returns the name of the reader.
func (r *CPUReader) Name() string {
	return "cpu"
}

// Read gathers CPU attributes. The usage percentage is computed since
// the previous call, so the first reading reports 0.
func (r *CPUReader) Read(ctx context.Context) ([]Attribute, error) {
	now := time.Now()
	var attrs []Attribute

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu counts: %w", err)
	}
	attrs = append(attrs, NewAttribute("System", "cpu_logical", logical, "count", nil, now))

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		logging.Warn("runtimeinfo: error getting physical cpu count (continuing anyway): %v", err)
	} else {
		attrs = append(attrs, NewAttribute("System", "cpu_physical", physical, "count", nil, now))
	}

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		logging.Warn("runtimeinfo: error getting cpu percent (continuing anyway): %v", err)
	} else if len(percents) > 0 {
		attrs = append(attrs, NewAttribute("System", "cpu_percent", percents[0], "percent", nil, now))
	}

	return attrs, nil
}

// MemReader reports virtual memory usage.
type MemReader struct{}

// NewMemReader creates a new MemReader instance.
func NewMemReader() *MemReader {
	return &MemReader{}
}

// Name returns the name of the reader.
func (r *MemReader) Name() string {
	return "mem"
}

// Read gathers memory attributes from the host.
func (r *MemReader) Read(ctx context.Context) ([]Attribute, error) {
	now := time.Now()

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	return []Attribute{
		NewAttribute("System", "mem_total", vm.Total, "bytes", nil, now),
		NewAttribute("System", "mem_available", vm.Available, "bytes", nil, now),
		NewAttribute("System", "mem_used", vm.Used, "bytes", nil, now),
		NewAttribute("System", "mem_used_percent", vm.UsedPercent, "percent", nil, now),
	}, nil
}
