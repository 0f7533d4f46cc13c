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

// groundworkctl exercises the library from the command line: runtime
// snapshots, file watching, and bounded process execution.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/groundworklabs/groundwork/artifact"
	"github.com/groundworklabs/groundwork/config"
	"github.com/groundworklabs/groundwork/internal/bootstrap"
	"github.com/groundworklabs/groundwork/logging"
	"github.com/groundworklabs/groundwork/proc"
	"github.com/groundworklabs/groundwork/procid"
	"github.com/groundworklabs/groundwork/runtimeinfo"
	"github.com/groundworklabs/groundwork/watch"
)

var Version = "dev" // default
// go build -ldflags "-X main.Version=0.2.0" -o groundworkctl ./cmd/groundworkctl

func main() {
	// Bootstrap config loading (flags -> env -> file)
	cfg, flags := bootstrap.LoadConfig()
	bootstrap.SetupLogging(cfg)

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logging.Warn("signal received, shutting down...")
		cancel()
	}()

	switch {
	case flags.Version:
		printVersion(ctx)
	case flags.Report:
		report(ctx, cfg.Runtime.Sources, cfg.CustomLabels)
	case flags.Monitor:
		monitor(ctx, cfg)
	case flags.Watch != "":
		watchPath(ctx, cfg, flags.Watch)
	case flags.Run != "":
		runCommand(ctx, cfg, flags.Run)
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass -report, -monitor, -watch <path>, -run <cmd> or -version")
		os.Exit(2)
	}
}

func printVersion(ctx context.Context) {
	fmt.Printf("groundworkctl %s\n", Version)
	if art, err := artifact.FromBuildInfo(); err == nil {
		fmt.Printf("module: %s\n", art)
	}
	if pid, err := procid.Current(ctx); err == nil {
		fmt.Printf("pid: %d\n", pid)
	}
}

// report prints one snapshot of every enabled runtime reader.
func report(ctx context.Context, sources []string, labels map[string]string) {
	reg := runtimeinfo.NewRegistry(sources)
	printAttributes(reg.Snapshot(ctx), labels)
}

// monitor prints snapshots on the configured interval until the
// context is canceled.
func monitor(ctx context.Context, cfg *config.Config) {
	reg := runtimeinfo.NewRegistry(cfg.Runtime.Sources)
	runner := runtimeinfo.NewRunner(reg, cfg.Runtime.Interval, cfg.Runtime.Workers, func(attrs []runtimeinfo.Attribute) {
		printAttributes(attrs, cfg.CustomLabels)
		fmt.Println()
	})
	runner.Run(ctx)
}

func printAttributes(attrs []runtimeinfo.Attribute, labels map[string]string) {
	for _, attr := range attrs {
		for k, v := range labels {
			if _, ok := attr.Labels[k]; !ok {
				if attr.Labels == nil {
					attr.Labels = make(map[string]string)
				}
				attr.Labels[k] = v
			}
		}
		line := fmt.Sprintf("%s.%s = %g", attr.Namespace, attr.Name, attr.Value)
		if attr.Unit != "" {
			line += " " + attr.Unit
		}
		if len(attr.Labels) > 0 {
			line += fmt.Sprintf("  %v", attr.Labels)
		}
		fmt.Println(line)
	}
}

// watchPath reports debounced change events for a path until a signal
// arrives.
func watchPath(ctx context.Context, cfg *config.Config, path string) {
	w, err := watch.New(watch.Config{Debounce: cfg.Watch.Debounce, Buffer: cfg.Watch.Buffer})
	if err != nil {
		logging.Fatal("starting watcher: %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		logging.Fatal("watching %s: %v", path, err)
	}
	logging.Info("watching %s (debounce %s)", path, cfg.Watch.Debounce)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			fmt.Printf("%s  %s  %s\n", ev.At.Format("15:04:05.000"), ev.Op, ev.Path)
		}
	}
}

// runCommand runs one shell-less command line under the process
// manager and exits with the child's exit code. A signal or the
// configured timeout destroys the child gracefully, with the
// configured grace period between terminate and kill.
func runCommand(ctx context.Context, cfg *config.Config, cmdline string) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		logging.Fatal("empty command")
	}

	exec := proc.NewExecutor()
	if cfg.Proc.MaxOutput > 0 {
		exec.MaxOutput = cfg.Proc.MaxOutput
	}
	mgr := proc.NewManager(exec)
	if cfg.Proc.GracePeriod > 0 {
		mgr.GracePeriod = cfg.Proc.GracePeriod
	}

	h, err := mgr.Start(proc.Command{Path: fields[0], Args: fields[1:]})
	if err != nil {
		logging.Fatal("running %s: %v", fields[0], err)
	}

	var timeout <-chan time.Time
	if cfg.Proc.Timeout > 0 {
		timeout = time.After(cfg.Proc.Timeout)
	}

	select {
	case <-h.Done():
	case <-timeout:
		logging.Warn("command timed out after %s, destroying", cfg.Proc.Timeout)
		destroy(mgr, h, fields[0])
	case <-ctx.Done():
		destroy(mgr, h, fields[0])
	}

	res, err := h.Result()
	if err != nil {
		logging.Fatal("running %s: %v", fields[0], err)
	}

	os.Stdout.WriteString(res.Output)
	if res.Truncated {
		logging.Warn("output truncated")
	}
	os.Exit(res.ExitCode)
}

func destroy(mgr *proc.Manager, h *proc.Handle, name string) {
	if err := mgr.Destroy(context.Background(), h.ID); err != nil && !errors.Is(err, proc.ErrUnknownHandle) {
		logging.Error("destroying %s: %v", name, err)
	}
	<-h.Done()
}
