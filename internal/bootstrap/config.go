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

// Package bootstrap wires configuration and logging for the
// groundworkctl binary.
package bootstrap

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/groundworklabs/groundwork/config"
)

// Flags holds the parsed command line, including the mode selectors
// the config file does not carry.
type Flags struct {
	Report  bool
	Monitor bool
	Watch   string
	Run     string
	Version bool
}

// LoadConfig loads the configuration from a file, environment
// variables, and command-line flags. Overrides apply in the order
// command-line flags > environment variables > config file.
func LoadConfig() (*config.Config, *Flags) {
	configFlag := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logBackend := flag.String("log-backend", "", "Force a log backend by name")
	appLogFile := flag.String("app-log", "", "Path to app log file")
	errorLogFile := flag.String("error-log", "", "Path to error log file")
	sources := flag.String("sources", "", "Comma-separated list of runtime sources")
	debounce := flag.Duration("debounce", 0, "Watch debounce window (e.g. 250ms)")
	labels := flag.String("labels", "", "Comma-separated key=value labels")

	flags := &Flags{}
	flag.BoolVar(&flags.Report, "report", false, "Print a runtime attribute snapshot and exit")
	flag.BoolVar(&flags.Monitor, "monitor", false, "Print runtime snapshots on the configured interval until interrupted")
	flag.StringVar(&flags.Watch, "watch", "", "Watch a path and report change events")
	flag.StringVar(&flags.Run, "run", "", "Run a command under the process executor")
	flag.BoolVar(&flags.Version, "version", false, "Print version information and exit")

	flag.Parse()

	configPath := resolvePath(*configFlag, "GROUNDWORK_CONFIG", "groundwork.yaml")
	if err := config.EnsureDefault(configPath); err != nil {
		log.Fatalf("Could not create default config: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	config.ApplyEnvOverrides(cfg)

	// CLI flag overrides (highest priority)
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logBackend != "" {
		cfg.Logging.Backend = *logBackend
	}
	if *appLogFile != "" {
		cfg.Logging.AppLogFile = *appLogFile
	}
	if *errorLogFile != "" {
		cfg.Logging.ErrorLogFile = *errorLogFile
	}
	if *sources != "" {
		cfg.Runtime.Sources = config.SplitCSV(*sources)
	}
	if *debounce != 0 {
		cfg.Watch.Debounce = *debounce
	}
	if *labels != "" {
		if cfg.CustomLabels == nil {
			cfg.CustomLabels = make(map[string]string)
		}
		for k, v := range parseLabels(*labels) {
			cfg.CustomLabels[k] = v
		}
	}

	if cfg.Proc.Timeout == 0 {
		cfg.Proc.Timeout = 30 * time.Second
	}

	return cfg, flags
}

// parseLabels parses "k=v,k2=v2" into a map, skipping malformed
// entries.
func parseLabels(input string) map[string]string {
	out := make(map[string]string)
	for _, item := range config.SplitCSV(input) {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}

// resolvePath resolves the path for a given flag value, environment
// variable, and fallback value, in that order.
func resolvePath(flagVal, envVar, fallback string) string {
	if flagVal != "" {
		return absPath(flagVal)
	}
	if val := os.Getenv(envVar); val != "" {
		return absPath(val)
	}
	return absPath(fallback)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("Failed to resolve path: %v", err)
	}
	return abs
}
