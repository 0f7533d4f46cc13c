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

// Package config loads the library's YAML configuration and applies
// environment overrides on top of it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoggingConfig defines the configuration for the logging facade.
// Backend forces a specific backend by name; when empty the highest
// priority usable backend wins.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	AppLogFile   string `yaml:"app_log_file"`
	ErrorLogFile string `yaml:"error_log_file"`
	Backend      string `yaml:"backend"`
}

// RuntimeConfig defines the configuration for runtime attribute
// collection. Sources names the enabled readers; an empty list means
// all default readers.
type RuntimeConfig struct {
	Interval time.Duration `yaml:"interval"`
	Sources  []string      `yaml:"sources"`
	Workers  int           `yaml:"workers"`
}

// WatchConfig defines the configuration for file watching.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Buffer   int           `yaml:"buffer"`
}

// ProcConfig defines the defaults for process execution and
// management.
type ProcConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxOutput   int           `yaml:"max_output"`
	GracePeriod time.Duration `yaml:"grace_period"`
}

// Config holds the configuration for Groundwork. It is loaded from a
// YAML file and can be overridden by GROUNDWORK_* environment
// variables.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Watch   WatchConfig   `yaml:"watch"`
	Proc    ProcConfig    `yaml:"proc"`

	// CustomLabels are attached to every runtime attribute snapshot.
	CustomLabels map[string]string `yaml:"custom_labels"`
}

// Property records one applied override so callers can report where a
// setting came from.
type Property struct {
	Key    string
	Value  string
	Source string
}

// Load reads and unmarshals the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnvOverrides overlays GROUNDWORK_* environment variables on
// cfg and returns the overrides that took effect. Malformed values
// are skipped.
func ApplyEnvOverrides(cfg *Config) []Property {
	var applied []Property
	set := func(key, val string, assign func()) {
		assign()
		applied = append(applied, Property{Key: key, Value: val, Source: "env"})
	}

	if val := os.Getenv("GROUNDWORK_LOG_LEVEL"); val != "" {
		set("logging.level", val, func() { cfg.Logging.Level = val })
	}
	if val := os.Getenv("GROUNDWORK_APP_LOG_FILE"); val != "" {
		set("logging.app_log_file", val, func() { cfg.Logging.AppLogFile = val })
	}
	if val := os.Getenv("GROUNDWORK_ERROR_LOG_FILE"); val != "" {
		set("logging.error_log_file", val, func() { cfg.Logging.ErrorLogFile = val })
	}
	if val := os.Getenv("GROUNDWORK_LOG_BACKEND"); val != "" {
		set("logging.backend", val, func() { cfg.Logging.Backend = val })
	}

	if val := os.Getenv("GROUNDWORK_RUNTIME_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			set("runtime.interval", val, func() { cfg.Runtime.Interval = d })
		}
	}
	if val := os.Getenv("GROUNDWORK_RUNTIME_SOURCES"); val != "" {
		set("runtime.sources", val, func() { cfg.Runtime.Sources = SplitCSV(val) })
	}

	if val := os.Getenv("GROUNDWORK_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			set("watch.debounce", val, func() { cfg.Watch.Debounce = d })
		}
	}

	if val := os.Getenv("GROUNDWORK_PROC_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			set("proc.timeout", val, func() { cfg.Proc.Timeout = d })
		}
	}
	if val := os.Getenv("GROUNDWORK_PROC_GRACE_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			set("proc.grace_period", val, func() { cfg.Proc.GracePeriod = d })
		}
	}

	if val := os.Getenv("GROUNDWORK_CUSTOM_LABELS"); val != "" {
		if cfg.CustomLabels == nil {
			cfg.CustomLabels = make(map[string]string)
		}
		for _, label := range strings.Split(val, ",") {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			parts := strings.SplitN(label, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key == "" || value == "" {
				continue
			}
			cfg.CustomLabels[key] = value
			applied = append(applied, Property{Key: "custom_labels." + key, Value: value, Source: "env"})
		}
	}

	return applied
}

// SplitCSV splits a CSV string into a slice of strings.
// It trims whitespace from each element and ignores empty elements.
func SplitCSV(input string) []string {
	var out []string
	for _, s := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
