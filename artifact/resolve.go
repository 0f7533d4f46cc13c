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

package artifact

import (
	"bufio"
	"debug/buildinfo"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// FromBuildInfo resolves the running binary's main module as an
// artifact. It returns ErrNotFound for binaries built without module
// support.
func FromBuildInfo() (*Artifact, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Path == "" {
		return nil, ErrNotFound
	}
	return fromModule(bi.Main.Path, bi.Main.Version, "buildinfo")
}

// FromBinary resolves the main module of another Go binary on disk.
func FromBinary(path string) (*Artifact, error) {
	bi, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading build info from %s: %w", path, err)
	}
	if bi.Main.Path == "" {
		return nil, ErrNotFound
	}
	return fromModule(bi.Main.Path, bi.Main.Version, path)
}

func fromModule(modpath, version, location string) (*Artifact, error) {
	group, name := SplitModulePath(modpath)
	if version == "(devel)" {
		version = ""
	}
	a, err := New(group, name, version, location)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FromProperties resolves an artifact from a Maven-style properties
// file carrying groupId, artifactId and version keys.
func FromProperties(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: opening %s: %w", path, err)
	}
	defer f.Close()

	return FromPropertiesReader(f, path)
}

// FromPropertiesReader is FromProperties over an already open reader.
// The location is recorded on the resulting artifact.
func FromPropertiesReader(r io.Reader, location string) (*Artifact, error) {
	props, err := parseProperties(r)
	if err != nil {
		return nil, err
	}

	name := props["artifactId"]
	if name == "" {
		name = props["name"]
	}
	if name == "" {
		return nil, ErrNotFound
	}

	group := props["groupId"]
	if group == "" {
		group = props["group"]
	}

	a, err := New(group, name, props["version"], location)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// parseProperties reads key=value lines, skipping blanks and comment
// lines starting with # or !.
func parseProperties(r io.Reader) (map[string]string, error) {
	props := make(map[string]string)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("artifact: reading properties: %w", err)
	}
	return props, nil
}

// Resolve picks a resolver for path by its file type: properties files
// go through FromProperties, anything else is treated as a Go binary.
func Resolve(path string) (*Artifact, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties":
		return FromProperties(path)
	default:
		return FromBinary(path)
	}
}
