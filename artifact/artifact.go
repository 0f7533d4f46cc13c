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

// Package artifact resolves dependency metadata.
//
// An Artifact is a value object naming a resolved dependency: group
// (the module path up to its last element), name, version, and the
// location the metadata was read from. Resolvers read artifacts from
// the running binary's build info, from other Go binaries, and from
// properties files.
package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by resolvers when the source exists but
// carries no artifact metadata.
var ErrNotFound = errors.New("artifact: not found")

// Artifact identifies a resolved dependency.
type Artifact struct {
	// Group is the namespace part of the identifier, for Go modules
	// the module path minus its last element.
	Group string
	// Name is the artifact's own name, never empty.
	Name string
	// Version is the resolved version, "" when unknown.
	Version string
	// Location is where the metadata was read from (file path or
	// "buildinfo").
	Location string
}

// New builds an Artifact, enforcing a non-empty name.
func New(group, name, version, location string) (Artifact, error) {
	if name == "" {
		return Artifact{}, fmt.Errorf("artifact: empty name (group %q, version %q)", group, version)
	}
	return Artifact{Group: group, Name: name, Version: version, Location: location}, nil
}

// String renders the conventional group:name:version form. Empty
// components render as "*".
func (a Artifact) String() string {
	return strings.Join([]string{orStar(a.Group), orStar(a.Name), orStar(a.Version)}, ":")
}

// Matches reports whether the artifact matches a group/name/version
// pattern. "*" and "" are wildcards for their component.
func (a Artifact) Matches(group, name, version string) bool {
	return componentMatches(a.Group, group) &&
		componentMatches(a.Name, name) &&
		componentMatches(a.Version, version)
}

func componentMatches(have, want string) bool {
	if want == "*" || want == "" {
		return true
	}
	return have == want
}

func orStar(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// SplitModulePath splits a Go module path into the group and name
// convention used across this package: "github.com/acme/tool" becomes
// ("github.com/acme", "tool").
func SplitModulePath(modpath string) (group, name string) {
	if i := strings.LastIndexByte(modpath, '/'); i >= 0 {
		return modpath[:i], modpath[i+1:]
	}
	return "", modpath
}
