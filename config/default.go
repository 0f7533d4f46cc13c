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

package config

import (
	"os"
	"path/filepath"
)

const defaultYAML = `# Log config
logging:
  level: "info"              # debug, info, warn, error
  app_log_file: ""           # empty disables file logging
  error_log_file: ""
  backend: ""                # empty picks the best available backend

# Runtime attribute collection
runtime:
  interval: 30s              # Snapshot interval
  sources:                   # Enabled readers (empty enables all)
    - goruntime
    - host
    - cpu
    - mem
  workers: 2

# File watching
watch:
  debounce: 250ms            # Burst coalescing window
  buffer: 64                 # Event channel capacity

# Process execution defaults
proc:
  timeout: 30s
  max_output: 1048576        # Bytes of captured output before truncation
  grace_period: 3s           # SIGTERM to SIGKILL delay on destroy

# Static labels attached to every runtime snapshot
custom_labels: {}
`

// EnsureDefault checks if the config file exists at the specified
// path. If it does not exist, it creates the directory structure and
// writes the default config to the file.
func EnsureDefault(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(defaultYAML), 0644)
	}
	return nil
}
