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

package bootstrap

import (
	"fmt"
	"os"

	"github.com/groundworklabs/groundwork/config"
	"github.com/groundworklabs/groundwork/logging"
)

// SetupLogging initializes the logging facade from the loaded
// configuration. It exits on failure; nothing downstream can run
// without a logger.
func SetupLogging(cfg *config.Config) {
	err := logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		AppLogFile:   cfg.Logging.AppLogFile,
		ErrorLogFile: cfg.Logging.ErrorLogFile,
		Backend:      cfg.Logging.Backend,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}
