// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveAgentPath turns the configured agent executable into an
// absolute path. Bare names are resolved relative to the supervisor's
// own directory so the default install layout works without
// configuration.
//
// The file is not required to exist: the installer may lay the agent
// down after the service starts, so a missing binary is an ordinary
// launch failure, retried on the usual cadence.
func resolveAgentPath(executable string) (string, error) {
	if executable == "" {
		return "", fmt.Errorf("no agent executable configured")
	}
	if filepath.IsAbs(executable) {
		return executable, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating own executable: %w", err)
	}
	return filepath.Join(filepath.Dir(self), executable), nil
}
