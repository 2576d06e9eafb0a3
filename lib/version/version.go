// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package version

// version is overridden at build time; "dev" identifies unstamped
// local builds.
var version = "dev"

// Info returns the build version string.
func Info() string { return version }
