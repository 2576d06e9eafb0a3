// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows && !linux

package sysinfo

import "runtime"

// Platforms without a dedicated probe get the portable subset only.
func (c *Collector) probePlatform(report *Report) {
	report.OSVersion = runtime.GOOS
}
