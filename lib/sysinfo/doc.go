// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysinfo gathers the machine diagnostics attached to support
// tickets: identity (hostname, user, addresses), OS version, and
// resource usage.
//
// Every probe is best-effort. A probe that fails yields "N/A" or zero
// in the report rather than an error; a ticket with partial
// diagnostics still beats no ticket. Platform-specific probes live in
// sysinfo_windows.go and sysinfo_linux.go; other platforms get the
// portable subset only.
package sysinfo
