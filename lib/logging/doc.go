// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured logger the helpdesk binaries
// write to: slog JSON lines into a size-bounded rotating file with a
// fixed backup count. The log file is the only durable artifact the
// supervisor produces, so rotation keeps it from growing without bound
// on machines that sit at a login screen for months.
package logging
