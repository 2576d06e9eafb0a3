// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers shared by the
// helpdesk binaries: fatal error reporting to stderr for errors that
// occur before (or instead of) structured logger initialization.
package process
