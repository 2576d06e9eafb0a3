// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build version of the helpdesk binaries.
// The version string is stamped at build time via
// -ldflags "-X github.com/ocp-it/helpdesk/lib/version.version=...".
package version
