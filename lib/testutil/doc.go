// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel helpers with timeout safety valves
// for tests that coordinate with goroutines. Individual tests should
// not write their own time.After select arms; these helpers keep the
// hang-prevention pattern in one place.
package testutil
