// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package stopsignal provides the one-shot cancellation primitive that
// gates every wait in the supervisor loop.
//
// A Signal is set exactly once and never reset. The service control
// handler sets it from the SCM callback goroutine; the supervisor loop
// waits on it with a timeout in place of sleeping, so a stop request
// interrupts any in-progress wait instead of being delayed by it.
package stopsignal
