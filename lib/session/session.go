// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

// ID is an OS-assigned identifier for an interactive desktop session.
// Opaque to this codebase: it is read from the OS and passed back to
// the OS, never computed.
type ID uint32

// Resolver reports the currently active interactive session.
type Resolver interface {
	// Active returns the active console session and true, or false
	// when no user is logged into the console (lock/login screen with
	// no session, or a transient query failure). Resolution failure is
	// deliberately indistinguishable from "no session": the supervisor
	// retries indefinitely either way, and the caller logs.
	Active() (ID, bool)
}
