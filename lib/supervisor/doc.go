// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor keeps exactly one instance of the helpdesk agent
// running in the active console session.
//
// The supervisor is a single-threaded polling loop over a three-state
// machine (NoSession, ChildRunning, LaunchFailed). The collaborators
// (session resolver, user-context launcher, stop signal, clock) are
// injected at construction, so tests substitute fakes and drive the
// loop deterministically.
//
// Failure policy: there are no fatal errors. A missing session is a
// normal transient state, a launch failure is retried after a delay,
// and termination failures during shutdown are logged and swallowed.
// The only way the loop exits is the stop signal.
package supervisor
