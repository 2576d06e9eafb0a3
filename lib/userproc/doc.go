// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package userproc launches the helpdesk agent inside an interactive
// desktop session, running as that session's user rather than as the
// service account.
//
// This is the privilege-boundary crossing of the suite: the supervisor
// runs as LocalSystem, but the agent must see the interactive user's
// identity, privileges, and environment. The launcher acquires the
// session user's token, duplicates it into a primary token, builds the
// user's environment block, and creates the process with that token on
// the interactive desktop. Every intermediate handle is released on
// every path; only the new process handle survives, owned by the
// returned Child.
package userproc
