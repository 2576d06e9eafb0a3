// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package session identifies the interactive desktop session the
// helpdesk agent should run in.
//
// The supervisor tracks a single "active console" session, the desktop
// currently visible at the machine's local console. Multi-seat session
// multiplexing is out of scope; the deployment target is a single-seat
// workstation.
package session
