// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package session

import "golang.org/x/sys/windows"

// noSession is the sentinel WTSGetActiveConsoleSessionId returns when
// there is no session attached to the physical console.
const noSession = 0xFFFFFFFF

// Console returns a Resolver backed by the Windows console session
// query. The query is a bounded kernel call and never blocks.
func Console() Resolver { return consoleResolver{} }

type consoleResolver struct{}

func (consoleResolver) Active() (ID, bool) {
	id := windows.WTSGetActiveConsoleSessionId()
	if id == noSession {
		return 0, false
	}
	return ID(id), true
}
