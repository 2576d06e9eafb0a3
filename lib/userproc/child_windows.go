// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package userproc

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

// Child is a launched agent process. It owns the process handle; the
// handle is closed exactly once, whether through Terminate or Release,
// and all methods tolerate being called after release.
type Child struct {
	mu       sync.Mutex
	handle   windows.Handle
	pid      uint32
	released bool
}

// PID returns the process identifier, for logging.
func (c *Child) PID() int { return int(c.pid) }

// Alive reports whether the process is still running, via a
// zero-timeout wait on the process handle. Never blocks. A released
// Child reports not alive.
func (c *Child) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return false
	}
	event, err := windows.WaitForSingleObject(c.handle, 0)
	return err == nil && event == uint32(windows.WAIT_TIMEOUT)
}

// Terminate forcibly ends the process if it is still running, then
// releases the handle. Calling it on an already-exited or already-
// released Child is a no-op beyond the (at most one) handle close.
func (c *Child) Terminate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}

	var terminateErr error
	event, err := windows.WaitForSingleObject(c.handle, 0)
	if err == nil && event == uint32(windows.WAIT_TIMEOUT) {
		if err := windows.TerminateProcess(c.handle, 0); err != nil {
			terminateErr = fmt.Errorf("terminating process %d: %w", c.pid, err)
		}
	}

	if err := c.closeLocked(); err != nil && terminateErr == nil {
		terminateErr = err
	}
	return terminateErr
}

// Release closes the process handle without touching the process.
// Idempotent: only the first call closes.
func (c *Child) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

// closeLocked closes the handle once. Caller must hold c.mu.
func (c *Child) closeLocked() error {
	if c.released {
		return nil
	}
	c.released = true
	if err := windows.CloseHandle(c.handle); err != nil {
		return fmt.Errorf("closing handle of process %d: %w", c.pid, err)
	}
	return nil
}
