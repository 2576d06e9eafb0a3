// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package stopsignal

import (
	"sync"
	"time"

	"github.com/ocp-it/helpdesk/lib/clock"
)

// Signal is a waitable, monotonic stop request. The zero value is not
// usable; construct with New.
//
// Set may be called from any goroutine, any number of times; the first
// call wins and the rest are no-ops. There is no reset.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// New returns an unset Signal.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set marks the signal. Idempotent and safe to call concurrently with
// Wait.
func (s *Signal) Set() {
	s.once.Do(func() { close(s.done) })
}

// IsSet reports whether Set has been called.
func (s *Signal) IsSet() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the signal is set. Useful
// in select statements alongside other channels.
func (s *Signal) Done() <-chan struct{} { return s.done }

// Wait blocks until the signal is set or the timeout elapses, whichever
// comes first. Returns true when the signal is set (including when it
// was already set on entry) and false on timeout. The timeout is
// driven by the supplied clock so tests can fire it deterministically.
func (s *Signal) Wait(clk clock.Clock, timeout time.Duration) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case <-s.done:
		return true
	case <-clk.After(timeout):
		return false
	}
}
