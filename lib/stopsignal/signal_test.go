// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package stopsignal

import (
	"testing"
	"time"

	"github.com/ocp-it/helpdesk/lib/clock"
	"github.com/ocp-it/helpdesk/lib/testutil"
)

var epoch = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestSetIsIdempotent(t *testing.T) {
	s := New()
	if s.IsSet() {
		t.Fatal("new signal reports set")
	}
	s.Set()
	s.Set()
	s.Set()
	if !s.IsSet() {
		t.Fatal("signal not set after Set")
	}
}

func TestDoneClosesOnSet(t *testing.T) {
	s := New()
	s.Set()
	testutil.RequireClosed(t, s.Done(), time.Second, "Done after Set")
}

func TestWaitReturnsImmediatelyWhenAlreadySet(t *testing.T) {
	s := New()
	s.Set()

	// A fake clock that is never advanced: if Wait touched the timer,
	// it would block forever and the test would time out.
	c := clock.Fake(epoch)
	if !s.Wait(c, time.Hour) {
		t.Fatal("Wait returned false for an already-set signal")
	}
}

func TestWaitTimesOut(t *testing.T) {
	s := New()
	c := clock.Fake(epoch)

	result := make(chan bool, 1)
	go func() { result <- s.Wait(c, 10*time.Second) }()

	c.WaitForWaiters(1)
	c.Advance(10 * time.Second)

	if got := testutil.RequireReceive(t, result, time.Second, "Wait result"); got {
		t.Fatal("Wait returned true without Set")
	}
}

func TestWaitInterruptedBySet(t *testing.T) {
	s := New()
	c := clock.Fake(epoch)

	result := make(chan bool, 1)
	go func() { result <- s.Wait(c, time.Hour) }()

	// Let the wait register its timer, then set the signal without
	// ever advancing the clock. The wait must return promptly.
	c.WaitForWaiters(1)
	s.Set()

	if got := testutil.RequireReceive(t, result, time.Second, "Wait result"); !got {
		t.Fatal("Wait returned false after Set")
	}
}
