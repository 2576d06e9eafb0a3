// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, time.NewTicker, or time.Sleep directly. In production,
// Real() provides the standard library behavior. In tests, Fake()
// provides a deterministic clock that advances only when Advance is
// called.
//
// The supervisor's entire restart/backoff policy is expressed as timed
// waits on this interface, which is what makes the state machine
// testable without wall-clock sleeps: a test blocks until the loop has
// registered its waiter with WaitForWaiters, then fires it with Advance.
package clock
