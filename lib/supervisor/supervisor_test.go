// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ocp-it/helpdesk/lib/clock"
	"github.com/ocp-it/helpdesk/lib/session"
	"github.com/ocp-it/helpdesk/lib/stopsignal"
	"github.com/ocp-it/helpdesk/lib/testutil"
)

var testEpoch = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

// fakeResolver reports a fixed session, or none.
type fakeResolver struct {
	mu sync.Mutex
	id session.ID
	ok bool
}

func (r *fakeResolver) Active() (session.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.ok
}

func (r *fakeResolver) set(id session.ID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id, r.ok = id, ok
}

// fakeProcess counts liveness checks, terminations, and releases.
type fakeProcess struct {
	mu           sync.Mutex
	pid          int
	alive        bool
	aliveChecks  int
	terminations int
	releases     int
	terminateErr error
}

func (p *fakeProcess) PID() int { return p.pid }

func (p *fakeProcess) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aliveChecks++
	return p.alive
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminations++
	p.alive = false
	p.releases++
	return p.terminateErr
}

func (p *fakeProcess) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases++
	return nil
}

func (p *fakeProcess) exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = false
}

func (p *fakeProcess) counts() (aliveChecks, terminations, releases int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aliveChecks, p.terminations, p.releases
}

// launchOutcome scripts one Launch call of fakeLauncher.
type launchOutcome struct {
	process *fakeProcess
	err     error
}

// fakeLauncher replays scripted outcomes and records each call.
type fakeLauncher struct {
	mu       sync.Mutex
	outcomes []launchOutcome
	calls    []session.ID
	lastPath string
}

func (l *fakeLauncher) Launch(executable string, id session.ID) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, id)
	l.lastPath = executable
	if len(l.outcomes) == 0 {
		return nil, errors.New("fakeLauncher: no outcome scripted")
	}
	outcome := l.outcomes[0]
	l.outcomes = l.outcomes[1:]
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.process, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

type fixture struct {
	supervisor *Supervisor
	resolver   *fakeResolver
	launcher   *fakeLauncher
	stop       *stopsignal.Signal
	clock      *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resolver := &fakeResolver{}
	launcher := &fakeLauncher{}
	stop := stopsignal.New()
	fakeClock := clock.Fake(testEpoch)
	s := New(
		Config{Executable: `C:\Program Files\OCP Helpdesk\helpdesk-agent.exe`},
		resolver, launcher, stop, fakeClock,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &fixture{supervisor: s, resolver: resolver, launcher: launcher, stop: stop, clock: fakeClock}
}

func TestLaunchIntoActiveSession(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(7, true)
	proc := &fakeProcess{pid: 4321, alive: true}
	f.launcher.outcomes = []launchOutcome{{process: proc}}

	wait := f.supervisor.Step()

	if got := f.supervisor.State(); got != StateChildRunning {
		t.Fatalf("state = %v, want %v", got, StateChildRunning)
	}
	if wait != DefaultPollInterval {
		t.Errorf("wait = %v, want %v", wait, DefaultPollInterval)
	}
	if f.supervisor.child == nil || f.supervisor.child.session != 7 {
		t.Errorf("tracked child session = %+v, want 7", f.supervisor.child)
	}
	if f.supervisor.child.pid != 4321 {
		t.Errorf("tracked pid = %d, want 4321", f.supervisor.child.pid)
	}
	if f.launcher.lastPath != f.supervisor.config.Executable {
		t.Errorf("launched %q, want configured executable", f.launcher.lastPath)
	}
}

func TestNoSessionWaitsWithoutLaunching(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(0, false)

	for cycle := 0; cycle < 3; cycle++ {
		wait := f.supervisor.Step()
		if wait != DefaultSessionWait {
			t.Fatalf("cycle %d: wait = %v, want %v", cycle, wait, DefaultSessionWait)
		}
		if got := f.supervisor.State(); got != StateNoSession {
			t.Fatalf("cycle %d: state = %v, want %v", cycle, got, StateNoSession)
		}
	}
	if n := f.launcher.launchCount(); n != 0 {
		t.Errorf("launch attempts = %d, want 0", n)
	}
}

func TestLaunchFailureBacksOffThenRecovers(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(3, true)
	proc := &fakeProcess{pid: 99, alive: true}
	f.launcher.outcomes = []launchOutcome{
		{err: errors.New("token acquisition failed")},
		{err: errors.New("process creation failed")},
		{process: proc},
	}

	type cycle struct {
		wait  time.Duration
		state State
	}
	want := []cycle{
		{0, StateLaunchFailed},                    // first attempt fails
		{DefaultRestartDelay, StateNoSession},     // backoff before retry
		{0, StateLaunchFailed},                    // second attempt fails
		{DefaultRestartDelay, StateNoSession},     // backoff again
		{DefaultPollInterval, StateChildRunning},  // third attempt succeeds
	}
	for i, w := range want {
		wait := f.supervisor.Step()
		if wait != w.wait {
			t.Errorf("cycle %d: wait = %v, want %v", i, wait, w.wait)
		}
		if got := f.supervisor.State(); got != w.state {
			t.Errorf("cycle %d: state = %v, want %v", i, got, w.state)
		}
	}
	if n := f.launcher.launchCount(); n != 3 {
		t.Errorf("launch attempts = %d, want 3", n)
	}
}

func TestChildExitClearsRecordWithoutWaiting(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(2, true)
	first := &fakeProcess{pid: 10, alive: true}
	second := &fakeProcess{pid: 11, alive: true}
	f.launcher.outcomes = []launchOutcome{{process: first}, {process: second}}

	f.supervisor.Step() // launch
	first.exit()

	wait := f.supervisor.Step()
	if wait != 0 {
		t.Errorf("wait after exit = %v, want 0 (next session check is immediate)", wait)
	}
	if got := f.supervisor.State(); got != StateNoSession {
		t.Errorf("state = %v, want %v", got, StateNoSession)
	}
	if f.supervisor.child != nil {
		t.Error("child record not cleared after exit")
	}
	if _, _, releases := first.counts(); releases != 1 {
		t.Errorf("releases = %d, want exactly 1", releases)
	}

	// The freed slot is refilled on the very next cycle.
	f.supervisor.Step()
	if got := f.supervisor.State(); got != StateChildRunning {
		t.Errorf("state after relaunch = %v, want %v", got, StateChildRunning)
	}
	if f.supervisor.child.pid != 11 {
		t.Errorf("relaunched pid = %d, want 11", f.supervisor.child.pid)
	}
}

func TestAtMostOneChildWhileAlive(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(5, true)
	proc := &fakeProcess{pid: 77, alive: true}
	f.launcher.outcomes = []launchOutcome{{process: proc}}

	for cycle := 0; cycle < 10; cycle++ {
		f.supervisor.Step()
	}
	if n := f.launcher.launchCount(); n != 1 {
		t.Errorf("launch attempts = %d, want 1 while the child is alive", n)
	}
}

func TestStopWhileRunningTerminatesChild(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(4, true)
	proc := &fakeProcess{pid: 55, alive: true}
	f.launcher.outcomes = []launchOutcome{{process: proc}}

	done := make(chan struct{})
	go func() {
		f.supervisor.Run()
		close(done)
	}()

	// Launch happens on the first cycle; the loop then parks on the
	// poll-interval wait. Stop without ever advancing the clock: the
	// loop must exit within the in-progress wait, not after it.
	f.clock.WaitForWaiters(1)
	f.stop.Set()
	testutil.RequireClosed(t, done, 5*time.Second, "Run after stop")

	_, terminations, releases := proc.counts()
	if terminations != 1 {
		t.Errorf("terminations = %d, want 1", terminations)
	}
	if releases != 1 {
		t.Errorf("releases = %d, want exactly 1", releases)
	}
}

func TestStopInterruptsSessionWait(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(0, false)

	done := make(chan struct{})
	go func() {
		f.supervisor.Run()
		close(done)
	}()

	f.clock.WaitForWaiters(1)
	f.stop.Set()
	testutil.RequireClosed(t, done, 5*time.Second, "Run after stop during session wait")

	if n := f.launcher.launchCount(); n != 0 {
		t.Errorf("launch attempts = %d, want 0", n)
	}
}

func TestStopAlreadySetNeverLaunches(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(1, true)
	f.stop.Set()

	f.supervisor.Run()

	if n := f.launcher.launchCount(); n != 0 {
		t.Errorf("launch attempts = %d, want 0 when stop precedes Run", n)
	}
}

func TestTerminationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(6, true)
	proc := &fakeProcess{pid: 88, alive: true, terminateErr: errors.New("access denied")}
	f.launcher.outcomes = []launchOutcome{{process: proc}}

	done := make(chan struct{})
	go func() {
		f.supervisor.Run()
		close(done)
	}()

	f.clock.WaitForWaiters(1)
	f.stop.Set()

	// Run must return despite the termination error.
	testutil.RequireClosed(t, done, 5*time.Second, "Run after failed termination")
}

func TestRunPollsChildOnCadence(t *testing.T) {
	f := newFixture(t)
	f.resolver.set(9, true)
	proc := &fakeProcess{pid: 12, alive: true}
	f.launcher.outcomes = []launchOutcome{{process: proc}}

	done := make(chan struct{})
	go func() {
		f.supervisor.Run()
		close(done)
	}()

	// Each advance of one poll interval releases exactly one liveness
	// check. WaitForWaiters before each advance keeps the loop and the
	// clock in lockstep.
	for cycle := 1; cycle <= 3; cycle++ {
		f.clock.WaitForWaiters(1)
		f.clock.Advance(DefaultPollInterval)
	}
	f.clock.WaitForWaiters(1)

	aliveChecks, _, _ := proc.counts()
	if aliveChecks != 3 {
		t.Errorf("liveness checks = %d, want 3", aliveChecks)
	}

	f.stop.Set()
	testutil.RequireClosed(t, done, 5*time.Second, "Run after stop")
}

func TestConfigDefaults(t *testing.T) {
	config := Config{Executable: "agent.exe"}
	config.fillDefaults()
	if config.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", config.PollInterval, DefaultPollInterval)
	}
	if config.RestartDelay != DefaultRestartDelay {
		t.Errorf("RestartDelay = %v, want %v", config.RestartDelay, DefaultRestartDelay)
	}
	if config.SessionWait != DefaultSessionWait {
		t.Errorf("SessionWait = %v, want %v", config.SessionWait, DefaultSessionWait)
	}

	tuned := Config{PollInterval: time.Second, RestartDelay: 2 * time.Second, SessionWait: 3 * time.Second}
	tuned.fillDefaults()
	if tuned.PollInterval != time.Second || tuned.RestartDelay != 2*time.Second || tuned.SessionWait != 3*time.Second {
		t.Errorf("explicit tunables overridden: %+v", tuned)
	}
}
