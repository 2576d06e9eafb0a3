// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"log/slog"
	"time"

	"github.com/ocp-it/helpdesk/lib/clock"
	"github.com/ocp-it/helpdesk/lib/session"
	"github.com/ocp-it/helpdesk/lib/stopsignal"
)

// Default wait intervals. Overridable through Config for operators who
// need to tune responsiveness against polling overhead.
const (
	// DefaultPollInterval is how often a running child's liveness is
	// checked.
	DefaultPollInterval = 3 * time.Second

	// DefaultRestartDelay is the backoff after a failed launch before
	// the next attempt.
	DefaultRestartDelay = 5 * time.Second

	// DefaultSessionWait is how long to wait between session queries
	// while nobody is logged into the console.
	DefaultSessionWait = 10 * time.Second
)

// Process is a launched agent process tracked by the supervisor. The
// implementation owns the underlying OS process handle; Terminate and
// Release tolerate repeated calls, turning double release into a no-op
// rather than a fault.
type Process interface {
	// PID returns the OS process identifier, for logging only.
	PID() int

	// Alive reports whether the process is still running. Never
	// blocks: implemented as a zero-timeout status check.
	Alive() bool

	// Terminate forcibly ends the process if it is still running,
	// then releases the handle. Safe on an already-exited process.
	Terminate() error

	// Release frees the process handle without touching the process.
	// Exactly one release takes effect; later calls are no-ops.
	Release() error
}

// Launcher creates an agent process inside an interactive session,
// running as that session's user.
type Launcher interface {
	// Launch starts executable in the given session. On success the
	// returned Process owns the new process handle. All failure kinds
	// (token acquisition, token duplication, environment construction,
	// process creation) are reported uniformly; the supervisor's retry
	// policy does not distinguish them, it only logs the cause.
	Launch(executable string, id session.ID) (Process, error)
}

// State is the supervisor's position in its state machine. Exactly one
// state is active at a time.
type State int

const (
	// StateNoSession: no child is tracked; waiting for an interactive
	// session to launch into.
	StateNoSession State = iota

	// StateChildRunning: a child is tracked and was alive at the last
	// poll.
	StateChildRunning

	// StateLaunchFailed: the previous launch attempt failed; backing
	// off before returning to StateNoSession.
	StateLaunchFailed
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no-session"
	case StateChildRunning:
		return "child-running"
	case StateLaunchFailed:
		return "launch-failed"
	}
	return "unknown"
}

// Config holds the supervisor's tunables.
type Config struct {
	// Executable is the path of the agent binary to launch.
	Executable string

	// PollInterval, RestartDelay, and SessionWait override the
	// defaults when positive.
	PollInterval time.Duration
	RestartDelay time.Duration
	SessionWait  time.Duration
}

func (c *Config) fillDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RestartDelay <= 0 {
		c.RestartDelay = DefaultRestartDelay
	}
	if c.SessionWait <= 0 {
		c.SessionWait = DefaultSessionWait
	}
}

// child is the record of the one tracked agent process. Created the
// instant a launch succeeds, destroyed the instant the loop observes
// the process exited or terminates it during shutdown. At most one
// child exists at any time; that invariant is the central correctness
// property of this package.
type child struct {
	process    Process
	pid        int
	session    session.ID
	launchedAt time.Time
}

// Supervisor orchestrates the session resolver and launcher on a fixed
// polling cadence. All fields are owned by the goroutine running Run;
// the only cross-goroutine contract is the stop signal.
type Supervisor struct {
	config   Config
	sessions session.Resolver
	launcher Launcher
	stop     *stopsignal.Signal
	clock    clock.Clock
	logger   *slog.Logger

	state State
	child *child
}

// New assembles a Supervisor from its collaborators. The stop signal
// may be shared with other shutdown paths; setting it from any
// goroutine ends the loop within one wait interval.
func New(config Config, sessions session.Resolver, launcher Launcher, stop *stopsignal.Signal, clk clock.Clock, logger *slog.Logger) *Supervisor {
	config.fillDefaults()
	return &Supervisor{
		config:   config,
		sessions: sessions,
		launcher: launcher,
		stop:     stop,
		clock:    clk,
		logger:   logger,
		state:    StateNoSession,
	}
}

// State returns the current state. Meaningful only from the goroutine
// running the loop (or a test driving Step directly).
func (s *Supervisor) State() State { return s.state }

// Run executes the supervision loop until the stop signal is set, then
// terminates any tracked child and returns. Every wait goes through
// the stop signal, so a stop request is never delayed by more than one
// in-progress wait.
func (s *Supervisor) Run() {
	s.logger.Info("supervisor started",
		"executable", s.config.Executable,
		"poll_interval", s.config.PollInterval,
		"restart_delay", s.config.RestartDelay,
		"session_wait", s.config.SessionWait,
	)

	for !s.stop.IsSet() {
		wait := s.Step()
		if wait <= 0 {
			continue
		}
		if s.stop.Wait(s.clock, wait) {
			break
		}
	}

	s.shutdown()
	s.logger.Info("supervisor stopped")
}

// Step evaluates one poll cycle of the state machine and returns how
// long the loop should wait before the next cycle. A zero return means
// re-evaluate immediately (used when a transition should be observed
// without delay, such as a child exit freeing the slot for the next
// session check).
func (s *Supervisor) Step() time.Duration {
	switch s.state {
	case StateNoSession:
		return s.stepNoSession()
	case StateChildRunning:
		return s.stepChildRunning()
	case StateLaunchFailed:
		// Back off, then retry from scratch next cycle.
		s.state = StateNoSession
		return s.config.RestartDelay
	}
	return s.config.PollInterval
}

func (s *Supervisor) stepNoSession() time.Duration {
	id, ok := s.sessions.Active()
	if !ok {
		// Debug level: at a lock screen this repeats every wait
		// interval indefinitely and would otherwise fill the log.
		s.logger.Debug("no active console session", "wait", s.config.SessionWait)
		return s.config.SessionWait
	}

	s.logger.Info("launching agent", "session", id, "executable", s.config.Executable)
	proc, err := s.launcher.Launch(s.config.Executable, id)
	if err != nil {
		s.logger.Warn("agent launch failed",
			"session", id,
			"error", err,
			"retry_in", s.config.RestartDelay,
		)
		s.state = StateLaunchFailed
		return 0
	}

	s.child = &child{
		process:    proc,
		pid:        proc.PID(),
		session:    id,
		launchedAt: s.clock.Now(),
	}
	s.state = StateChildRunning
	s.logger.Info("agent running", "pid", s.child.pid, "session", id)
	return s.config.PollInterval
}

func (s *Supervisor) stepChildRunning() time.Duration {
	if s.child.process.Alive() {
		return s.config.PollInterval
	}

	// Note: a session switch while the child stays alive is not
	// reconciled here. The tracked child is left running under its
	// original session until it exits on its own; whether it should
	// instead be killed and relaunched into the new session is an
	// unresolved policy question, kept as observed behavior.
	s.logger.Info("agent exited",
		"pid", s.child.pid,
		"session", s.child.session,
		"uptime", s.clock.Now().Sub(s.child.launchedAt),
	)
	if err := s.child.process.Release(); err != nil {
		s.logger.Warn("releasing exited agent handle", "pid", s.child.pid, "error", err)
	}
	s.child = nil
	s.state = StateNoSession
	return 0
}

// shutdown terminates the tracked child, if any. Termination failures
// are logged and swallowed: shutdown proceeds regardless, there is no
// escalation path left at this point.
func (s *Supervisor) shutdown() {
	if s.child == nil {
		return
	}
	s.logger.Info("terminating agent", "pid", s.child.pid, "session", s.child.session)
	if err := s.child.process.Terminate(); err != nil {
		s.logger.Warn("terminating agent", "pid", s.child.pid, "error", err)
	}
	s.child = nil
}
