// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"

	"github.com/ocp-it/helpdesk/lib/clock"
	"github.com/ocp-it/helpdesk/lib/config"
	"github.com/ocp-it/helpdesk/lib/logging"
	"github.com/ocp-it/helpdesk/lib/session"
	"github.com/ocp-it/helpdesk/lib/stopsignal"
	"github.com/ocp-it/helpdesk/lib/supervisor"
	"github.com/ocp-it/helpdesk/lib/userproc"
	"github.com/ocp-it/helpdesk/lib/version"
)

// handler hosts the supervision loop for the service control manager.
type handler struct {
	supervisor *supervisor.Supervisor
	stop       *stopsignal.Signal
	logger     *slog.Logger
}

// runService builds the supervisor from configuration and hands it to
// the SCM dispatcher, or to the console dispatcher in debug mode.
func runService(configPath string, interactive bool) error {
	cfg, loadedFrom, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// In debug mode log lines are mirrored to the console; as a real
	// service there is no console to mirror to.
	var mirror io.Writer
	if interactive {
		mirror = os.Stderr
	}
	logger, logCloser, err := logging.Open(cfg.Log, mirror)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logCloser.Close()

	agentPath, err := resolveAgentPath(cfg.Agent.Executable)
	if err != nil {
		logger.Error("invalid agent configuration", "error", err)
		return err
	}
	if _, err := os.Stat(agentPath); err != nil {
		// Not fatal: the installer may still be laying the agent down.
		// Launch attempts fail and retry until the file appears.
		logger.Warn("agent executable not present yet", "path", agentPath, "error", err)
	}

	logger.Info("supervisor starting",
		"version", version.Info(),
		"config", loadedFrom,
		"agent", agentPath,
		"debug_mode", interactive,
	)

	stop := stopsignal.New()
	loop := supervisor.New(
		supervisor.Config{
			Executable:   agentPath,
			PollInterval: cfg.Supervisor.PollInterval.Std(),
			RestartDelay: cfg.Supervisor.RestartDelay.Std(),
			SessionWait:  cfg.Supervisor.SessionWait.Std(),
		},
		session.Console(),
		userproc.New(),
		stop,
		clock.Real(),
		logger,
	)

	h := &handler{supervisor: loop, stop: stop, logger: logger}
	dispatch := svc.Run
	if interactive {
		dispatch = debug.Run
	}
	if err := dispatch(serviceName, h); err != nil {
		logger.Error("service dispatcher failed", "error", err)
		return fmt.Errorf("running service: %w", err)
	}
	logger.Info("supervisor stopped")
	return nil
}

// Execute implements svc.Handler. It runs the supervision loop in a
// goroutine and translates SCM control requests into the stop signal.
func (h *handler) Execute(args []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (svcSpecificEC bool, exitCode uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown

	status <- svc.Status{State: svc.StartPending}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.supervisor.Run()
	}()

	status <- svc.Status{State: svc.Running, Accepts: accepted}
	h.logger.Info("service running")

	for {
		select {
		case request := <-requests:
			switch request.Cmd {
			case svc.Interrogate:
				status <- request.CurrentStatus
			case svc.Stop, svc.Shutdown:
				h.logger.Info("service stop requested", "cmd", request.Cmd)
				status <- svc.Status{State: svc.StopPending}
				h.stop.Set()
				<-done
				return false, 0
			default:
				h.logger.Warn("unexpected control request", "cmd", request.Cmd)
			}
		case <-done:
			// The loop only exits on the stop signal, so arriving here
			// without one means it crashed out.
			h.logger.Error("supervision loop exited unexpectedly")
			status <- svc.Status{State: svc.StopPending}
			return false, 1
		}
	}
}
