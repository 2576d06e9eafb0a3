// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

const (
	serviceName        = "OCPITHelpdesk"
	serviceDisplayName = "OCP IT Helpdesk"
	serviceDescription = "OCP IT Helpdesk - Background desktop agent for IT support tickets. " +
		"Launches the agent in the active user session."
)

// stopTimeout bounds how long stop and restart wait for the service to
// reach the stopped state.
const stopTimeout = 30 * time.Second

// restartSettle is the pause between stop and start on restart, giving
// the SCM time to finish releasing the stopped process.
const restartSettle = 2 * time.Second

func installService() error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating own executable: %w", err)
	}

	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	if service, err := m.OpenService(serviceName); err == nil {
		service.Close()
		return fmt.Errorf("service %s is already installed", serviceName)
	}

	service, err := m.CreateService(serviceName, self, mgr.Config{
		DisplayName: serviceDisplayName,
		Description: serviceDescription,
		StartType:   mgr.StartAutomatic,
	})
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	defer service.Close()

	// Have the SCM restart the supervisor itself if it ever dies:
	// quickly at first, then with more patience, resetting the failure
	// count after a day.
	recovery := []mgr.RecoveryAction{
		{Type: mgr.ServiceRestart, Delay: 5 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 10 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 30 * time.Second},
	}
	if err := service.SetRecoveryActions(recovery, 86400); err != nil {
		service.Delete()
		return fmt.Errorf("configuring recovery actions: %w", err)
	}

	if err := eventlog.InstallAsEventCreate(serviceName, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		service.Delete()
		return fmt.Errorf("registering event log source: %w", err)
	}

	fmt.Printf("Service %q installed successfully.\n", serviceDisplayName)
	fmt.Println("  - Set to auto-start on boot")
	fmt.Println("  - Configured automatic restart on failure")
	return nil
}

func uninstallService() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	service, err := m.OpenService(serviceName)
	if err != nil {
		return fmt.Errorf("service %s is not installed", serviceName)
	}
	defer service.Close()

	// Best effort; a still-running service is deleted once it stops.
	stopAndWait(service)

	if err := service.Delete(); err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}
	if err := eventlog.Remove(serviceName); err != nil {
		fmt.Printf("warning: removing event log source: %v\n", err)
	}
	fmt.Printf("Service %q removed.\n", serviceDisplayName)
	return nil
}

func startService() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	service, err := m.OpenService(serviceName)
	if err != nil {
		return fmt.Errorf("service %s is not installed", serviceName)
	}
	defer service.Close()

	if err := service.Start(); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	fmt.Printf("Service %q started.\n", serviceDisplayName)
	return nil
}

func stopService() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	service, err := m.OpenService(serviceName)
	if err != nil {
		return fmt.Errorf("service %s is not installed", serviceName)
	}
	defer service.Close()

	if err := stopAndWait(service); err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE) {
			fmt.Printf("Service %q is not running.\n", serviceDisplayName)
			return nil
		}
		return err
	}
	fmt.Printf("Service %q stopped.\n", serviceDisplayName)
	return nil
}

func restartService() error {
	if err := stopService(); err != nil {
		return err
	}
	time.Sleep(restartSettle)
	return startService()
}

func statusService() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	service, err := m.OpenService(serviceName)
	if err != nil {
		fmt.Printf("Service %q is not installed.\n", serviceDisplayName)
		return nil
	}
	defer service.Close()

	status, err := service.Query()
	if err != nil {
		return fmt.Errorf("querying service: %w", err)
	}
	fmt.Printf("Service %q: %s (pid %d)\n", serviceDisplayName, stateName(status.State), status.ProcessId)
	return nil
}

// stopAndWait sends the stop control and polls until the service
// reaches the stopped state.
func stopAndWait(service *mgr.Service) error {
	status, err := service.Control(svc.Stop)
	if err != nil {
		return fmt.Errorf("stopping service: %w", err)
	}
	deadline := time.Now().Add(stopTimeout)
	for status.State != svc.Stopped {
		if time.Now().After(deadline) {
			return fmt.Errorf("service did not stop within %s", stopTimeout)
		}
		time.Sleep(300 * time.Millisecond)
		status, err = service.Query()
		if err != nil {
			return fmt.Errorf("querying service while stopping: %w", err)
		}
	}
	return nil
}

func stateName(state svc.State) string {
	switch state {
	case svc.Stopped:
		return "stopped"
	case svc.StartPending:
		return "start pending"
	case svc.StopPending:
		return "stop pending"
	case svc.Running:
		return "running"
	case svc.ContinuePending:
		return "continue pending"
	case svc.PausePending:
		return "pause pending"
	case svc.Paused:
		return "paused"
	}
	return fmt.Sprintf("unknown (%d)", state)
}
