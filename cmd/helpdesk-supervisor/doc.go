// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Helpdesk-supervisor is the privileged Windows service that keeps the
// OCP IT Helpdesk agent running in the active console session. It runs
// as LocalSystem, auto-starts on boot, launches the agent as the
// logged-in user, and restarts it if it crashes.
//
// Service management (run as Administrator):
//
//	helpdesk-supervisor install    Install the service (auto-start on boot)
//	helpdesk-supervisor uninstall  Remove the service
//	helpdesk-supervisor start      Start the service
//	helpdesk-supervisor stop       Stop the service
//	helpdesk-supervisor restart    Restart the service
//	helpdesk-supervisor status     Check service status
//	helpdesk-supervisor debug      Run the supervision loop in the foreground
//
// When started by the service control manager it runs the supervision
// loop until stopped.
package main
