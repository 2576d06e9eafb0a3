// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sys/windows/svc"

	"github.com/ocp-it/helpdesk/lib/process"
	"github.com/ocp-it/helpdesk/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("helpdesk-supervisor", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to helpdesk.yaml (default: next to the executable)")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fmt.Fprint(os.Stderr, flags.FlagUsages())
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version.Info())
		return nil
	}

	// Under the service control manager there is no command verb; the
	// SCM just executes the binary.
	isService, err := svc.IsWindowsService()
	if err != nil {
		return fmt.Errorf("detecting service environment: %w", err)
	}
	if isService {
		return runService(*configPath, false)
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return fmt.Errorf("missing command")
	}

	switch command := strings.ToLower(flags.Arg(0)); command {
	case "install":
		return installService()
	case "uninstall", "remove":
		return uninstallService()
	case "start":
		return startService()
	case "stop":
		return stopService()
	case "restart":
		return restartService()
	case "status":
		return statusService()
	case "debug":
		return runService(*configPath, true)
	default:
		return fmt.Errorf("unknown command %q (valid: install, uninstall, start, stop, restart, status, debug)", command)
	}
}

const usage = `OCP IT Helpdesk supervisor.

Usage: helpdesk-supervisor <command>

Commands (run as Administrator):
  install    Install the service (auto-start on boot)
  uninstall  Remove the service
  start      Start the service
  stop       Stop the service
  restart    Restart the service
  status     Check service status
  debug      Run the supervision loop in the foreground
`
