// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Helpdesk-submit files an IT support ticket from the command line. It
// gathers machine diagnostics, appends them to the ticket description,
// and posts the ticket to the configured helpdesk endpoint. An
// already-captured PNG screenshot can be attached with --screenshot.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ocp-it/helpdesk/lib/config"
	"github.com/ocp-it/helpdesk/lib/process"
	"github.com/ocp-it/helpdesk/lib/sysinfo"
	"github.com/ocp-it/helpdesk/lib/ticket"
	"github.com/ocp-it/helpdesk/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("helpdesk-submit", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to helpdesk.yaml (default: next to the executable)")
	subject := flags.String("subject", "", "ticket subject")
	description := flags.String("description", "", "problem description")
	priority := flags.String("priority", ticket.PriorityMedium, "ticket priority: Low, Medium, or High")
	screenshotPath := flags.String("screenshot", "", "path to a PNG screenshot to attach")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version.Info())
		return nil
	}

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var screenshot []byte
	if *screenshotPath != "" {
		screenshot, err = os.ReadFile(*screenshotPath)
		if err != nil {
			return fmt.Errorf("reading screenshot: %w", err)
		}
	}

	fmt.Println("Gathering system information...")
	report := sysinfo.NewCollector().Collect(context.Background())

	client := ticket.NewClient(cfg.Ticket)
	_, err = client.Submit(context.Background(), ticket.Request{
		Subject:     *subject,
		Description: *description,
		Priority:    *priority,
		Screenshot:  screenshot,
	}, report)
	if err != nil {
		if errors.Is(err, ticket.ErrNoContactEmail) {
			return fmt.Errorf("%w; please contact IT support directly", err)
		}
		return err
	}

	fmt.Println("Ticket submitted successfully!")
	return nil
}
