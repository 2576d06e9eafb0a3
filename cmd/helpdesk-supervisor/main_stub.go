// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package main

import (
	"errors"

	"github.com/ocp-it/helpdesk/lib/process"
)

// Session tokens and the service control manager only exist on
// Windows; on other platforms the binary just explains itself.
func main() {
	process.Fatal(errors.New("helpdesk-supervisor requires Windows"))
}
