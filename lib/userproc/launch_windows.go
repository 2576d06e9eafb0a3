// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package userproc

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ocp-it/helpdesk/lib/session"
	"github.com/ocp-it/helpdesk/lib/supervisor"
)

// interactiveDesktop is the window station and desktop the agent is
// created on: the visible desktop of the interactive session.
const interactiveDesktop = `winsta0\default`

// Launcher implements supervisor.Launcher with CreateProcessAsUser.
type Launcher struct{}

// New returns the production launcher.
func New() Launcher { return Launcher{} }

// Launch starts executable in the given session as that session's
// interactive user. The process window is hidden, no console is
// inherited, and the working directory is the executable's own
// directory. All failure kinds come back as a single wrapped error;
// the supervisor's retry policy treats them uniformly.
func (Launcher) Launch(executable string, id session.ID) (supervisor.Process, error) {
	// The token of the user logged into the session. Fails when the
	// session has no interactive user (e.g. mid-logon) or on a
	// transient query error; both are retried by the caller.
	var sessionToken windows.Token
	if err := windows.WTSQueryUserToken(uint32(id), &sessionToken); err != nil {
		return nil, fmt.Errorf("querying user token for session %d: %w", id, err)
	}
	defer sessionToken.Close()

	// WTSQueryUserToken yields an impersonation-capable token;
	// process creation needs a primary one.
	var primaryToken windows.Token
	err := windows.DuplicateTokenEx(
		sessionToken,
		windows.MAXIMUM_ALLOWED,
		nil,
		windows.SecurityImpersonation,
		windows.TokenPrimary,
		&primaryToken,
	)
	if err != nil {
		return nil, fmt.Errorf("duplicating token into primary: %w", err)
	}
	defer primaryToken.Close()

	// The agent must see the interactive user's environment (profile
	// paths, HOME, proxy settings), not LocalSystem's.
	var environment *uint16
	if err := windows.CreateEnvironmentBlock(&environment, primaryToken, false); err != nil {
		return nil, fmt.Errorf("building user environment block: %w", err)
	}
	defer windows.DestroyEnvironmentBlock(environment)

	// Quote the path: CreateProcessAsUser parses the command line.
	commandLine, err := windows.UTF16PtrFromString(`"` + executable + `"`)
	if err != nil {
		return nil, fmt.Errorf("encoding command line: %w", err)
	}
	workingDirectory, err := windows.UTF16PtrFromString(filepath.Dir(executable))
	if err != nil {
		return nil, fmt.Errorf("encoding working directory: %w", err)
	}
	desktop, err := windows.UTF16PtrFromString(interactiveDesktop)
	if err != nil {
		return nil, fmt.Errorf("encoding desktop name: %w", err)
	}

	startup := windows.StartupInfo{
		Desktop:    desktop,
		Flags:      windows.STARTF_USESHOWWINDOW,
		ShowWindow: windows.SW_HIDE,
	}
	startup.Cb = uint32(unsafe.Sizeof(startup))

	// CREATE_UNICODE_ENVIRONMENT is required: the environment block
	// above is UTF-16.
	const creationFlags = windows.CREATE_NO_WINDOW |
		windows.CREATE_UNICODE_ENVIRONMENT |
		windows.NORMAL_PRIORITY_CLASS

	var info windows.ProcessInformation
	err = windows.CreateProcessAsUser(
		primaryToken,
		nil,
		commandLine,
		nil,
		nil,
		false,
		creationFlags,
		environment,
		workingDirectory,
		&startup,
		&info,
	)
	if err != nil {
		return nil, fmt.Errorf("creating process as session %d user: %w", id, err)
	}

	// The thread handle is never used; the process handle becomes the
	// Child's sole owned resource.
	windows.CloseHandle(info.Thread)

	return &Child{handle: info.Process, pid: info.ProcessId}, nil
}
