// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package userproc

import (
	"os/exec"
	"testing"

	"golang.org/x/sys/windows"
)

// startChild runs a throwaway process and wraps its handle in a Child,
// the same way Launch does for real agents.
func startChild(t *testing.T, name string, args ...string) (*exec.Cmd, *Child) {
	t.Helper()
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting %s: %v", name, err)
	}
	t.Cleanup(func() {
		cmd.Process.Kill()
		cmd.Wait()
	})

	const access = windows.PROCESS_QUERY_LIMITED_INFORMATION |
		windows.PROCESS_TERMINATE | windows.SYNCHRONIZE
	handle, err := windows.OpenProcess(access, false, uint32(cmd.Process.Pid))
	if err != nil {
		t.Fatalf("opening process %d: %v", cmd.Process.Pid, err)
	}
	return cmd, &Child{handle: handle, pid: uint32(cmd.Process.Pid)}
}

// longRunner blocks for about a minute, long enough for the test to
// terminate it first.
func longRunner(t *testing.T) *Child {
	t.Helper()
	_, child := startChild(t, "ping", "-n", "60", "127.0.0.1")
	return child
}

func TestTerminateIsIdempotent(t *testing.T) {
	child := longRunner(t)
	if !child.Alive() {
		t.Fatal("child not alive after start")
	}
	if err := child.Terminate(); err != nil {
		t.Fatalf("first Terminate: %v", err)
	}
	if err := child.Terminate(); err != nil {
		t.Fatalf("second Terminate: %v", err)
	}
	if child.Alive() {
		t.Fatal("child reported alive after Terminate")
	}
}

func TestTerminateAfterRelease(t *testing.T) {
	child := longRunner(t)
	if err := child.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := child.Terminate(); err != nil {
		t.Fatalf("Terminate after Release: %v", err)
	}
	if err := child.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if child.Alive() {
		t.Fatal("released child reported alive")
	}
}

func TestReleaseAfterTerminate(t *testing.T) {
	child := longRunner(t)
	if err := child.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if err := child.Release(); err != nil {
		t.Fatalf("Release after Terminate: %v", err)
	}
}

func TestTerminateExitedChild(t *testing.T) {
	cmd, child := startChild(t, "cmd.exe", "/c", "exit")
	cmd.Wait()
	if child.Alive() {
		t.Fatal("exited child reported alive")
	}
	if err := child.Terminate(); err != nil {
		t.Fatalf("Terminate on exited child: %v", err)
	}
	if err := child.Terminate(); err != nil {
		t.Fatalf("repeat Terminate on exited child: %v", err)
	}
}
