// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAgentPathEmpty(t *testing.T) {
	if _, err := resolveAgentPath(""); err == nil {
		t.Fatal("empty executable accepted")
	}
}

// A configured path that does not exist yet must still resolve: the
// installer may lay the agent down after the service starts, and the
// launch retry loop handles the gap.
func TestResolveAgentPathMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "not-installed-yet.exe")
	got, err := resolveAgentPath(missing)
	if err != nil {
		t.Fatalf("resolveAgentPath: %v", err)
	}
	if got != missing {
		t.Fatalf("path = %q, want %q", got, missing)
	}
}

func TestResolveAgentPathRelative(t *testing.T) {
	got, err := resolveAgentPath("helpdesk-agent.exe")
	if err != nil {
		t.Fatalf("resolveAgentPath: %v", err)
	}
	self, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	want := filepath.Join(filepath.Dir(self), "helpdesk-agent.exe")
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}
