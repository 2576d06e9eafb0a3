// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ocp-it/helpdesk/lib/logging"
)

// DefaultFileName is the config file looked up next to the executable
// when neither the flag nor the environment names one.
const DefaultFileName = "helpdesk.yaml"

// Duration is a time.Duration that unmarshals from YAML strings like
// "3s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"3s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full configuration for both helpdesk binaries.
type Config struct {
	// Agent configures the supervised agent process.
	Agent AgentConfig `yaml:"agent"`

	// Log configures the rotating log sink.
	Log logging.Config `yaml:"log"`

	// Supervisor holds the loop tunables.
	Supervisor SupervisorConfig `yaml:"supervisor"`

	// Ticket configures the helpdesk API client.
	Ticket TicketConfig `yaml:"ticket"`
}

// AgentConfig locates the agent executable.
type AgentConfig struct {
	// Executable is the agent binary: an absolute path, or a bare
	// name resolved relative to the supervisor's own directory.
	Executable string `yaml:"executable"`
}

// SupervisorConfig overrides the supervision loop intervals. Zero
// values fall back to the loop's defaults (3s poll, 5s restart delay,
// 10s session wait).
type SupervisorConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
	RestartDelay Duration `yaml:"restart_delay"`
	SessionWait  Duration `yaml:"session_wait"`
}

// TicketConfig holds the HappyFox-style ticket API settings.
type TicketConfig struct {
	// Endpoint is the ticket creation URL.
	Endpoint string `yaml:"endpoint"`

	// APIKey and AuthCode form the basic-auth pair.
	APIKey   string `yaml:"api_key"`
	AuthCode string `yaml:"auth_code"`

	// DefaultEmail is the contact fallback when the submitting user's
	// email cannot be determined.
	DefaultEmail string `yaml:"default_email"`

	// Category is the helpdesk category tickets are filed under.
	Category int `yaml:"category"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Agent: AgentConfig{Executable: "helpdesk-agent.exe"},
		Log: logging.Config{
			File:       filepath.Join(programDataDir(), "OCPHelpdesk", "supervisor.log"),
			MaxSizeMB:  logging.DefaultMaxSizeMB,
			MaxBackups: logging.DefaultMaxBackups,
		},
		Ticket: TicketConfig{Category: 1},
	}
}

// programDataDir is the machine-wide data directory. The ProgramData
// environment variable is set on every Windows session including
// service sessions; the literal fallback covers stripped environments.
func programDataDir() string {
	if dir := os.Getenv("ProgramData"); dir != "" {
		return dir
	}
	return `C:\ProgramData`
}

// Load resolves and reads the configuration. explicitPath comes from
// the --config flag and must exist when non-empty. Returns the config
// and the path it was loaded from ("" when running on pure defaults).
func Load(explicitPath string) (Config, string, error) {
	config := Default()

	path := explicitPath
	if path == "" {
		path = os.Getenv("HELPDESK_CONFIG")
	}
	required := path != ""
	if path == "" {
		executable, err := os.Executable()
		if err == nil {
			path = filepath.Join(filepath.Dir(executable), DefaultFileName)
		}
	}

	loadedFrom := ""
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := parse(data, &config); err != nil {
				return Config{}, "", fmt.Errorf("parsing %s: %w", path, err)
			}
			loadedFrom = path
		case os.IsNotExist(err) && !required:
			// Implicit default file absent: run on defaults.
		default:
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnvironment(&config)
	return config, loadedFrom, nil
}

// parse decodes YAML strictly: unknown keys are errors, so a typo in a
// tunable name surfaces at startup instead of silently running with a
// default.
func parse(data []byte, config *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return err
	}
	return nil
}

// applyEnvironment layers the HAPPYFOX_* variables over the file, for
// deployments that push credentials via machine environment rather
// than files.
func applyEnvironment(config *Config) {
	if v := os.Getenv("HAPPYFOX_ENDPOINT"); v != "" {
		config.Ticket.Endpoint = v
	}
	if v := os.Getenv("HAPPYFOX_API_KEY"); v != "" {
		config.Ticket.APIKey = v
	}
	if v := os.Getenv("HAPPYFOX_AUTH_CODE"); v != "" {
		config.Ticket.AuthCode = v
	}
	if v := os.Getenv("HAPPYFOX_DEFAULT_EMAIL"); v != "" {
		config.Ticket.DefaultEmail = v
	}
}
