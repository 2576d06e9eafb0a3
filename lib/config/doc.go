// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the helpdesk suite configuration.
//
// Configuration comes from a single YAML file, resolved in order:
//
//   - the --config flag, or
//   - the HELPDESK_CONFIG environment variable, or
//   - helpdesk.yaml next to the executable.
//
// There is no search path beyond that. An explicitly named file must
// exist; the implicit default may be absent, in which case built-in
// defaults apply; the service has to come up on machines imaged
// without a config file.
//
// Ticket API credentials may additionally be supplied through the
// HAPPYFOX_* environment variables, which override the file.
package config
