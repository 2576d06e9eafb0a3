// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket submits support tickets to a HappyFox-style helpdesk
// API. Tickets are created on behalf of the logged-in user: the
// collected name and email become the ticket contact, so the helpdesk
// associates the ticket with that user.
package ticket
