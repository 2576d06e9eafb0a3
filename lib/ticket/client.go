// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ocp-it/helpdesk/lib/config"
	"github.com/ocp-it/helpdesk/lib/sysinfo"
)

// DefaultSubject is used when the submitter leaves the subject blank.
const DefaultSubject = "OCP IT Help Center Request"

// submitTimeout bounds a single submission end to end.
const submitTimeout = 30 * time.Second

// errorBodyLimit caps how much of a failure response is echoed back to
// the user.
const errorBodyLimit = 200

// ErrNoContactEmail means no usable email could be determined for the
// ticket contact. Callers should tell the user to contact IT support
// directly.
var ErrNoContactEmail = errors.New("could not determine a contact email address")

// Priorities as the helpdesk API numbers them.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var priorityNumbers = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Request is one ticket submission. Screenshot, when non-nil, is an
// already-encoded PNG attached to the ticket.
type Request struct {
	Subject     string
	Description string
	Priority    string
	Screenshot  []byte
}

// Client talks to the helpdesk API.
type Client struct {
	config     config.TicketConfig
	httpClient *http.Client
}

// Option adjusts a Client.
type Option func(*Client)

// WithHTTPClient substitutes the HTTP client (tests point it at a
// local server).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// NewClient returns a Client for the configured endpoint.
func NewClient(cfg config.TicketConfig, options ...Option) *Client {
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: submitTimeout},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Submit files the ticket, appending the diagnostic report to the
// description. Returns the raw response body on success so callers can
// surface the created ticket to the user.
func (c *Client) Submit(ctx context.Context, request Request, report sysinfo.Report) (string, error) {
	if c.config.Endpoint == "" {
		return "", errors.New("no ticket endpoint configured")
	}

	email, err := c.contactEmail(report)
	if err != nil {
		return "", err
	}

	fields := url.Values{}
	fields.Set("subject", subjectOrDefault(request.Subject))
	fields.Set("text", buildDescription(request.Description, report))
	fields.Set("priority", strconv.Itoa(priorityNumber(request.Priority)))
	fields.Set("name", contactName(report))
	fields.Set("email", email)
	fields.Set("category", strconv.Itoa(c.config.Category))

	body, contentType, err := encodeBody(fields, request.Screenshot)
	if err != nil {
		return "", fmt.Errorf("encoding ticket: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", contentType)
	httpRequest.Header.Set("X-Request-ID", uuid.NewString())
	httpRequest.SetBasicAuth(c.config.APIKey, c.config.AuthCode)

	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("server returned status %d: %s",
			response.StatusCode, truncate(string(responseBody), errorBodyLimit))
	}
	return string(responseBody), nil
}

// contactEmail picks the ticket contact: the collected email when it
// looks like an address, the configured default otherwise.
func (c *Client) contactEmail(report sysinfo.Report) (string, error) {
	if strings.Contains(report.Email, "@") {
		return report.Email, nil
	}
	if c.config.DefaultEmail != "" {
		return c.config.DefaultEmail, nil
	}
	return "", ErrNoContactEmail
}

func contactName(report sysinfo.Report) string {
	if report.Username != "" && report.Username != sysinfo.Unknown {
		return report.Username
	}
	return "User"
}

func subjectOrDefault(subject string) string {
	if strings.TrimSpace(subject) == "" {
		return DefaultSubject
	}
	return subject
}

func priorityNumber(priority string) int {
	if number, ok := priorityNumbers[priority]; ok {
		return number
	}
	return priorityNumbers[PriorityMedium]
}

func buildDescription(description string, report sysinfo.Report) string {
	if strings.TrimSpace(description) == "" {
		description = "No description provided."
	}
	return description + "\n\n" + report.DescriptionBlock()
}

// encodeBody produces a urlencoded form, or a multipart form when a
// screenshot rides along.
func encodeBody(fields url.Values, screenshot []byte) (io.Reader, string, error) {
	if screenshot == nil {
		return strings.NewReader(fields.Encode()), "application/x-www-form-urlencoded", nil
	}

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for name, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				return nil, "", err
			}
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="attachments"; filename="screenshot.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(screenshot); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buffer, writer.FormDataContentType(), nil
}

// classifyTransportError keeps the user-facing distinction between a
// dead network and a slow server.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out, please try again: %w", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out, please try again: %w", err)
	}
	return fmt.Errorf("connection error, check your network and helpdesk endpoint: %w", err)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
