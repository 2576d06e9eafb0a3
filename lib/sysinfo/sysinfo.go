// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/ocp-it/helpdesk/lib/clock"
)

// Unknown is the placeholder for string probes that failed.
const Unknown = "N/A"

// publicIPBudget bounds the external address lookup; ticket submission
// must not hang on an offline machine.
const publicIPBudget = 3 * time.Second

// DefaultPublicIPURL is the external service that echoes the caller's
// public address.
const DefaultPublicIPURL = "https://api.ipify.org"

// Report is a snapshot of machine diagnostics.
type Report struct {
	Hostname   string
	Username   string
	Email      string
	LocalIP    string
	PublicIP   string
	MACAddress string
	OSVersion  string

	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64

	ActiveWindow string
	CollectedAt  time.Time
}

// Collector gathers reports. The zero value is not usable; construct
// with NewCollector.
type Collector struct {
	httpClient  *http.Client
	clock       clock.Clock
	publicIPURL string
}

// Option adjusts a Collector.
type Option func(*Collector)

// WithHTTPClient substitutes the HTTP client used for the public IP
// lookup (tests point it at a local server).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Collector) { c.httpClient = client }
}

// WithPublicIPURL substitutes the public IP echo endpoint.
func WithPublicIPURL(url string) Option {
	return func(c *Collector) { c.publicIPURL = url }
}

// WithClock substitutes the clock used for CPU sampling.
func WithClock(clk clock.Clock) Option {
	return func(c *Collector) { c.clock = clk }
}

// NewCollector returns a Collector with production defaults.
func NewCollector(options ...Option) *Collector {
	c := &Collector{
		httpClient:  &http.Client{},
		clock:       clock.Real(),
		publicIPURL: DefaultPublicIPURL,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Collect gathers a full report. Never returns an error: failed probes
// leave their placeholder values. The context bounds the network
// probes only; local probes are bounded OS calls.
func (c *Collector) Collect(ctx context.Context) Report {
	report := Report{
		Hostname:     Unknown,
		Username:     Unknown,
		LocalIP:      Unknown,
		PublicIP:     Unknown,
		MACAddress:   Unknown,
		OSVersion:    Unknown,
		ActiveWindow: Unknown,
		CollectedAt:  c.clock.Now(),
	}

	if hostname, err := os.Hostname(); err == nil {
		report.Hostname = hostname
	}
	if username := currentUsername(); username != "" {
		report.Username = username
	}
	if ip := localIP(); ip != "" {
		report.LocalIP = ip
	}
	if mac := primaryMAC(); mac != "" {
		report.MACAddress = mac
	}
	if ip := c.publicIP(ctx); ip != "" {
		report.PublicIP = ip
	}

	c.probePlatform(&report)
	return report
}

// currentUsername prefers the OS account lookup and falls back to the
// environment, trimming any DOMAIN\ prefix for readability.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	if name := os.Getenv("USERNAME"); name != "" {
		return name
	}
	return os.Getenv("USER")
}

// localIP discovers the outbound interface address by opening a UDP
// socket toward a public resolver. No packet is sent; connect on UDP
// only selects a route.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	address, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return address.IP.String()
}

// primaryMAC returns the hardware address of the first up, non-loopback
// interface that has one.
func primaryMAC() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return strings.ToUpper(iface.HardwareAddr.String())
	}
	return ""
}

// publicIP asks an external echo service for the machine's public
// address, within a short budget.
func (c *Collector) publicIP(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, publicIPBudget)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.publicIPURL, nil)
	if err != nil {
		return ""
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return ""
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(response.Body, 64))
	if err != nil {
		return ""
	}
	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}

// DescriptionBlock renders the report as the "--- System Information
// ---" block appended to ticket descriptions.
func (r Report) DescriptionBlock() string {
	var b strings.Builder
	b.WriteString("--- System Information ---\n")
	fmt.Fprintf(&b, "Hostname: %s\n", r.Hostname)
	fmt.Fprintf(&b, "Username: %s\n", r.Username)
	fmt.Fprintf(&b, "Local IP: %s\n", r.LocalIP)
	fmt.Fprintf(&b, "Public IP: %s\n", r.PublicIP)
	fmt.Fprintf(&b, "MAC Address: %s\n", r.MACAddress)
	fmt.Fprintf(&b, "OS: %s\n", r.OSVersion)
	fmt.Fprintf(&b, "CPU Usage: %.1f%%\n", r.CPUPercent)
	fmt.Fprintf(&b, "RAM Usage: %.1f%%\n", r.MemoryPercent)
	fmt.Fprintf(&b, "Disk Usage: %.1f%%\n", r.DiskPercent)
	fmt.Fprintf(&b, "Active Window: %s\n", r.ActiveWindow)
	return b.String()
}
