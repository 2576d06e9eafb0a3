// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package sysinfo

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// cpuSampleWindow spaces the two /proc/stat samples.
const cpuSampleWindow = 500 * time.Millisecond

func (c *Collector) probePlatform(report *Report) {
	report.OSVersion = osVersion()
	if percent, ok := memoryPercent(); ok {
		report.MemoryPercent = percent
	}
	if percent, ok := diskPercent(); ok {
		report.DiskPercent = percent
	}
	if percent, ok := c.cpuPercent(); ok {
		report.CPUPercent = percent
	}
	// Foreground window and directory email have no portable Linux
	// story; they keep their placeholders.
}

func osVersion() string {
	if pretty := osReleasePrettyName(); pretty != "" {
		return pretty
	}
	var name unix.Utsname
	if err := unix.Uname(&name); err != nil {
		return "Linux"
	}
	return strings.TrimRight(string(name.Sysname[:]), "\x00") + " " +
		strings.TrimRight(string(name.Release[:]), "\x00")
}

func osReleasePrettyName() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	return parseOSRelease(data)
}

func parseOSRelease(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		value, found := strings.CutPrefix(line, "PRETTY_NAME=")
		if !found {
			continue
		}
		return strings.Trim(value, `"`)
	}
	return ""
}

func memoryPercent() (float64, bool) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, false
	}
	return parseMeminfo(data)
}

// parseMeminfo computes used percent from MemTotal and MemAvailable,
// the kernel's own notion of reclaimable headroom.
func parseMeminfo(data []byte) (float64, bool) {
	var totalKB, availableKB uint64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = value
		case "MemAvailable:":
			availableKB = value
		}
	}
	if totalKB == 0 || availableKB > totalKB {
		return 0, false
	}
	return float64(totalKB-availableKB) / float64(totalKB) * 100, true
}

func diskPercent() (float64, bool) {
	var stat unix.Statfs_t
	if err := unix.Statfs("/", &stat); err != nil || stat.Blocks == 0 {
		return 0, false
	}
	used := stat.Blocks - stat.Bfree
	return float64(used) / float64(stat.Blocks) * 100, true
}

func (c *Collector) cpuPercent() (float64, bool) {
	busy1, total1, ok := cpuTimes()
	if !ok {
		return 0, false
	}
	c.clock.Sleep(cpuSampleWindow)
	busy2, total2, ok := cpuTimes()
	if !ok || total2 == total1 {
		return 0, false
	}
	return float64(busy2-busy1) / float64(total2-total1) * 100, true
}

func cpuTimes() (busy, total uint64, ok bool) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return 0, 0, false
	}
	return parseCPULine(data)
}

// parseCPULine reads the aggregate "cpu" line of /proc/stat. Busy is
// everything except idle and iowait.
func parseCPULine(data []byte) (busy, total uint64, ok bool) {
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		var values []uint64
		for _, field := range fields[1:] {
			value, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return 0, 0, false
			}
			values = append(values, value)
		}
		for _, value := range values {
			total += value
		}
		idle := values[3]
		if len(values) > 4 {
			idle += values[4] // iowait
		}
		return total - idle, total, true
	}
	return 0, 0, false
}
