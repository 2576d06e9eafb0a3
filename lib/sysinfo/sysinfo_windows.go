// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package sysinfo

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// cpuSampleWindow is how long the two GetSystemTimes samples are
// spaced. Long enough for a stable reading, short enough that ticket
// submission stays snappy.
const cpuSampleWindow = 500 * time.Millisecond

// officeIdentityKey is where signed-in Microsoft 365 desktop apps
// record the user's directory identity; the most reliable email source
// on managed machines.
const officeIdentityKey = `Software\Microsoft\Office\16.0\Common\Identity`

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGlobalMemoryStatus  = kernel32.NewProc("GlobalMemoryStatusEx")
	procGetSystemTimes      = kernel32.NewProc("GetSystemTimes")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
)

// memoryStatusEx mirrors MEMORYSTATUSEX; not exported by x/sys.
type memoryStatusEx struct {
	length               uint32
	memoryLoad           uint32
	totalPhys            uint64
	availPhys            uint64
	totalPageFile        uint64
	availPageFile        uint64
	totalVirtual         uint64
	availVirtual         uint64
	availExtendedVirtual uint64
}

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
	if title := foregroundWindowTitle(); title != "" {
		report.ActiveWindow = title
	}
	if email := userEmail(); email != "" {
		report.Email = email
	}
}

// osVersion reads the true kernel version. RtlGetVersion is not
// subject to the manifest-based compatibility lies GetVersionEx tells.
// Build 22000 is the Windows 10 / 11 split.
func osVersion() string {
	info := windows.RtlGetVersion()
	if info.BuildNumber >= 22000 {
		return fmt.Sprintf("Windows 11 (build %d)", info.BuildNumber)
	}
	return fmt.Sprintf("Windows %d (build %d)", info.MajorVersion, info.BuildNumber)
}

func memoryPercent() (float64, bool) {
	var status memoryStatusEx
	status.length = uint32(unsafe.Sizeof(status))
	ret, _, _ := procGlobalMemoryStatus.Call(uintptr(unsafe.Pointer(&status)))
	if ret == 0 {
		return 0, false
	}
	return float64(status.memoryLoad), true
}

func diskPercent() (float64, bool) {
	drive := os.Getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	root, err := windows.UTF16PtrFromString(drive + `\`)
	if err != nil {
		return 0, false
	}
	var freeToCaller, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(root, &freeToCaller, &total, &totalFree); err != nil || total == 0 {
		return 0, false
	}
	used := total - totalFree
	return float64(used) / float64(total) * 100, true
}

// cpuPercent samples GetSystemTimes twice. Kernel time includes idle
// time, so busy = (kernel + user - idle) / (kernel + user).
func (c *Collector) cpuPercent() (float64, bool) {
	idle1, kernel1, user1, ok := systemTimes()
	if !ok {
		return 0, false
	}
	c.clock.Sleep(cpuSampleWindow)
	idle2, kernel2, user2, ok := systemTimes()
	if !ok {
		return 0, false
	}

	totalDelta := (kernel2 - kernel1) + (user2 - user1)
	if totalDelta == 0 {
		return 0, false
	}
	busyDelta := totalDelta - (idle2 - idle1)
	return float64(busyDelta) / float64(totalDelta) * 100, true
}

func systemTimes() (idle, kernel, user uint64, ok bool) {
	var idleFT, kernelFT, userFT windows.Filetime
	ret, _, _ := procGetSystemTimes.Call(
		uintptr(unsafe.Pointer(&idleFT)),
		uintptr(unsafe.Pointer(&kernelFT)),
		uintptr(unsafe.Pointer(&userFT)),
	)
	if ret == 0 {
		return 0, 0, 0, false
	}
	return filetimeTicks(idleFT), filetimeTicks(kernelFT), filetimeTicks(userFT), true
}

func filetimeTicks(ft windows.Filetime) uint64 {
	return uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)
}

func foregroundWindowTitle() string {
	handle, _, _ := procGetForegroundWindow.Call()
	if handle == 0 {
		return ""
	}
	buffer := make([]uint16, 512)
	length, _, _ := procGetWindowTextW.Call(
		handle,
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(len(buffer)),
	)
	if length == 0 {
		return ""
	}
	return windows.UTF16ToString(buffer[:length])
}

// userEmail tries the Office identity registry key, then falls back to
// the process identity when it looks like a UPN.
func userEmail() string {
	key, err := registry.OpenKey(registry.CURRENT_USER, officeIdentityKey, registry.QUERY_VALUE)
	if err == nil {
		defer key.Close()
		if value, _, err := key.GetStringValue("ADUserName"); err == nil && strings.Contains(value, "@") {
			return value
		}
	}
	if name := os.Getenv("USERNAME"); strings.Contains(name, "@") {
		return name
	}
	return ""
}
