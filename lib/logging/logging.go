// Copyright 2026 The OCP Helpdesk Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Defaults match the deployed service: a 1 MiB file with three rotated
// backups under the machine-wide data directory.
const (
	DefaultMaxSizeMB  = 1
	DefaultMaxBackups = 3
)

// Config describes the log sink.
type Config struct {
	// File is the log file path. Parent directories are created.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the file rotates, in megabytes.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is how many rotated files are kept.
	MaxBackups int `yaml:"max_backups"`

	// Debug lowers the level from Info to Debug.
	Debug bool `yaml:"debug"`
}

// Open creates the log directory, wires a rotating writer, and returns
// a JSON slog.Logger plus a closer for the underlying file. Also
// mirrors to the extra writer when non-nil (the debug console in
// foreground mode).
func Open(config Config, mirror io.Writer) (*slog.Logger, io.Closer, error) {
	if config.File == "" {
		return nil, nil, fmt.Errorf("log file path is empty")
	}
	if config.MaxSizeMB <= 0 {
		config.MaxSizeMB = DefaultMaxSizeMB
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = DefaultMaxBackups
	}

	if err := os.MkdirAll(filepath.Dir(config.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
	}

	var sink io.Writer = rotating
	if mirror != nil {
		sink = io.MultiWriter(rotating, mirror)
	}

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level}))
	return logger, rotating, nil
}
