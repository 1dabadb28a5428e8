// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsheet/logging.go
// Summary: Log file setup; the terminal belongs to the UI while running.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/framegrace/texelsheet/config"
)

// resolveLogPath picks the -log flag, then the log_file system key, then
// logs/texelsheet.log under the config root.
func resolveLogPath(flagValue string, sys config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := sys.GetString("", "log_file", ""); p != "" {
		return p, nil
	}
	root, err := config.Root()
	if err != nil {
		return "", fmt.Errorf("resolve config root: %w", err)
	}
	return filepath.Join(root, "logs", "texelsheet.log"), nil
}

// setupLogging sends the standard logger to path and returns a closer
// that restores stderr.
func setupLogging(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
