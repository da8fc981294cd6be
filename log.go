// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/Shashankss1205/libbitcoin-node/config"
	"github.com/Shashankss1205/libbitcoin-node/organizer"
)

// logWriter implements io.Writer and writes to both standard output and
// the rotating log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})
	logRotator *rotator.Rotator

	subsystemLoggers = map[string]btclog.Logger{
		"ORGN": backendLog.Logger("ORGN"),
		"CORD": backendLog.Logger("CORD"),
	}

	orgnLog = subsystemLoggers["ORGN"]
)

// initLogRotator opens the log rotator.
func initLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevels sets the log level for every registered subsystem logger.
func setLogLevels(levelStr string) {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		return
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}

// wireLoggers installs each subsystem logger into the package that owns
// it.
func wireLoggers() {
	organizer.UseLogger(subsystemLoggers["ORGN"])
	config.UseLogger(subsystemLoggers["CORD"])
}
