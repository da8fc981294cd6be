// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads the chain organizer's configuration, following the
// go-flags struct-tag idiom, matching the jessevdk/go-flags fork the
// module depends on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/Shashankss1205/libbitcoin-node/organizer"
)

const (
	defaultDataDirname  = "data"
	defaultLogDirname   = "logs"
	defaultLogLevel     = "info"
)

// Config holds every option the organizer and its host process recognize.
// Checkpoints, Milestone, CurrencyWindowMinutes, and HeadersFirst drive
// the organizer directly; DataDir, LogDir, DebugLevel, and ConfigFile are
// the ambient options every btcd-style config struct carries.
type Config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store archived headers/blocks"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	Checkpoints           []string `long:"checkpoint" description:"Additional checkpoints as hash:height pairs"`
	Milestone             string   `long:"milestone" description:"Optional single bypass point as hash:height"`
	CurrencyWindowMinutes uint32   `long:"currencywindow" description:"Minutes within which a block timestamp is considered current; 0 disables the check" default:"1440"`
	HeadersFirst          bool     `long:"headersfirst" description:"Run the organizer in header-first mode instead of blocks-first"`
}

// defaultHomeDir returns the organizer's default application directory,
// matching the conventional cross-platform home-directory resolution
// btcd-style nodes use for their default application directory.
func defaultHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".chainorganized")
	}
	return "."
}

// cleanAndExpandPath expands leading ~ references and cleans the
// resulting path.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "critical": true,
}

// validLogLevel reports whether logLevel names a recognized level.
func validLogLevel(logLevel string) bool {
	return validLogLevels[logLevel]
}

// Load parses command-line arguments into a Config, applying the usual
// default-resolution steps: home-dir defaults, path cleaning, and
// validation. The --configfile option is accepted, but no file is read.
func Load(args []string) (*Config, error) {
	cfg := Config{
		DataDir:    filepath.Join(defaultHomeDir(), defaultDataDirname),
		LogDir:     filepath.Join(defaultHomeDir(), defaultLogDirname),
		DebugLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if !validLogLevel(cfg.DebugLevel) {
		return nil, fmt.Errorf("the specified debug level %q is invalid", cfg.DebugLevel)
	}

	return &cfg, nil
}

// OrganizerCheckpoints parses the configured --checkpoint flags into
// organizer.Checkpoint values, skipping any that fail to parse (a
// malformed checkpoint flag is an operator error, logged here as a
// warning, not a fatal one).
func (c *Config) OrganizerCheckpoints() []organizer.Checkpoint {
	var out []organizer.Checkpoint
	for _, raw := range c.Checkpoints {
		cp, ok := parseCheckpointFlag(raw)
		if !ok {
			log.Warnf("ignoring malformed checkpoint flag %q", raw)
			continue
		}
		out = append(out, cp)
	}
	return out
}

// OrganizerMilestone parses the configured --milestone flag, if any.
func (c *Config) OrganizerMilestone() *organizer.Checkpoint {
	if c.Milestone == "" {
		return nil
	}
	if cp, ok := parseCheckpointFlag(c.Milestone); ok {
		return &cp
	}
	return nil
}

func parseCheckpointFlag(raw string) (organizer.Checkpoint, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return organizer.Checkpoint{}, false
	}
	hash, err := organizer.NewHashFromStr(parts[0])
	if err != nil {
		return organizer.Checkpoint{}, false
	}
	var height int32
	if _, err := fmt.Sscanf(parts[1], "%d", &height); err != nil {
		return organizer.Checkpoint{}, false
	}
	return organizer.Checkpoint{Height: height, Hash: hash}, true
}
