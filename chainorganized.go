// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command chainorganized is a minimal demonstration host for the chain
// organizer: it wires configuration, logging, a persistent reference
// store, and graceful shutdown together the way btcd.go wires the full
// node together, but exposes only the organizer subsystem.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Shashankss1205/libbitcoin-node/config"
	"github.com/Shashankss1205/libbitcoin-node/organizer"
	"github.com/Shashankss1205/libbitcoin-node/store/memstore"
)

func chainOrganizedMain() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir, "chainorganized.log")); err != nil {
		return err
	}
	wireLoggers()
	setLogLevels(cfg.DebugLevel)

	interrupt := interruptListener()
	defer orgnLog.Info("Shutdown complete")

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return err
	}

	store, err := memstore.OpenLevelDB(filepath.Join(cfg.DataDir, "archive"))
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	if links, err := store.LoadSnapshot(); err != nil {
		orgnLog.Warnf("failed to read prior snapshot: %v", err)
	} else if len(links) > 0 {
		orgnLog.Infof("found prior snapshot with %d candidate links", len(links))
	}

	genesis := &organizer.Header{
		Version:   1,
		Timestamp: time.Unix(0, 0),
		Bits:      0x1d00ffff,
	}
	settings := &organizer.Settings{ActivationThreshold: 1815, ActivationWindow: 2016, MinBlockVersion: 1}
	genesisState := organizer.RollChainState(nil, genesis, settings)
	store.SeedGenesis(genesis, genesisState)

	var mode organizer.Mode
	if cfg.HeadersFirst {
		mode = organizer.HeaderMode{}
	} else {
		mode = organizer.BlockMode{}
	}

	org := organizer.New(store, mode, organizer.Config{
		Checkpoints:           cfg.OrganizerCheckpoints(),
		Milestone:             cfg.OrganizerMilestone(),
		CurrencyWindowMinutes: cfg.CurrencyWindowMinutes,
		Settings:              settings,
	})

	org.Subscribe(func(n *organizer.Notification) {
		orgnLog.Debugf("event %s height=%d", n.Type, n.Height)
	})

	if err := org.Start(); err != nil {
		return fmt.Errorf("failed to start organizer: %w", err)
	}

	orgnLog.Info("Chain organizer started")
	<-interrupt
	org.Stop()
	_ = store.SaveSnapshot()
	return nil
}

func main() {
	if err := chainOrganizedMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
