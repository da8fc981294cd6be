// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shashankss1205/libbitcoin-node/organizer"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.DebugLevel)
	require.Equal(t, uint32(1440), cfg.CurrencyWindowMinutes)
	require.False(t, cfg.HeadersFirst)
}

func TestLoad_RejectsInvalidDebugLevel(t *testing.T) {
	_, err := Load([]string{"--debuglevel=noisy"})
	require.Error(t, err)
}

func TestOrganizerCheckpoints_SkipsMalformedEntries(t *testing.T) {
	hash, err := organizer.NewHashFromStr("000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26")
	require.NoError(t, err)

	cfg := &Config{
		Checkpoints: []string{
			"000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26:0",
			"not-a-valid-entry",
			"deadbeef",
		},
	}
	cps := cfg.OrganizerCheckpoints()
	require.Len(t, cps, 1)
	require.Equal(t, int32(0), cps[0].Height)
	require.Equal(t, hash, cps[0].Hash)
}

func TestOrganizerMilestone_EmptyIsNil(t *testing.T) {
	cfg := &Config{}
	require.Nil(t, cfg.OrganizerMilestone())
}

func TestOrganizerMilestone_ParsesConfigured(t *testing.T) {
	cfg := &Config{Milestone: "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26:100"}
	milestone := cfg.OrganizerMilestone()
	require.NotNil(t, milestone)
	require.Equal(t, int32(100), milestone.Height)
}
