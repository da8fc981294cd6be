// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package memstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	organizer "github.com/Shashankss1205/libbitcoin-node/organizer"
)

func TestStore_SeedGenesisAndLookup(t *testing.T) {
	s := New()
	genesis := &organizer.Header{Bits: 0x207fffff, Timestamp: time.Unix(1, 0)}
	state := organizer.RollChainState(nil, genesis, nil)
	link := s.SeedGenesis(genesis, state)

	require.Equal(t, int32(0), s.GetTopCandidate())
	require.Equal(t, int32(0), s.GetTopConfirmed())
	require.True(t, s.IsCandidateHeader(link))
	require.True(t, s.IsConfirmedBlock(link))

	key, ok := s.GetHeaderKey(link)
	require.True(t, ok)
	require.Equal(t, genesis.BlockHash(), key)

	require.Equal(t, link, s.ToHeader(genesis.BlockHash()))
	require.Equal(t, organizer.TerminalLink, s.ToParent(link))
}

func TestStore_PushAndPopCandidate(t *testing.T) {
	s := New()
	genesis := &organizer.Header{Bits: 0x207fffff, Timestamp: time.Unix(1, 0)}
	genesisState := organizer.RollChainState(nil, genesis, nil)
	s.SeedGenesis(genesis, genesisState)

	child := &organizer.Header{PrevBlock: genesis.BlockHash(), Bits: 0x207fffff, Nonce: 1, Timestamp: time.Unix(2, 0)}
	childState := organizer.RollChainState(genesisState, child, nil)
	link := s.SetLink(child, childState, nil)
	require.NotEqual(t, organizer.TerminalLink, link)

	require.True(t, s.PushCandidate(link))
	require.Equal(t, int32(1), s.GetTopCandidate())
	require.Equal(t, link, s.ToCandidate(1))

	height, ok := s.GetHeight(link)
	require.True(t, ok)
	require.Equal(t, int32(1), height)

	require.True(t, s.PopCandidate())
	require.Equal(t, int32(0), s.GetTopCandidate())
}

func TestStore_SetLinkIsIdempotentByHash(t *testing.T) {
	s := New()
	h := &organizer.Header{Bits: 0x207fffff, Timestamp: time.Unix(1, 0)}
	state := organizer.RollChainState(nil, h, nil)

	first := s.SetLink(h, state, nil)
	second := s.SetLink(h, state, nil)
	require.Equal(t, first, second)
}

func TestStore_GetForkFindsCommonPrefix(t *testing.T) {
	s := New()
	genesis := &organizer.Header{Bits: 0x207fffff, Timestamp: time.Unix(1, 0)}
	genesisState := organizer.RollChainState(nil, genesis, nil)
	s.SeedGenesis(genesis, genesisState)

	child := &organizer.Header{PrevBlock: genesis.BlockHash(), Bits: 0x207fffff, Nonce: 1, Timestamp: time.Unix(2, 0)}
	childState := organizer.RollChainState(genesisState, child, nil)
	link := s.SetLink(child, childState, nil)
	s.PushCandidate(link)

	// Confirmed chain never advanced past genesis; fork point is 0.
	require.Equal(t, int32(0), s.GetFork())
}

func TestStore_SetDisassociated(t *testing.T) {
	s := New()
	genesis := &organizer.Header{Bits: 0x207fffff, Timestamp: time.Unix(1, 0)}
	genesisState := organizer.RollChainState(nil, genesis, nil)
	link := s.SeedGenesis(genesis, genesisState)

	require.True(t, s.SetDisassociated(link))
	require.Equal(t, organizer.StateUnassociated, s.GetHeaderState(link))
	require.False(t, s.SetDisassociated(organizer.TerminalLink))
}
