// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shashankss1205/libbitcoin-node/organizer"
	"github.com/Shashankss1205/libbitcoin-node/store/memstore"
)

// easyBits is a permissive difficulty target used throughout these tests
// so that every header carries comparable, low work unless a test
// deliberately wants a harder-to-beat competitor.
const easyBits = 0x207fffff

// hardBits is a tighter target than easyBits, used to construct a
// genuinely stronger competing branch.
const hardBits = 0x1d00ffff

func settings() *organizer.Settings {
	return &organizer.Settings{ActivationThreshold: 1815, ActivationWindow: 2016, MinBlockVersion: 1}
}

func header(prev organizer.Hash, bits uint32, nonce uint32, ts time.Time) *organizer.Header {
	return &organizer.Header{
		Version:   1,
		PrevBlock: prev,
		Timestamp: ts,
		Bits:      bits,
		Nonce:     nonce,
	}
}

// newHarness seeds a fresh store at genesis and constructs a started,
// header-mode organizer with no checkpoints, no milestone, and the
// currency window disabled so storability reduces to the strongness test.
func newHarness(t *testing.T) (*organizer.Organizer, *memstore.Store, *organizer.Header) {
	t.Helper()
	store := memstore.New()
	genesis := header(organizer.Hash{}, easyBits, 0, time.Unix(1231006505, 0))
	genesisState := organizer.RollChainState(nil, genesis, settings())
	store.SeedGenesis(genesis, genesisState)

	org := organizer.New(store, organizer.HeaderMode{}, organizer.Config{
		CurrencyWindowMinutes: 0,
		Settings:              settings(),
	})
	require.NoError(t, org.Start())
	return org, store, genesis
}

// organizeSync drives Organize synchronously via a buffered channel, since
// every callback runs on the organizer's own strand goroutine.
func organizeSync(org *organizer.Organizer, payload organizer.Payload) (error, int32) {
	type outcome struct {
		err    error
		height int32
	}
	ch := make(chan outcome, 1)
	org.Organize(payload, nil, func(err error, height int32) {
		ch <- outcome{err, height}
	})
	o := <-ch
	return o.err, o.height
}

func disorganizeSync(org *organizer.Organizer, link organizer.Link, malleable bool) (error, int32) {
	type outcome struct {
		err    error
		height int32
	}
	ch := make(chan outcome, 1)
	org.Disorganize(link, malleable, func(err error, height int32) {
		ch <- outcome{err, height}
	})
	o := <-ch
	return o.err, o.height
}

// Scenario A: a single header extending the current tip organizes
// immediately and becomes the new candidate top.
func TestOrganize_LinearExtension(t *testing.T) {
	org, store, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, height := organizeSync(org, h1)
	require.NoError(t, err)
	require.Equal(t, int32(1), height)
	require.Equal(t, int32(1), store.GetTopCandidate())
}

// Scenario B: a same-work fork at an already-occupied height is weaker
// than (not stronger than) the existing candidate, so it is cached in the
// side tree rather than triggering a reorg.
func TestOrganize_WeakForkCached(t *testing.T) {
	org, store, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, _ := organizeSync(org, h1)
	require.NoError(t, err)

	fork := header(genesis.BlockHash(), easyBits, 2, time.Unix(1231006606, 0))
	err, height := organizeSync(org, fork)
	require.NoError(t, err)
	require.Equal(t, int32(1), height)
	// Not strong enough to displace h1; the candidate tip is unchanged.
	require.Equal(t, int32(1), store.GetTopCandidate())
	topLink := store.ToCandidate(1)
	topKey, ok := store.GetHeaderKey(topLink)
	require.True(t, ok)
	require.Equal(t, h1.BlockHash(), topKey)

	// Resubmitting the same fork now reports a cached duplicate at its
	// tree height.
	err, height = organizeSync(org, fork)
	require.Error(t, err)
	require.Equal(t, int32(1), height)
}

// Scenario C: a branch whose accumulated work strictly exceeds the
// current candidate chain's work reorganizes the candidate chain onto it.
func TestOrganize_StrongForkReorganizes(t *testing.T) {
	org, store, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, _ := organizeSync(org, h1)
	require.NoError(t, err)

	strongFork := header(genesis.BlockHash(), hardBits, 2, time.Unix(1231006606, 0))
	err, height := organizeSync(org, strongFork)
	require.NoError(t, err)
	require.Equal(t, int32(1), height)

	topLink := store.ToCandidate(1)
	topKey, ok := store.GetHeaderKey(topLink)
	require.True(t, ok)
	require.Equal(t, strongFork.BlockHash(), topKey)
}

// A header whose archived record has been marked unconfirmable (e.g. by
// a validation chaser that rejected its block body) is reported as such
// on resubmission rather than treated as an ordinary duplicate.
func TestOrganize_PreviouslyUnconfirmable(t *testing.T) {
	org, store, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, _ := organizeSync(org, h1)
	require.NoError(t, err)

	link := store.ToHeader(h1.BlockHash())
	store.SetUnconfirmable(link)

	err, _ = organizeSync(org, h1)
	require.Error(t, err)
	orgErr, ok := err.(*organizer.Error)
	require.True(t, ok)
	require.Equal(t, organizer.ErrBlockUnconfirmable, orgErr.Code)
}

// A reorg replays one reorganized event per popped height (highest
// first) followed by one organized event per pushed height (lowest
// first), then bump and, since the branch point lies below the old top,
// regressed.
func TestOrganize_StrongForkReorganizesEventOrder(t *testing.T) {
	org, _, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, _ := organizeSync(org, h1)
	require.NoError(t, err)

	h2 := header(h1.BlockHash(), easyBits, 2, time.Unix(1231006705, 0))
	err, _ = organizeSync(org, h2)
	require.NoError(t, err)

	events := make(chan *organizer.Notification, 16)
	org.Subscribe(func(n *organizer.Notification) { events <- n })

	strongFork := header(genesis.BlockHash(), hardBits, 9, time.Unix(1231006606, 0))
	err, _ = organizeSync(org, strongFork)
	require.NoError(t, err)

	want := []struct {
		typ    organizer.Chase
		height int32
	}{
		{organizer.ChaseHeaderReorganized, 2},
		{organizer.ChaseHeaderReorganized, 1},
		{organizer.ChaseHeaderOrganized, 1},
		{organizer.ChaseBump, 1},
		{organizer.ChaseRegressed, 0},
	}
	for _, w := range want {
		select {
		case n := <-events:
			require.Equal(t, w.typ.String(), n.Type.String())
			require.Equal(t, w.height, n.Height)
		case <-time.After(time.Second):
			t.Fatalf("expected %s(%d), got nothing", w.typ, w.height)
		}
	}
}

// Scenario D: a header at a checkpointed height whose hash disagrees with
// the configured checkpoint is rejected outright.
func TestOrganize_CheckpointConflict(t *testing.T) {
	store := memstore.New()
	genesis := header(organizer.Hash{}, easyBits, 0, time.Unix(1231006505, 0))
	genesisState := organizer.RollChainState(nil, genesis, settings())
	store.SeedGenesis(genesis, genesisState)

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	pinned := organizer.Checkpoint{Height: 1, Hash: organizer.Hash{0xAA}}

	org := organizer.New(store, organizer.HeaderMode{}, organizer.Config{
		Checkpoints: []organizer.Checkpoint{pinned},
		Settings:    settings(),
	})
	require.NoError(t, org.Start())
	defer org.Stop()

	err, height := organizeSync(org, h1)
	require.Error(t, err)
	require.Equal(t, int32(1), height)
	orgErr, ok := err.(*organizer.Error)
	require.True(t, ok)
	require.Equal(t, organizer.ErrCheckpointConflict, orgErr.Code)
}

// Scenario E: a header whose parent is unknown to both the side tree and
// the store is reported as an orphan, never cached.
func TestOrganize_Orphan(t *testing.T) {
	org, _, _ := newHarness(t)
	defer org.Stop()

	orphan := header(organizer.Hash{0x42}, easyBits, 1, time.Unix(1231006605, 0))
	err, height := organizeSync(org, orphan)
	require.Error(t, err)
	require.Equal(t, int32(0), height)
	orgErr, ok := err.(*organizer.Error)
	require.True(t, ok)
	require.Equal(t, organizer.ErrOrphanHeader, orgErr.Code)
}

// Scenario F: a configured milestone that matches the store's header at
// startup activates immediately, publishing a bypass notification.
func TestStart_MilestoneActivatesAtStartup(t *testing.T) {
	store := memstore.New()
	genesis := header(organizer.Hash{}, easyBits, 0, time.Unix(1231006505, 0))
	genesisState := organizer.RollChainState(nil, genesis, settings())
	store.SeedGenesis(genesis, genesisState)

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	h1State := organizer.RollChainState(genesisState, h1, settings())
	link := store.SetLink(h1, h1State, nil)
	store.PushCandidate(link)
	store.PushConfirmed(link)

	milestone := organizer.Checkpoint{Height: 1, Hash: h1.BlockHash()}
	org := organizer.New(store, organizer.HeaderMode{}, organizer.Config{
		Milestone: &milestone,
		Settings:  settings(),
	})

	events := make(chan *organizer.Notification, 8)
	org.Subscribe(func(n *organizer.Notification) { events <- n })

	require.NoError(t, org.Start())
	defer org.Stop()

	select {
	case n := <-events:
		require.Equal(t, organizer.ChaseBypass, n.Type)
		require.Equal(t, int32(1), n.Height)
	case <-time.After(time.Second):
		t.Fatal("expected a bypass notification at startup")
	}
}

// Disorganize pops the candidate chain back to the store's recorded fork
// point and restores whatever confirmed prefix still extends past it.
func TestDisorganize_RestoresConfirmedPrefix(t *testing.T) {
	org, store, genesis := newHarness(t)
	defer org.Stop()

	h1 := header(genesis.BlockHash(), easyBits, 1, time.Unix(1231006605, 0))
	err, _ := organizeSync(org, h1)
	require.NoError(t, err)

	h1Link := store.ToCandidate(1)
	store.PushConfirmed(h1Link)

	h2 := header(h1.BlockHash(), easyBits, 2, time.Unix(1231006705, 0))
	err, _ = organizeSync(org, h2)
	require.NoError(t, err)
	h2Link := store.ToCandidate(2)

	err, forkPoint := disorganizeSync(org, h2Link, false)
	require.NoError(t, err)
	require.Equal(t, int32(1), forkPoint)
	require.Equal(t, int32(1), store.GetTopCandidate())
}
