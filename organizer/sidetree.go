// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import (
	"github.com/decred/dcrd/lru"
)

// treeEntry is a side-tree entry: a cached, not-yet-promoted header/block
// and its rolled-forward chain-state. Entries own their payload and
// state; they are created by cache, never mutated, and destroyed either
// on promotion to the store or during disorganize when re-seeded from
// the store.
type treeEntry struct {
	payload Payload
	state   *ChainState
	// malleable marks an entry whose block body could still turn out to
	// be a different, equally-valid serialization of the same header, so
	// a later disorganize pass routes it to the malleated path instead of
	// poisoning it outright.
	malleable bool
}

// sideTree is the in-memory forest of valid-but-not-yet-promoted headers
// or blocks, keyed by hash. It generalizes a mutex-guarded map +
// public/private method-pair idiom; the organizer's single strand already
// serializes every access, so sideTree itself carries no lock of its
// own: callers must only ever touch it from the strand goroutine.
type sideTree struct {
	entries map[Hash]*treeEntry

	// archived bounds the memory used to remember hashes that were once
	// promoted and later reorganized back out, so a duplicate
	// resubmission of a long-dead side-branch doesn't silently re-cache
	// it. Sized by defaultArchivedCapacity.
	archived lru.Cache
}

// newSideTree constructs an empty side tree with the given archived-hash
// memory bound.
func newSideTree(archivedCapacity int) *sideTree {
	return &sideTree{
		entries:  make(map[Hash]*treeEntry),
		archived: lru.NewCache(uint(archivedCapacity)),
	}
}

// contains reports whether hash is cached in the tree.
func (t *sideTree) contains(hash Hash) bool {
	_, ok := t.entries[hash]
	return ok
}

// get returns the cached entry for hash, if any.
func (t *sideTree) get(hash Hash) (*treeEntry, bool) {
	e, ok := t.entries[hash]
	return e, ok
}

// cache stores a new side-tree entry. It is a programming error to cache
// a hash already present; callers are expected to dedupe first.
func (t *sideTree) cache(hash Hash, payload Payload, state *ChainState, malleable bool) {
	t.entries[hash] = &treeEntry{payload: payload, state: state, malleable: malleable}
}

// remove deletes hash from the tree, marking it archived so a later
// duplicate submission is recognized without growing the tree again.
func (t *sideTree) remove(hash Hash) {
	delete(t.entries, hash)
	t.archived.Add(hash)
}

// wasArchived reports whether hash was previously promoted out of the tree
// (and thus isn't a fresh duplicate, just a stale resubmission).
func (t *sideTree) wasArchived(hash Hash) bool {
	return t.archived.Contains(hash)
}

// height returns the cached entry's chain-state height, used by the
// duplicate-report path.
func (e *treeEntry) height() int32 {
	return e.state.Height
}
