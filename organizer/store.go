// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// Store is the narrow façade the organizer consumes over the persistent
// header/block archive. store/memstore provides a reference in-memory
// implementation sufficient to drive the organizer in tests and in the
// chainorganized demo.
//
// Height type matches the conventional int64 block-height convention
// narrowed to int32, which is plenty for any real chain height and keeps
// arithmetic in the accumulator/strongness test free of 64-bit padding
// concerns.
type Store interface {
	// GetTopCandidate returns the height of the current candidate tip.
	GetTopCandidate() int32
	// GetTopConfirmed returns the height of the current confirmed tip.
	GetTopConfirmed() int32
	// GetFork returns the largest height at which the candidate and
	// confirmed chains still agree.
	GetFork() int32

	// ToHeader resolves a hash to its store link, or TerminalLink.
	ToHeader(hash Hash) Link
	// ToParent resolves a link to its parent's link, or TerminalLink.
	ToParent(link Link) Link
	// ToCandidate resolves a height to the candidate chain's link there.
	ToCandidate(height int32) Link
	// ToConfirmed resolves a height to the confirmed chain's link there.
	ToConfirmed(height int32) Link

	// GetHeight returns the height recorded for link.
	GetHeight(link Link) (int32, bool)
	// GetBits returns the difficulty bits recorded for link.
	GetBits(link Link) (uint32, bool)
	// GetHeaderKey returns the hash recorded for link.
	GetHeaderKey(link Link) (Hash, bool)
	// GetHeaderState returns the archive state recorded for link.
	GetHeaderState(link Link) HeaderState
	// GetTimestamp returns the header timestamp (unix seconds) for link.
	GetTimestamp(link Link) (uint32, bool)

	// GetCandidateChainState rolls chain-state forward to height (or to
	// the header identified by hash when height is unknown, e.g. during a
	// bypassed-header lookup). The store must be chain-independent:
	// capable of rolling state for a non-candidate header, because an
	// earlier reorg may have bypassed it.
	GetCandidateChainState(settings *Settings, height int32, hash Hash) (*ChainState, error)

	// IsCandidateHeader reports whether link is on the candidate chain.
	IsCandidateHeader(link Link) bool
	// IsConfirmedBlock reports whether link is on the confirmed chain.
	IsConfirmedBlock(link Link) bool

	// PushCandidate appends link to the top of the candidate chain.
	PushCandidate(link Link) bool
	// PopCandidate removes the top of the candidate chain.
	PopCandidate() bool

	// SetLink archives header (with its rolled chain-state) and returns
	// its new link. For block-mode, payload carries the full block body.
	SetLink(header *Header, state *ChainState, payload *BlockPayload) Link
	// SetDisassociated detaches a malleated block body from its header
	// slot, leaving the header itself archived.
	SetDisassociated(link Link) bool
}
