// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// lookupChainState resolves previousHash's chain-state by checking, in
// order, the cached top-candidate state (fast path), the side tree, then
// the store. Returns (nil, nil) when unresolved, which callers treat as
// orphan.
func (o *Organizer) lookupChainState(previousHash Hash) (*ChainState, error) {
	if top := o.topState(); top != nil && top.Hash == previousHash {
		return top, nil
	}

	if entry, ok := o.tree.get(previousHash); ok {
		return entry.state, nil
	}

	link := o.store.ToHeader(previousHash)
	if link.IsTerminal() {
		return nil, nil
	}
	height, ok := o.store.GetHeight(link)
	if !ok {
		return nil, nil
	}
	state, err := o.store.GetCandidateChainState(o.config.Settings, height, previousHash)
	if err != nil {
		return nil, newError(ErrGetCandidateChainState, err,
			"failed to roll candidate chain state at height %d", height)
	}
	return state, nil
}
