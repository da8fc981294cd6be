// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// reorgResult carries what the caller's post-reorg notifications need:
// the branch point the reorg landed on and the prior top height.
type reorgResult struct {
	branchPoint int32
	oldTop      int32
}

// executeReorg pops the candidate chain to bw.branchPoint and pushes the
// new branch (store entries, then tree entries, then the incoming tip).
// Preconditions: bw.branchPoint <= the organizer's current top height,
// checked by the caller.
func (o *Organizer) executeReorg(bw *branchWork, tipHash Hash, tipPayload Payload, tipState *ChainState) (*reorgResult, error) {
	oldTop := o.store.GetTopCandidate()

	// 1. Pop from the top down to branchPoint.
	index := oldTop
	for index > bw.branchPoint {
		if !o.store.PopCandidate() {
			err := newError(ErrPopCandidate, nil, "pop_candidate failed at height %d", index)
			o.fault(err)
			return nil, err
		}
		o.events.notify(&Notification{Type: ChaseHeaderReorganized, Height: index})
		index--
	}

	// 2. Reset milestone, publishing a bypass event if it changes.
	o.resetMilestone(bw.branchPoint)

	// 3. Push the store branch in reverse (parent-first).
	for i := len(bw.storeBranch) - 1; i >= 0; i-- {
		link := bw.storeBranch[i]
		if !o.store.PushCandidate(link) {
			err := newError(ErrPushCandidate, nil, "push_candidate failed for store link")
			o.fault(err)
			return nil, err
		}
		index++
		if key, ok := o.store.GetHeaderKey(link); ok {
			o.updateMilestone(key, index)
		}
		o.events.notify(&Notification{Type: o.mode.ChaseObject(), Height: index})
	}

	// 4. Push the tree branch in reverse (parent-first): write each into
	// the store, then push as candidate.
	for i := len(bw.treeBranch) - 1; i >= 0; i-- {
		hash := bw.treeBranch[i]
		entry, ok := o.tree.get(hash)
		if !ok {
			err := newError(ErrStoreIntegrity, nil, "missing tree entry for branch hash during reorg")
			o.fault(err)
			return nil, err
		}
		link := o.store.SetLink(entry.payload.header(), entry.state, blockPayloadOf(entry.payload))
		if link.IsTerminal() {
			err := newError(ErrNodePush, nil, "set_link failed promoting tree entry")
			o.fault(err)
			return nil, err
		}
		if !o.store.PushCandidate(link) {
			err := newError(ErrPushCandidate, nil, "push_candidate failed for promoted tree link")
			o.fault(err)
			return nil, err
		}
		o.tree.remove(hash)
		index++
		o.updateMilestone(hash, index)
		o.events.notify(&Notification{Type: o.mode.ChaseObject(), Height: index})
	}

	// 5. Push the incoming tip.
	tipLink := o.store.SetLink(tipPayload.header(), tipState, blockPayloadOf(tipPayload))
	if tipLink.IsTerminal() {
		err := newError(ErrNodePush, nil, "set_link failed for incoming tip")
		o.fault(err)
		return nil, err
	}
	if !o.store.PushCandidate(tipLink) {
		err := newError(ErrPushCandidate, nil, "push_candidate failed for incoming tip")
		o.fault(err)
		return nil, err
	}
	index++
	o.events.notify(&Notification{Type: o.mode.ChaseObject(), Height: index})

	return &reorgResult{branchPoint: bw.branchPoint, oldTop: oldTop}, nil
}

// blockPayloadOf narrows a Payload to *BlockPayload when the organizer is
// running in block-mode, or nil in header-mode.
func blockPayloadOf(p Payload) *BlockPayload {
	bp, _ := p.(*BlockPayload)
	return bp
}
