// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// Disorganize handles an unchecked/invalid/unconfirmable report carrying
// a header link. malleable should be true when the caller determined
// the failing block is malleable: the failing header is then cached
// rather than poisoned, since a different body may yet satisfy the same
// header.
func (o *Organizer) Disorganize(link Link, malleable bool, cb Callback) {
	o.strand.Post(func() {
		o.doDisorganize(link, malleable, cb)
	})
}

func (o *Organizer) doDisorganize(link Link, malleable bool, cb Callback) {
	if faulted, ferr := o.isFaulted(); faulted {
		cb(ferr, 0)
		return
	}

	// 1. If the link is no longer in the candidate chain, a prior reorg
	// already removed it; nothing to do.
	if !o.store.IsCandidateHeader(link) {
		cb(nil, 0)
		return
	}

	// 2. Resolve its height; height 0 is fatal.
	height, ok := o.store.GetHeight(link)
	if !ok {
		err := newError(ErrStoreIntegrity, nil, "missing height for disorganize link")
		o.fault(err)
		cb(err, 0)
		return
	}
	if height == 0 {
		err := newError(ErrInvalidForkPoint, nil, "disorganize target is genesis")
		o.fault(err)
		cb(err, 0)
		return
	}

	// 3. Fetch the fork point; height must be above it.
	forkPoint := o.store.GetFork()
	if height <= forkPoint {
		err := newError(ErrInvalidForkPoint, nil, "disorganize height %d at or below fork point %d", height, forkPoint)
		o.fault(err)
		cb(err, 0)
		return
	}

	// 4. Cache every candidate header strictly between fork point and the
	// failing height (forward order), unless malleable (see doc comment).
	upper := height
	if malleable {
		upper = height + 1
	}
	for h := forkPoint + 1; h < upper; h++ {
		candLink := o.store.ToCandidate(h)
		key, ok := o.store.GetHeaderKey(candLink)
		if !ok {
			err := newError(ErrStoreIntegrity, nil, "missing header key at height %d", h)
			o.fault(err)
			cb(err, 0)
			return
		}
		if o.tree.contains(key) {
			continue
		}
		state, err := o.store.GetCandidateChainState(o.config.Settings, h, key)
		if err != nil {
			werr := newError(ErrGetCandidateChainState, err, "failed to roll state at height %d", h)
			o.fault(werr)
			cb(werr, 0)
			return
		}
		prevLink := o.store.ToParent(candLink)
		prevHash, _ := o.store.GetHeaderKey(prevLink)
		bits, _ := o.store.GetBits(candLink)
		stub := &Header{PrevBlock: prevHash, Bits: bits, Timestamp: state.Timestamp}
		o.tree.cache(key, stub, state, malleable)
	}

	// 5. Pop the candidate chain from its current top down to fork point.
	top := o.store.GetTopCandidate()
	for index := top; index > forkPoint; index-- {
		if !o.store.PopCandidate() {
			err := newError(ErrPopCandidate, nil, "pop_candidate failed at height %d", index)
			o.fault(err)
			cb(err, 0)
			return
		}
		o.events.notify(&Notification{Type: ChaseHeaderReorganized, Height: index})
	}

	// 6. Reset the milestone to the fork point.
	o.resetMilestone(forkPoint)

	// 7. Push every confirmed header above fork point back onto the
	// candidate chain (forward order).
	topConfirmed := o.store.GetTopConfirmed()
	for index := forkPoint + 1; index <= topConfirmed; index++ {
		confLink := o.store.ToConfirmed(index)
		if confLink.IsTerminal() {
			break
		}
		if !o.store.PushCandidate(confLink) {
			err := newError(ErrPushCandidate, nil, "push_candidate failed restoring confirmed height %d", index)
			o.fault(err)
			cb(err, 0)
			return
		}
		o.events.notify(&Notification{Type: ChaseHeaderOrganized, Height: index})
		if key, ok := o.store.GetHeaderKey(confLink); ok {
			o.updateMilestone(key, index)
		}
	}

	// 8. Recompute state_ from the store at the new top.
	newTop := o.store.GetTopCandidate()
	topLink := o.store.ToCandidate(newTop)
	if !topLink.IsTerminal() {
		key, _ := o.store.GetHeaderKey(topLink)
		state, err := o.store.GetCandidateChainState(o.config.Settings, newTop, key)
		if err != nil {
			werr := newError(ErrGetCandidateChainState, err, "failed to recompute top state after disorganize")
			o.fault(werr)
			cb(werr, 0)
			return
		}
		o.setTopState(state)
	}

	// 9. Publish disorganized(fork_point).
	o.events.notify(&Notification{Type: ChaseDisorganized, Height: forkPoint})

	cb(nil, forkPoint)
}
