// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// Callback receives the outcome of an Organize call: either success and
// the header's height, or an error and the height (or 0) the caller
// should act on.
type Callback func(err error, height int32)

// Organize accepts a full block (block-mode) or bare header (header-mode)
// and invokes cb exactly once. The pipeline runs on the strand; Organize
// does not wait for it, but blocks while the strand's work queue is full.
func (o *Organizer) Organize(payload Payload, peerHint interface{}, cb Callback) {
	if o.strand == nil {
		cb(newError(ErrServiceStopped, nil, "organizer not started"), 0)
		return
	}
	o.strand.closedMu.Lock()
	closed := o.strand.closed
	o.strand.closedMu.Unlock()
	if closed {
		cb(newError(ErrServiceStopped, nil, "organizer stopped"), 0)
		return
	}
	o.strand.Post(func() {
		o.doOrganize(payload, peerHint, cb)
	})
}

// doOrganize runs the organize pipeline on the strand goroutine.
func (o *Organizer) doOrganize(payload Payload, peerHint interface{}, cb Callback) {
	// 1. Closure check.
	if faulted, ferr := o.isFaulted(); faulted {
		cb(ferr, 0)
		return
	}
	if o.strand == nil {
		cb(newError(ErrServiceStopped, nil, "organizer not started"), 0)
		return
	}
	o.strand.closedMu.Lock()
	stopped := o.strand.closed
	o.strand.closedMu.Unlock()
	if stopped {
		cb(newError(ErrServiceStopped, nil, "organizer stopped"), 0)
		return
	}

	header := payload.header()
	hash := header.BlockHash()

	// 2. Dedupe against tree.
	if entry, ok := o.tree.get(hash); ok {
		cb(newError(o.mode.ErrDuplicate(), nil, "duplicate: already in side tree"), entry.height())
		return
	}
	if o.tree.wasArchived(hash) {
		cb(newError(o.mode.ErrDuplicate(), nil, "duplicate: previously reorganized out of the tree"), 0)
		return
	}

	// 3. Dedupe against store.
	if link := o.store.ToHeader(hash); !link.IsTerminal() {
		state := o.store.GetHeaderState(link)
		height, _ := o.store.GetHeight(link)

		if state == StateUnconfirmable {
			cb(newError(ErrBlockUnconfirmable, nil, "header previously marked unconfirmable"), height)
			return
		}
		if !o.mode.IsBlock() || state != StateUnassociated {
			cb(newError(o.mode.ErrDuplicate(), nil, "duplicate: already archived"), height)
			return
		}
		// Block-mode + unassociated: fall through, filling a header-only slot.
	}

	// 4. Parent lookup.
	parentState, err := o.lookupChainState(header.PrevBlock)
	if err != nil {
		o.fault(err)
		cb(err, 0)
		return
	}
	if parentState == nil {
		cb(newError(o.mode.ErrOrphan(), nil, "parent header not found"), 0)
		return
	}

	// 5. Roll chain-state forward.
	state := RollChainState(parentState, header, o.config.Settings)

	// 6. Checkpoint gate.
	if o.bypass.checkpointConflict(hash, state.Height) {
		cb(newError(ErrCheckpointConflict, nil, "checkpoint conflict at height %d", state.Height), state.Height)
		return
	}

	// 7. Block-mode validation (header-mode always skips per Mode.Validate).
	if !o.bypass.isUnderBypass(state.Height) {
		if verr := o.mode.Validate(payload, state); verr != nil {
			cb(newError(ErrValidation, verr, "validation failed at height %d", state.Height), state.Height)
			return
		}
	}

	// 8. Storability test.
	storable, err := o.isStorable(header, state)
	if err != nil {
		o.fault(err)
		cb(err, 0)
		return
	}
	if !storable {
		o.tree.cache(hash, payload, state, false)
		cb(nil, state.Height)
		return
	}

	// 9. Branch-work accumulation.
	bw, err := o.getBranchWork(header, o.tree)
	if err != nil {
		o.fault(err)
		cb(err, 0)
		return
	}

	// 10. Strongness test.
	strong, err := o.getIsStrong(bw)
	if err != nil {
		o.fault(err)
		cb(err, 0)
		return
	}
	if !strong {
		o.tree.cache(hash, payload, state, false)
		cb(nil, state.Height)
		return
	}

	// 11. Reorg execution.
	if bw.branchPoint > o.store.GetTopCandidate() {
		err := newError(ErrInvalidBranchPoint, nil, "branch point %d exceeds top candidate", bw.branchPoint)
		o.fault(err)
		cb(err, 0)
		return
	}
	result, err := o.executeReorg(bw, hash, payload, state)
	if err != nil {
		cb(err, 0)
		return
	}

	// 12. Downstream notifications. executeReorg has already replayed
	// per-height organized events for the pushed branch; bump and
	// regressed follow once the new top is in place.
	o.events.notify(&Notification{Type: ChaseBump, Height: result.branchPoint + 1, PeerHint: peerHint})
	if result.branchPoint < result.oldTop {
		o.events.notify(&Notification{Type: ChaseRegressed, Height: result.branchPoint})
	}

	// 13. Update chain-state, invoke the callback.
	o.setTopState(state)
	log.Debugf("organized %s at height %d (branch point %d)", hash, state.Height, result.branchPoint)
	cb(nil, state.Height)
}

// isStorable reports whether a header/block is eligible to be written to
// the store rather than merely cached in the side tree: it is under
// bypass, or current (within the currency window), or its branch work
// would already make it strong. A non-nil error means the underlying
// store query failed, not that the header is unstorable.
func (o *Organizer) isStorable(header *Header, state *ChainState) (bool, error) {
	if o.bypass.isUnderBypass(state.Height) {
		return true, nil
	}
	if o.isCurrent(header) {
		return true, nil
	}
	bw, err := o.getBranchWork(header, o.tree)
	if err != nil {
		return false, err
	}
	strong, err := o.getIsStrong(bw)
	if err != nil {
		return false, err
	}
	return strong, nil
}

// isCurrent reports whether header's timestamp is within the configured
// currency window. A window of zero disables the check (everything is
// "current").
func (o *Organizer) isCurrent(header *Header) bool {
	if o.config.CurrencyWindowMinutes == 0 {
		return true
	}
	windowSeconds := int64(o.config.CurrencyWindowMinutes) * 60
	return o.now()-header.Timestamp.Unix() <= windowSeconds
}
