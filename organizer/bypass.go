// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// bypassTracker maintains the "under checkpoint / under milestone"
// predicate. topCheckpointHeight is immutable after construction;
// activeMilestoneHeight mutates only on the strand.
type bypassTracker struct {
	checkpoints         []Checkpoint
	topCheckpointHeight int32

	milestone             Checkpoint
	hasMilestone          bool
	activeMilestoneHeight int32
}

// newBypassTracker builds a tracker from the configured checkpoint list
// and optional milestone.
func newBypassTracker(checkpoints []Checkpoint, milestone *Checkpoint) *bypassTracker {
	t := &bypassTracker{checkpoints: checkpoints}
	for _, c := range checkpoints {
		if c.Height > t.topCheckpointHeight {
			t.topCheckpointHeight = c.Height
		}
	}
	if milestone != nil {
		t.milestone = *milestone
		t.hasMilestone = true
	}
	return t
}

// isUnderCheckpoint reports whether height is at or below the top
// checkpoint.
func (t *bypassTracker) isUnderCheckpoint(height int32) bool {
	return height <= t.topCheckpointHeight
}

// isUnderMilestone reports whether height is at or below the active
// milestone.
func (t *bypassTracker) isUnderMilestone(height int32) bool {
	return height <= t.activeMilestoneHeight
}

// isUnderBypass reports whether height is covered by either bypass
// mechanism.
func (t *bypassTracker) isUnderBypass(height int32) bool {
	return t.isUnderCheckpoint(height) || t.isUnderMilestone(height)
}

// checkpointConflict reports whether (hash, height) conflicts with a
// configured checkpoint.
func (t *bypassTracker) checkpointConflict(hash Hash, height int32) bool {
	for _, c := range t.checkpoints {
		if c.Height == height && c.Hash != hash {
			return true
		}
	}
	return false
}

// maxBypass returns max(active_milestone, top_checkpoint), the height
// published in bypass events.
func (t *bypassTracker) maxBypass() int32 {
	if t.activeMilestoneHeight > t.topCheckpointHeight {
		return t.activeMilestoneHeight
	}
	return t.topCheckpointHeight
}

// initializeBypass runs the startup check: if the configured milestone
// height and hash match what the store reports there, activate it and
// publish bypass. A missing header key is fatal.
func (o *Organizer) initializeBypass() error {
	t := o.bypass
	if !t.hasMilestone {
		return nil
	}

	link := o.store.ToCandidate(t.milestone.Height)
	if link.IsTerminal() {
		return nil
	}
	key, ok := o.store.GetHeaderKey(link)
	if !ok {
		return newError(ErrStoreIntegrity, nil,
			"missing header key at configured milestone height %d", t.milestone.Height)
	}
	if key != t.milestone.Hash {
		return nil
	}

	t.activeMilestoneHeight = t.milestone.Height
	o.notifyBypass(t.activeMilestoneHeight /* forkPoint unknown at startup */)
	return nil
}

// resetMilestone clamps the active milestone down to branchPoint when it
// was strictly above it, and publishes a fresh bypass event carrying the
// fork point.
func (o *Organizer) resetMilestone(branchPoint int32) {
	t := o.bypass
	if t.activeMilestoneHeight > branchPoint {
		t.activeMilestoneHeight = branchPoint
		o.notifyBypass(branchPoint)
	}
}

// updateMilestone activates the milestone when the just-pushed link or
// hash exactly matches the configured (height, hash) pair.
func (o *Organizer) updateMilestone(hash Hash, height int32) {
	t := o.bypass
	if !t.hasMilestone || height != t.milestone.Height || hash != t.milestone.Hash {
		return
	}
	if t.activeMilestoneHeight != 0 {
		// A store-replay inconsistency here is recoverable information,
		// not a programming error in this process, so log rather than
		// panic.
		log.Warnf("updateMilestone: active milestone already set to %d", t.activeMilestoneHeight)
	}
	t.activeMilestoneHeight = height
	o.notifyBypass(height)
}

// notifyBypass publishes a bypass event carrying both the traditional
// max(active_milestone, top_checkpoint) height and the enriched
// ActiveMilestone/ForkPoint fields.
func (o *Organizer) notifyBypass(forkPoint int32) {
	o.events.notify(&Notification{
		Type:            ChaseBypass,
		Height:          o.bypass.maxBypass(),
		ActiveMilestone: o.bypass.activeMilestoneHeight,
		ForkPoint:       forkPoint,
	})
}
