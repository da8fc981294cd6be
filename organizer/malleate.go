// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

// Malleate disassociates a malleated block body from its header slot and,
// if the header is still a candidate, re-announces it as needing
// download. The archived block was found invalid but its header hash
// cannot be marked unconfirmable because a different body might still
// satisfy it.
func (o *Organizer) Malleate(link Link, cb Callback) {
	o.strand.Post(func() {
		o.doMalleate(link, cb)
	})
}

func (o *Organizer) doMalleate(link Link, cb Callback) {
	if faulted, ferr := o.isFaulted(); faulted {
		cb(ferr, 0)
		return
	}

	// 1. Mark the block body as disassociated from the header slot.
	if !o.store.SetDisassociated(link) {
		err := newError(ErrSetDisassociated, nil, "set_dissasociated failed")
		o.fault(err)
		cb(err, 0)
		return
	}

	height, _ := o.store.GetHeight(link)

	// 2. If the header is no longer a candidate, do nothing further.
	if !o.store.IsCandidateHeader(link) {
		cb(nil, height)
		return
	}

	// 3. Publish header(link) so the download chaser re-requests the body.
	o.events.notify(&Notification{Type: ChaseHeader, Link: link, Height: height})

	cb(nil, height)
}
