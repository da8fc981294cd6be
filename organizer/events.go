// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "sync"

// Chase identifies the kind of event carried by a Notification.
type Chase int

const (
	ChaseHeaderOrganized Chase = iota
	ChaseHeaderReorganized
	ChaseHeaderArchived
	ChaseBlockOrganized
	ChaseBlockReorganized
	ChaseBlockUnconfirmable
	ChaseBlockMalleated
	ChaseConfirmBypassed
	ChaseBypass
	ChaseBump
	ChaseRegressed
	ChaseDisorganized
	ChaseHeader
	ChaseBlock
	ChaseStop
)

var chaseStrings = map[Chase]string{
	ChaseHeaderOrganized:    "header_organized",
	ChaseHeaderReorganized:  "header_reorganized",
	ChaseHeaderArchived:     "header_archived",
	ChaseBlockOrganized:     "block_organized",
	ChaseBlockReorganized:   "block_reorganized",
	ChaseBlockUnconfirmable: "block_unconfirmable",
	ChaseBlockMalleated:     "block_malleated",
	ChaseConfirmBypassed:    "confirm_bypassed",
	ChaseBypass:             "bypass",
	ChaseBump:               "bump",
	ChaseRegressed:          "regressed",
	ChaseDisorganized:       "disorganized",
	ChaseHeader:             "header",
	ChaseBlock:              "block",
	ChaseStop:               "stop",
}

// String returns the event's human-readable name.
func (c Chase) String() string {
	if s, ok := chaseStrings[c]; ok {
		return s
	}
	return "unknown"
}

// Notification is a single event delivered to subscribers. Height and Link
// are interpreted per Chase variant; most carry a height, ChaseHeader and
// ChaseBlock carry a link. ActiveMilestone and ForkPoint are populated only
// on ChaseBypass, so a subscriber that raced ahead under a stale milestone
// can detect the mismatch and resynchronize instead of relying on strict
// event ordering alone.
type Notification struct {
	Type           Chase
	Height         int32
	Link           Link
	Err            error
	ActiveMilestone int32
	ForkPoint       int32
	PeerHint        interface{}
}

// NotificationCallback is the signature subscribers register with
// Subscribe. It must not block and must not call back into the organizer
// synchronously (it runs on the organizer's strand).
type NotificationCallback func(*Notification)

// subscription is an internal bookkeeping entry for a registered callback.
type subscription struct {
	id int
	cb NotificationCallback
}

// eventBus fans events out to every subscriber in publication order,
// so unrelated subscribers (downloader, confirmation tracker, RPC
// notifier) never need to reference each other directly.
type eventBus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// Subscribe registers cb and returns an id usable with Unsubscribe.
func (b *eventBus) Subscribe(cb NotificationCallback) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, cb: cb})
	return id
}

// Unsubscribe removes a previously registered callback.
func (b *eventBus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// notify delivers n to every subscriber, in subscription order. Must only
// be called from the organizer's strand goroutine so that events
// published during a single work item are delivered in publication
// order.
func (b *eventBus) notify(n *Notification) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.cb(n)
	}
}
