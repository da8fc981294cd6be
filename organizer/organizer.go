// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import (
	"sync"

	"github.com/davecgh/go-spew/spew"
)

// defaultStrandQueueDepth bounds how much work can be posted to the
// strand before Post starts applying backpressure to its own callers.
const defaultStrandQueueDepth = 256

// defaultArchivedCapacity bounds the side tree's memory of hashes that
// were promoted and later reorganized back out.
const defaultArchivedCapacity = 10000

// Config captures the immutable construction-time configuration: the
// checkpoint list, an optional milestone, the currency window, and the
// consensus settings. The header/block mode is passed to New separately.
type Config struct {
	Checkpoints           []Checkpoint
	Milestone             *Checkpoint
	CurrencyWindowMinutes uint32
	Settings              *Settings
}

// Organizer is the chain organizer. It carries no package-level state;
// all mutable state lives behind the strand, so construct one per node,
// not per request.
type Organizer struct {
	store  Store
	mode   Mode
	config Config

	strand *strand
	events eventBus
	tree   *sideTree
	bypass *bypassTracker

	// state is the cached top-candidate chain-state.
	mu    sync.RWMutex
	state *ChainState

	faultedMu sync.RWMutex
	faulted   error

	now func() int64 // injected for currency-window tests
}

// New constructs an Organizer bound to store under the given mode and
// configuration. It does not start the strand or initialize bypass state;
// call Start for that.
func New(store Store, mode Mode, cfg Config) *Organizer {
	return &Organizer{
		store:  store,
		mode:   mode,
		config: cfg,
		tree:   newSideTree(defaultArchivedCapacity),
		bypass: newBypassTracker(cfg.Checkpoints, cfg.Milestone),
		now:    defaultNow,
	}
}

// Start launches the serialization context, seeds the cached top state
// from the store's current top candidate, and runs the bypass tracker's
// startup check.
func (o *Organizer) Start() error {
	o.strand = newStrand(defaultStrandQueueDepth)

	errCh := make(chan error, 1)
	o.strand.Post(func() {
		top := o.store.GetTopCandidate()
		link := o.store.ToCandidate(top)
		if link.IsTerminal() {
			errCh <- nil
			return
		}
		key, ok := o.store.GetHeaderKey(link)
		if !ok {
			errCh <- newError(ErrStoreIntegrity, nil, "missing header key at top candidate %d", top)
			return
		}
		state, err := o.store.GetCandidateChainState(o.config.Settings, top, key)
		if err != nil {
			errCh <- newError(ErrGetCandidateChainState, err, "start: failed to load top candidate state")
			return
		}
		o.mu.Lock()
		o.state = state
		o.mu.Unlock()

		if err := o.initializeBypass(); err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	})
	return <-errCh
}

// Subscribe registers cb to receive every notification the organizer
// publishes, returning an id usable with Unsubscribe.
func (o *Organizer) Subscribe(cb NotificationCallback) int {
	return o.events.Subscribe(cb)
}

// Unsubscribe removes a callback previously registered with Subscribe.
func (o *Organizer) Unsubscribe(id int) {
	o.events.Unsubscribe(id)
}

// Stop tears down the serialization context. After Stop returns, any
// in-flight Organize call has already received ErrServiceStopped; no
// further work is processed.
func (o *Organizer) Stop() {
	if o.strand == nil {
		return
	}
	o.strand.Post(func() {
		o.events.notify(&Notification{Type: ChaseStop})
	})
	o.strand.Close()
}

// isFaulted reports whether the organizer has entered the terminal faulted
// state, and the fault that caused it.
func (o *Organizer) isFaulted() (bool, error) {
	o.faultedMu.RLock()
	defer o.faultedMu.RUnlock()
	return o.faulted != nil, o.faulted
}

// fault transitions the organizer into the terminal faulted state. This
// is one-way: once entered, no further work is processed. Callers must
// still return from the current work item after calling fault.
func (o *Organizer) fault(err error) {
	o.faultedMu.Lock()
	defer o.faultedMu.Unlock()
	if o.faulted == nil {
		o.faulted = err
		log.Errorf("organizer fault: %v", err)
		log.Tracef("fault detail: %s", spew.Sdump(err))
	}
}

// topState returns a copy-safe snapshot of the cached state pointer.
// Callers must not mutate the returned ChainState; it is logically
// immutable.
func (o *Organizer) topState() *ChainState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// setTopState installs the new top-candidate chain-state.
func (o *Organizer) setTopState(s *ChainState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func defaultNow() int64 { return nowUnix() }
