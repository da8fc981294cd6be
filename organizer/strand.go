// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "sync"

// strand is the organizer's single serialization context: a FIFO
// executor bound to one goroutine. Callers Post work items from any
// goroutine; the strand runs them to completion, one at a time, in the
// order posted. It generalizes blockManager's single-goroutine msgChan
// dispatch loop from a type-switched message union to a plain
// chan func() queue, since organizer work items are already closures
// over typed arguments.
type strand struct {
	work chan func()
	quit chan struct{}
	wg   sync.WaitGroup

	closedMu sync.Mutex
	closed   bool
}

// newStrand creates a strand with the given work queue depth and starts
// its dispatch goroutine.
func newStrand(queueDepth int) *strand {
	s := &strand{
		work: make(chan func(), queueDepth),
		quit: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// run is the strand's dispatch loop. It must be started as a goroutine.
func (s *strand) run() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.work:
			fn()
		case <-s.quit:
			// Drain anything already queued so Post callers that
			// raced the shutdown still observe a result, then exit.
			for {
				select {
				case fn := <-s.work:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post enqueues fn to run on the strand goroutine. It never blocks the
// caller beyond the time it takes to enqueue. Post is safe to call after
// Close; fn is silently dropped in that case (the strand is one-way
// closed, matching the fault path's "no further work is processed" rule).
func (s *strand) Post(fn func()) {
	s.closedMu.Lock()
	closed := s.closed
	s.closedMu.Unlock()
	if closed {
		return
	}
	select {
	case s.work <- fn:
	case <-s.quit:
	}
}

// Close tears the strand down: no further posted work will run, and the
// dispatch goroutine exits once it drains what was already queued.
func (s *strand) Close() {
	s.closedMu.Lock()
	if s.closed {
		s.closedMu.Unlock()
		return
	}
	s.closed = true
	s.closedMu.Unlock()
	close(s.quit)
	s.wg.Wait()
}
