// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package organizer implements the chain organizer: the subsystem that
// ingests candidate headers or blocks, reconciles them against the local
// view of the best chain, and performs candidate-chain reorganizations
// when a competing branch accumulates strictly more proof-of-work.
//
// The organizer owns a side tree of not-yet-promoted headers/blocks, a
// branch-work accumulator, a strongness test, a reorg executor, and a
// checkpoint/milestone bypass tracker. All mutable state is confined to
// a single serialization context (see strand.go); callers submit work
// from any goroutine and receive results asynchronously via callback.
package organizer
