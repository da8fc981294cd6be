// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package memstore is a reference implementation of organizer.Store
// sufficient to drive the organizer in tests and in the chainorganized
// demo binary.
//
// Its bookkeeping follows a map+slice approach: a flat slice indexed
// by height for the candidate chain, a parallel slice for the confirmed
// chain, and a map from hash to archived record.
package memstore

import (
	"sync"

	organizer "github.com/Shashankss1205/libbitcoin-node/organizer"
)

// record is one archived header/block, independent of its chain-index
// membership.
type record struct {
	header       *organizer.Header
	state        *organizer.ChainState
	height       int32
	parent       organizer.Link
	hasParent    bool
	chainState   organizer.HeaderState
	disassociated bool
	payload      *organizer.BlockPayload
}

// Store is an in-memory organizer.Store. It is safe for concurrent use,
// though the organizer itself only ever touches it from its strand.
type Store struct {
	mu sync.Mutex

	byHash    map[organizer.Hash]organizer.Link
	byLink    map[organizer.Link]*record
	nextLink  organizer.Link

	candidate []organizer.Link // index by height
	confirmed []organizer.Link // index by height
}

// New returns an empty store seeded with no genesis header. Callers
// typically follow with SeedGenesis.
func New() *Store {
	return &Store{
		byHash: make(map[organizer.Hash]organizer.Link),
		byLink: make(map[organizer.Link]*record),
	}
}

// SeedGenesis archives header at height 0 and pushes it onto both the
// candidate and confirmed chains. It is the only way to populate height 0;
// the organizer never constructs height 0 itself.
func (s *Store) SeedGenesis(header *organizer.Header, state *organizer.ChainState) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.allocLink()
	s.byLink[link] = &record{
		header:     header,
		state:      state,
		height:     0,
		chainState: organizer.StateValid,
	}
	s.byHash[header.BlockHash()] = link
	s.candidate = []organizer.Link{link}
	s.confirmed = []organizer.Link{link}
	return link
}

func (s *Store) allocLink() organizer.Link {
	s.nextLink++
	return s.nextLink
}

// GetTopCandidate implements organizer.Store.
func (s *Store) GetTopCandidate() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(len(s.candidate) - 1)
}

// GetTopConfirmed implements organizer.Store.
func (s *Store) GetTopConfirmed() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(len(s.confirmed) - 1)
}

// GetFork implements organizer.Store.
func (s *Store) GetFork() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.candidate)
	if len(s.confirmed) < n {
		n = len(s.confirmed)
	}
	fork := int32(-1)
	for i := 0; i < n; i++ {
		if s.candidate[i] != s.confirmed[i] {
			break
		}
		fork = int32(i)
	}
	return fork
}

// ToHeader implements organizer.Store.
func (s *Store) ToHeader(hash organizer.Hash) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link, ok := s.byHash[hash]; ok {
		return link
	}
	return organizer.TerminalLink
}

// ToParent implements organizer.Store.
func (s *Store) ToParent(link organizer.Link) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok || !rec.hasParent {
		return organizer.TerminalLink
	}
	return rec.parent
}

// ToCandidate implements organizer.Store.
func (s *Store) ToCandidate(height int32) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height < 0 || int(height) >= len(s.candidate) {
		return organizer.TerminalLink
	}
	return s.candidate[height]
}

// ToConfirmed implements organizer.Store.
func (s *Store) ToConfirmed(height int32) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height < 0 || int(height) >= len(s.confirmed) {
		return organizer.TerminalLink
	}
	return s.confirmed[height]
}

// GetHeight implements organizer.Store.
func (s *Store) GetHeight(link organizer.Link) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return 0, false
	}
	return rec.height, true
}

// GetBits implements organizer.Store.
func (s *Store) GetBits(link organizer.Link) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return 0, false
	}
	return rec.header.Bits, true
}

// GetHeaderKey implements organizer.Store.
func (s *Store) GetHeaderKey(link organizer.Link) (organizer.Hash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return organizer.Hash{}, false
	}
	return rec.header.BlockHash(), true
}

// GetHeaderState implements organizer.Store.
func (s *Store) GetHeaderState(link organizer.Link) organizer.HeaderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return organizer.StateUnknown
	}
	return rec.chainState
}

// GetTimestamp implements organizer.Store.
func (s *Store) GetTimestamp(link organizer.Link) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return 0, false
	}
	return uint32(rec.header.Timestamp.Unix()), true
}

// GetCandidateChainState implements organizer.Store. It rolls state from
// genesis forward to height every time; fine for a reference/test store,
// not for a production archive.
func (s *Store) GetCandidateChainState(settings *organizer.Settings, height int32, hash organizer.Hash) (*organizer.ChainState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height < 0 || int(height) >= len(s.candidate) {
		return nil, organizer.NewStoreIntegrityError("height out of range")
	}
	var parent *organizer.ChainState
	var state *organizer.ChainState
	for h := int32(0); h <= height; h++ {
		rec := s.byLink[s.candidate[h]]
		state = organizer.RollChainState(parent, rec.header, settings)
		parent = state
	}
	return state, nil
}

// IsCandidateHeader implements organizer.Store.
func (s *Store) IsCandidateHeader(link organizer.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok || int(rec.height) >= len(s.candidate) {
		return false
	}
	return s.candidate[rec.height] == link
}

// IsConfirmedBlock implements organizer.Store.
func (s *Store) IsConfirmedBlock(link organizer.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok || int(rec.height) >= len(s.confirmed) {
		return false
	}
	return s.confirmed[rec.height] == link
}

// PushCandidate implements organizer.Store.
func (s *Store) PushCandidate(link organizer.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return false
	}
	rec.height = int32(len(s.candidate))
	s.candidate = append(s.candidate, link)
	return true
}

// PopCandidate implements organizer.Store.
func (s *Store) PopCandidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.candidate) == 0 {
		return false
	}
	s.candidate = s.candidate[:len(s.candidate)-1]
	return true
}

// SetLink implements organizer.Store.
func (s *Store) SetLink(header *organizer.Header, state *organizer.ChainState, payload *organizer.BlockPayload) organizer.Link {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := header.BlockHash()
	if existing, ok := s.byHash[hash]; ok {
		return existing
	}

	parentLink, hasParent := s.byHash[header.PrevBlock]
	link := s.allocLink()
	s.byLink[link] = &record{
		header:     header,
		state:      state,
		height:     state.Height,
		parent:     parentLink,
		hasParent:  hasParent,
		chainState: organizer.StateValid,
		payload:    payload,
	}
	s.byHash[hash] = link
	return link
}

// SetDisassociated implements organizer.Store.
func (s *Store) SetDisassociated(link organizer.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byLink[link]
	if !ok {
		return false
	}
	rec.disassociated = true
	rec.payload = nil
	rec.chainState = organizer.StateUnassociated
	return true
}

// SetUnconfirmable marks link permanently bad.
func (s *Store) SetUnconfirmable(link organizer.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byLink[link]; ok {
		rec.chainState = organizer.StateUnconfirmable
	}
}

// PushConfirmed pushes link onto the confirmed chain, exercised by tests
// that set up a confirmed prefix shorter than the candidate chain.
func (s *Store) PushConfirmed(link organizer.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byLink[link]; !ok {
		return false
	}
	s.confirmed = append(s.confirmed, link)
	return true
}
