// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package memstore

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
)

// candidateChainKey is the single key the demo persistence layer writes
// under: the ordered list of archived-record links making up the
// candidate chain, so a restart of the chainorganized demo can recognize
// it picked back up where it left off. This is a deliberately minimal
// persistence story, since the organizer itself never touches goleveldb
// directly; only the demo's store wiring does.
var candidateChainKey = []byte("candidate-chain")

// LevelStore pairs an in-memory Store with a goleveldb handle that
// persists the candidate chain's link sequence across restarts.
type LevelStore struct {
	*Store
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a goleveldb database at path and wraps
// a fresh in-memory Store with it. Callers still drive genesis seeding
// and organizer wiring exactly as with New(); SaveSnapshot/LoadSnapshot
// give the demo binary a restart story.
func OpenLevelDB(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelStore{Store: New(), db: db}, nil
}

// Close releases the underlying goleveldb handle.
func (l *LevelStore) Close() error {
	return l.db.Close()
}

// SaveSnapshot persists the current candidate chain's link sequence.
func (l *LevelStore) SaveSnapshot() error {
	l.mu.Lock()
	buf := make([]byte, 8*len(l.candidate))
	for i, link := range l.candidate {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(link))
	}
	l.mu.Unlock()
	return l.db.Put(candidateChainKey, buf, nil)
}

// LoadSnapshot reports the candidate chain's link sequence as of the last
// SaveSnapshot, for diagnostics; it does not mutate the in-memory Store
// (the organizer's own chain index is the source of truth once running).
func (l *LevelStore) LoadSnapshot() ([]uint64, error) {
	buf, err := l.db.Get(candidateChainKey, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	links := make([]uint64, len(buf)/8)
	for i := range links {
		links[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return links, nil
}
