// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Hash identifies a block or header by its double-SHA256 digest.
type Hash = chainhash.Hash

// Link is the store's opaque short identifier for an archived header.
// TerminalLink is the sentinel meaning "no such header".
type Link uint64

// TerminalLink is returned by store lookups that find nothing.
const TerminalLink Link = ^Link(0)

// IsTerminal reports whether the link is the terminal sentinel.
func (l Link) IsTerminal() bool {
	return l == TerminalLink
}

// Header is the plain Bitcoin block header the organizer rolls chain-state
// over and accumulates proof-of-work from.
type Header struct {
	Version    int32
	PrevBlock  Hash
	MerkleRoot Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// BlockHash computes the header's identifying hash: the double-SHA256 of
// its 80-byte little-endian serialization. The organize pipeline, the side
// tree's cache keys, and memstore all derive hashes through it.
func (h *Header) BlockHash() Hash {
	return chainhash.HashH(h.serialize())
}

func (h *Header) serialize() []byte {
	buf := make([]byte, 0, 84)
	var tmp [4]byte
	putU32 := func(v uint32) {
		tmp[0] = byte(v)
		tmp[1] = byte(v >> 8)
		tmp[2] = byte(v >> 16)
		tmp[3] = byte(v >> 24)
		buf = append(buf, tmp[:]...)
	}
	putU32(uint32(h.Version))
	buf = append(buf, h.PrevBlock[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	putU32(uint32(h.Timestamp.Unix()))
	putU32(h.Bits)
	putU32(h.Nonce)
	return buf
}

// BlockPayload is the block-mode payload: a full block wrapping its
// header. Header-mode organizers never construct one of these.
type BlockPayload struct {
	Block *btcutil.Block
}

// Payload is implemented by whatever the strategy's Mode accepts:
// *Header for header-mode, *BlockPayload for block-mode.
type Payload interface {
	header() *Header
}

func (h *Header) header() *Header { return h }

func (b *BlockPayload) header() *Header {
	msg := b.Block.MsgBlock().Header
	return &Header{
		Version:    msg.Version,
		PrevBlock:  msg.PrevBlock,
		MerkleRoot: msg.MerkleRoot,
		Timestamp:  msg.Timestamp,
		Bits:       msg.Bits,
		Nonce:      msg.Nonce,
	}
}

// NewHashFromStr parses a reversed-hex hash string, per
// chainhash.NewHashFromStr's convention, returning it by value to match
// the Hash alias used throughout this package.
func NewHashFromStr(s string) (Hash, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return Hash{}, err
	}
	return *h, nil
}

// Checkpoint pins a known-good (height, hash) pair. See bypass.go.
type Checkpoint struct {
	Height int32
	Hash   Hash
}

// HeaderState mirrors the store's notion of a header's archive state.
type HeaderState int

const (
	// StateUnassociated means the header is present but its body is not
	// (header-only slot waiting for a block).
	StateUnassociated HeaderState = iota
	// StateUnconfirmable means the header was permanently rejected.
	StateUnconfirmable
	// StateValid means the header/block passed validation.
	StateValid
	// StateUnknown means the store has no record of the header.
	StateUnknown
)
