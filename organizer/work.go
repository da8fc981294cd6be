// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "math/big"

// oneLsh256 is 2^256, the numerator of the work calculation below.
var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// compactToBig converts the compact difficulty-bits representation to a
// big.Int target, matching blockchain.CompactToBig bit for bit.
func compactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if compact&0x00800000 != 0 {
		bn = bn.Neg(bn)
	}
	return bn
}

// proof computes the work contributed by a single header's difficulty
// bits, matching blockchain.CalcWork: the inverse of the target so that
// accumulated work increases monotonically with difficulty.
func proof(bits uint32) *big.Int {
	target := compactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denominator := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(oneLsh256, denominator)
}

// branchWork is the result of walking a candidate header back to the
// branch point: the accumulated proof-of-work, the branch point's
// height, and the ordered (tip-first) hashes making up the tree and
// store portions of the branch.
type branchWork struct {
	work        *big.Int
	branchPoint int32
	treeBranch  []Hash
	storeBranch []Link
}

// getBranchWork walks from header's parent hash through the side tree
// then the store back to the branch point, summing proof-of-work along
// the way.
func (o *Organizer) getBranchWork(header *Header, tree *sideTree) (*branchWork, error) {
	result := &branchWork{work: proof(header.Bits)}

	previous := header.PrevBlock
	for {
		entry, ok := tree.get(previous)
		if !ok {
			break
		}
		result.treeBranch = append(result.treeBranch, previous)
		result.work.Add(result.work, proof(entry.state.Bits))
		previous = entry.payload.header().PrevBlock
	}

	link := o.store.ToHeader(previous)
	for {
		if link.IsTerminal() {
			return nil, newError(ErrGetBranchWork, nil,
				"branch work walk hit terminal link below %s", previous)
		}
		if o.store.IsCandidateHeader(link) {
			height, ok := o.store.GetHeight(link)
			if !ok {
				return nil, newError(ErrGetBranchWork, nil,
					"missing height for candidate link")
			}
			result.branchPoint = height
			return result, nil
		}

		bits, ok := o.store.GetBits(link)
		if !ok {
			return nil, newError(ErrGetBranchWork, nil,
				"missing bits for store link")
		}
		result.storeBranch = append(result.storeBranch, link)
		result.work.Add(result.work, proof(bits))
		link = o.store.ToParent(link)
	}
}

// getIsStrong compares branchWork.work against the candidate chain's
// accumulated work strictly above the branch point, with early
// termination the instant candidate work catches up.
func (o *Organizer) getIsStrong(bw *branchWork) (bool, error) {
	candidateWork := big.NewInt(0)
	top := o.store.GetTopCandidate()

	for height := top; height > bw.branchPoint; height-- {
		link := o.store.ToCandidate(height)
		bits, ok := o.store.GetBits(link)
		if !ok {
			return false, newError(ErrGetIsStrong, nil,
				"missing bits for candidate height %d", height)
		}
		candidateWork.Add(candidateWork, proof(bits))
		if candidateWork.Cmp(bw.work) >= 0 {
			return false, nil
		}
	}

	return candidateWork.Cmp(bw.work) < 0, nil
}
