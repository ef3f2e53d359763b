// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"fmt"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
)

// MerkleMountainView is a read-only snapshot of a mountain range frozen
// at a chosen size at or below the range's current size. The view never
// reads past its frozen size, so later appends to the range are safe to
// interleave; truncation below the frozen size is not, see
// MerkleMountainRange.Truncate.
type MerkleMountainView[N MMRNode[N]] struct {
	mmr *MerkleMountainRange[N]

	// sizes[h] is the visible node count at height h, the halving
	// sequence of the view size.
	sizes []uint64

	// peaks and peakMerkle memoize the peak set and its merkle
	// reduction, computed lazily on first use.
	peaks      []N
	peakMerkle [][]N
}

// NewMerkleMountainView snapshots mountainRange at viewSize. A zero or
// too large viewSize clamps to the range's current size.
func NewMerkleMountainView[N MMRNode[N]](mountainRange *MerkleMountainRange[N], viewSize uint64) *MerkleMountainView[N] {
	maxSize := mountainRange.Size()
	if viewSize > maxSize || viewSize == 0 {
		viewSize = maxSize
	}

	v := &MerkleMountainView[N]{mmr: mountainRange}
	for s := viewSize; s > 0; s >>= 1 {
		v.sizes = append(v.sizes, s)
	}
	return v
}

// Size returns the number of leaves visible through the view.
func (v *MerkleMountainView[N]) Size() uint64 {
	if len(v.sizes) == 0 {
		return 0
	}
	return v.sizes[0]
}

// Resize repoints the view at newSize, dropping memoized peaks. It
// returns the resulting size after clamping.
func (v *MerkleMountainView[N]) Resize(newSize uint64) uint64 {
	if newSize != v.Size() {
		v.sizes = nil
		v.peaks = nil
		v.peakMerkle = nil

		if maxSize := v.mmr.Size(); newSize > maxSize {
			newSize = maxSize
		}
		for s := newSize; s > 0; s >>= 1 {
			v.sizes = append(v.sizes, s)
		}
	}
	return v.Size()
}

// CalcPeaks computes the peak set unless it is already memoized, or
// unconditionally when force is set.
func (v *MerkleMountainView[N]) CalcPeaks(force bool) {
	if !force && (len(v.peaks) != 0 || v.Size() == 0) {
		return
	}

	v.peaks = nil
	v.peakMerkle = nil
	for ht := 0; ht < len(v.sizes); ht++ {
		// A height is a peak when it is the top, or the layer above is
		// smaller than half this layer's size rounded up. Peaks are
		// pushed to the front so the final order runs highest height
		// first; proof reconstruction depends on this order.
		if ht == len(v.sizes)-1 || v.sizes[ht+1] < ((v.sizes[ht]+1)>>1) {
			v.peaks = append([]N{v.mmr.GetNode(uint32(ht), v.sizes[ht]-1)}, v.peaks...)
		}
	}
}

// GetPeaks returns the view's peaks, one per set bit of the view size,
// ordered from highest height to lowest.
func (v *MerkleMountainView[N]) GetPeaks() []N {
	v.CalcPeaks(false)
	return v.peaks
}

// GetRoot reduces the peaks pairwise to a single root hash, carrying an
// unpaired trailing peak through to the next layer unhashed. The
// reduction is memoized. The root of an empty view is the zero hash.
func (v *MerkleMountainView[N]) GetRoot() chainhash.Hash {
	var rootHash chainhash.Hash

	switch {
	case v.Size() > 0 && len(v.peakMerkle) == 0:
		v.CalcPeaks(false)

		layerSize := len(v.peaks)
		passThrough := layerSize&1 == 1
		for layerNum := 0; layerNum == 0 || layerSize > 1; layerNum++ {
			next := make([]N, 0, (layerSize>>1)+1)
			for i := 0; i < layerSize>>1; i++ {
				if layerNum > 0 {
					prior := v.peakMerkle[layerNum-1]
					next = append(next, prior[i<<1].CombineWith(prior[i<<1|1]))
				} else {
					next = append(next, v.peaks[i<<1].CombineWith(v.peaks[i<<1|1]))
				}
			}
			if passThrough {
				if layerNum > 0 {
					prior := v.peakMerkle[layerNum-1]
					next = append(next, prior[len(prior)-1])
				} else {
					next = append(next, v.peaks[len(v.peaks)-1])
				}
			}

			v.peakMerkle = append(v.peakMerkle, next)
			layerSize = len(next)
			passThrough = layerSize&1 == 1
		}
		rootHash = v.peakMerkle[len(v.peakMerkle)-1][0].NodeHash()

	case len(v.peakMerkle) > 0:
		rootHash = v.peakMerkle[len(v.peakMerkle)-1][0].NodeHash()
	}
	return rootHash
}

// GetRootNode returns the root node itself, false when the view is
// empty.
func (v *MerkleMountainView[N]) GetRootNode() (N, bool) {
	if root := v.GetRoot(); !root.IsZero() {
		return v.peakMerkle[len(v.peakMerkle)-1][0], true
	}
	var zero N
	return zero, false
}

// GetHash returns the hash of the leaf at index, the zero hash when the
// index is past the view size.
func (v *MerkleMountainView[N]) GetHash(index uint64) chainhash.Hash {
	if index >= v.Size() {
		return chainhash.ZeroHash
	}
	return v.mmr.Leaf(index).NodeHash()
}

// GetProof appends to ret a proof of the element at pos against this
// view's root. It reports false when pos is outside the view.
func (v *MerkleMountainView[N]) GetProof(ret *Proof, pos uint64) bool {
	if pos >= v.Size() {
		return false
	}

	// Make sure the peak merkle tree is calculated.
	v.GetRoot()

	var nodeType N
	branch := &MMRBranch{
		kind:  nodeType.BranchKind(),
		Index: uint32(pos),
		Size:  uint32(v.Size()),
	}

	// Extra leaf data, such as a power node's packed power, opens the
	// proof. This is the only point auxiliary leaf hashes are injected.
	branch.Branch = append(branch.Branch, v.mmr.Leaf(pos).LeafHashes()...)

	p := pos
	for l := 0; l < len(v.sizes); l++ {
		if p&1 == 1 {
			// Right child, pair with the sibling before us.
			sibling := v.mmr.GetNode(uint32(l), p-1)
			branch.Branch = append(branch.Branch, sibling.ProofHashes(v.mmr.GetNode(uint32(l), p))...)
			p >>= 1
			continue
		}

		if v.sizes[l] > p+1 {
			// Left child with a right sibling present.
			sibling := v.mmr.GetNode(uint32(l), p+1)
			branch.Branch = append(branch.Branch, sibling.ProofHashes(v.mmr.GetNode(uint32(l), p))...)
			p >>= 1
			continue
		}

		// No sibling at this height: the current node is a peak and the
		// rest of the path runs through the peak merkle tree. Find our
		// position among the peaks by hash.
		peakHash := v.mmr.GetNode(uint32(l), p).NodeHash()
		found := false
		for i := range v.peaks {
			if v.peaks[i].NodeHash() == peakHash {
				p = uint64(i)
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("mmr: peak for position %d not present in view", pos))
		}

		layerNum, layerSize := 0, len(v.peaks)
		for layerNum == 0 || layerSize > 1 {
			// An even index at the end of its layer has no partner: the
			// node passes through to the next layer and this step emits
			// nothing.
			if int(p) < layerSize-1 || p&1 == 1 {
				var sibling, proving N
				if layerNum > 0 {
					prior := v.peakMerkle[layerNum-1]
					if p&1 == 1 {
						sibling, proving = prior[p-1], prior[p]
					} else {
						sibling, proving = prior[p+1], prior[p]
					}
				} else {
					if p&1 == 1 {
						sibling, proving = v.peaks[p-1], v.peaks[p]
					} else {
						sibling, proving = v.peaks[p+1], v.peaks[p]
					}
				}
				branch.Branch = append(branch.Branch, sibling.ProofHashes(proving)...)
			}
			p >>= 1
			layerSize = len(v.peakMerkle[layerNum])
			layerNum++
		}
		break
	}

	ret.AddBranch(branch)
	return true
}
