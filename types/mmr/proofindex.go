// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

// proofSteps replays, without touching any mountain range, the exact
// left/right decisions GetProof makes for the element at pos in a view
// of mmvSize leaves. emit is called once per hash the proof carries: 1
// when the sibling lands on the left of the running hash, 0 when it
// lands on the right, and 0 for every extra-hash slot. GetProofBits and
// GetMMRProofIndex are both thin packings of this walk; deriving them
// from one source is what keeps generator and verifier in lockstep.
func proofSteps(pos, mmvSize uint64, extraHashes int, emit func(bit byte)) {
	if pos == 0 || pos >= mmvSize {
		return
	}

	sizes := make([]uint64, 0, 16)
	for s := mmvSize; s > 0; s >>= 1 {
		sizes = append(sizes, s)
	}

	// A height is a peak when it is the top or its size is odd; indexes
	// run highest height first, mirroring CalcPeaks order.
	var peakIndexes []int
	for ht := 0; ht < len(sizes); ht++ {
		if ht == len(sizes)-1 || sizes[ht]&1 == 1 {
			peakIndexes = append([]int{ht}, peakIndexes...)
		}
	}

	// Layer sizes of the peak merkle tree: pairs combine, an odd tail
	// passes through.
	var merkleSizes []uint64
	layerSize := uint64(len(peakIndexes))
	passThrough := layerSize & 1
	for layerNum := 0; layerNum == 0 || layerSize > 1; layerNum++ {
		layerSize = (layerSize >> 1) + passThrough
		if layerSize > 0 {
			merkleSizes = append(merkleSizes, layerSize)
		}
		passThrough = layerSize & 1
	}

	emitExtras := func() {
		for i := 0; i < extraHashes; i++ {
			emit(0)
		}
	}

	// Extra leaf hashes land on the right at the start of the proof.
	emitExtras()

	p := pos
	for l := 0; l < len(sizes); l++ {
		if p&1 == 1 {
			emit(1)
			p >>= 1
			emitExtras()
			continue
		}

		if sizes[l] > p+1 {
			emit(0)
			p >>= 1
			emitExtras()
			continue
		}

		// The current node is a peak; switch to the peak merkle walk.
		for i := range peakIndexes {
			if peakIndexes[i] == l {
				p = uint64(i)
				break
			}
		}

		layerNum := -1
		layerSize = uint64(len(peakIndexes))
		for layerNum == -1 || layerSize > 1 {
			if p < layerSize-1 || p&1 == 1 {
				emit(byte(p & 1))
				emitExtras()
			}
			p >>= 1
			layerNum++
			layerSize = merkleSizes[layerNum]
		}
		break
	}
}

// GetProofBits returns one byte per hash an equivalent GetProof walk
// would emit for pos in a view of mmvSize: 1 where the running hash is
// the right child of the step, 0 where it is the left, with placeholder
// zeroes for every extra-hash slot. Callers use it to predict proof
// shape without materializing a range or a view.
func GetProofBits(pos, mmvSize uint64, extraHashes int) []byte {
	var bits []byte
	proofSteps(pos, mmvSize, extraHashes, func(bit byte) {
		bits = append(bits, bit)
	})
	return bits
}

// GetMMRProofIndex packs the same walk into the LSB-first index consumed
// by the verification bit-walk, accounting for the extra-hash slots each
// layer contributes.
func GetMMRProofIndex(pos, mmvSize uint64, extraHashes int) uint64 {
	var index uint64
	bitPos := 0
	proofSteps(pos, mmvSize, extraHashes, func(bit byte) {
		if bit == 1 {
			index |= 1 << bitPos
		}
		bitPos++
	})
	return index
}
