// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

// MerkleMountainRange is an append-only accumulator over a leaf layer
// and a stack of interior layers, one per height. Appends ripple up and
// touch at most one node per layer, so the structure stays O(log n) in
// height while keeping exactly the nodes every peak reconstruction
// needs.
type MerkleMountainRange[N MMRNode[N]] struct {
	layer0 Layer[N]
	upper  []*ChunkedLayer[N]
}

// NewMerkleMountainRange returns an empty range with materialized leaf
// storage.
func NewMerkleMountainRange[N MMRNode[N]]() *MerkleMountainRange[N] {
	return &MerkleMountainRange[N]{layer0: NewChunkedLayer[N]()}
}

// NewMerkleMountainRangeWithLayer returns an empty range whose leaf layer
// is provided by the caller, an OverlayLayer over an external node store
// for example. Interior layers are always materialized.
func NewMerkleMountainRangeWithLayer[N MMRNode[N]](layer0 Layer[N]) *MerkleMountainRange[N] {
	return &MerkleMountainRange[N]{layer0: layer0}
}

// Add appends a leaf and rebuilds the affected interior nodes, one per
// height at most. It returns the index of the new leaf.
func (m *MerkleMountainRange[N]) Add(leaf N) uint64 {
	m.layer0.Push(leaf)

	layerSize := m.layer0.Size()
	for height := 0; height <= len(m.upper) && layerSize > 1; height++ {
		newSizeAbove := layerSize >> 1

		// First time this height is reached, open a new interior layer.
		if height == len(m.upper) {
			m.upper = append(m.upper, NewChunkedLayer[N]())
		}

		// An even layer size means its two trailing nodes just became a
		// complete pair whose parent the layer above may still lack.
		if layerSize&1 == 0 && newSizeAbove > m.upper[height].Size() {
			idx := layerSize - 2
			if height > 0 {
				below := m.upper[height-1]
				m.upper[height].Push(below.Get(idx).CombineWith(below.Get(idx + 1)))
			} else {
				m.upper[height].Push(m.layer0.Get(idx).CombineWith(m.layer0.Get(idx + 1)))
			}
		}
		layerSize = newSizeAbove
	}

	return m.layer0.Size() - 1
}

// Size returns the number of leaves in the range.
func (m *MerkleMountainRange[N]) Size() uint64 {
	return m.layer0.Size()
}

// Height returns the number of populated layers, zero for an empty range.
func (m *MerkleMountainRange[N]) Height() uint32 {
	if m.layer0.Size() == 0 {
		return 0
	}
	return uint32(len(m.upper)) + 1
}

// Leaf returns the leaf at pos. Indexing past the end panics, use
// GetNode for a forgiving read.
func (m *MerkleMountainRange[N]) Leaf(pos uint64) N {
	return m.layer0.Get(pos)
}

// GetNode returns the node at the given height and index, or the zero
// node when the position is out of bounds.
func (m *MerkleMountainRange[N]) GetNode(height uint32, index uint64) N {
	if height < m.Height() {
		if height > 0 {
			if index < m.upper[height-1].Size() {
				return m.upper[height-1].Get(index)
			}
		} else if index < m.layer0.Size() {
			return m.layer0.Get(index)
		}
	}
	var zero N
	return zero
}

// Truncate rewinds the range to newSize leaves, recomputing every
// layer's size by repeated halving. Truncating to the current size or
// beyond is a no-op.
//
// Truncation must be synchronized by the caller with any live view of
// this range whose size extends past newSize: such views will read
// rewound layers and silently produce garbage.
func (m *MerkleMountainRange[N]) Truncate(newSize uint64) {
	if newSize >= m.Size() {
		return
	}

	sizes := make([]uint64, 0, 16)
	sizes = append(sizes, newSize)
	for s := newSize >> 1; s > 0; s >>= 1 {
		sizes = append(sizes, s)
	}

	m.upper = m.upper[:len(sizes)-1]
	m.layer0.Resize(sizes[0])
	for i := range m.upper {
		m.upper[i].Resize(sizes[i+1])
	}
}
