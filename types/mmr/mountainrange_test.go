// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRange(leafCount uint64) *MerkleMountainRange[Node] {
	mmr := NewMerkleMountainRange[Node]()
	for i := uint64(0); i < leafCount; i++ {
		mmr.Add(testNode(i))
	}
	return mmr
}

func TestMountainRangeAdd(t *testing.T) {
	mmr := NewMerkleMountainRange[Node]()
	assert.Equal(t, uint64(0), mmr.Size())
	assert.Equal(t, uint32(0), mmr.Height())

	for i := uint64(0); i < 33; i++ {
		assert.Equal(t, i, mmr.Add(testNode(i)))
		assert.Equal(t, i+1, mmr.Size())
		assert.Equal(t, uint32(bits.Len64(i+1)), mmr.Height())
	}

	assert.Equal(t, testNode(7), mmr.Leaf(7))
	assert.Equal(t, testNode(7), mmr.GetNode(0, 7))

	// Interior nodes hold the pairwise combinations of the layer below.
	assert.Equal(t, testNode(0).CombineWith(testNode(1)), mmr.GetNode(1, 0))
	assert.Equal(t, mmr.GetNode(1, 0).CombineWith(mmr.GetNode(1, 1)), mmr.GetNode(2, 0))
}

func TestMountainRangeGetNodeOutOfBounds(t *testing.T) {
	mmr := buildRange(5)

	assert.Equal(t, Node{}, mmr.GetNode(0, 5))
	assert.Equal(t, Node{}, mmr.GetNode(1, 2))
	assert.Equal(t, Node{}, mmr.GetNode(10, 0))
	assert.Panics(t, func() { mmr.Leaf(5) })
}

func TestMountainRangeLayerSizes(t *testing.T) {
	// Every interior layer holds exactly half the completed pairs of the
	// layer below.
	for _, leafCount := range []uint64{1, 2, 3, 4, 5, 8, 13, 16, 21, 64, 100} {
		mmr := buildRange(leafCount)

		size := leafCount
		for height := uint32(0); height < mmr.Height(); height++ {
			lastIdx := size - 1
			var zero Node
			assert.NotEqual(t, zero, mmr.GetNode(height, lastIdx),
				"leafCount=%d height=%d", leafCount, height)
			assert.Equal(t, zero, mmr.GetNode(height, lastIdx+1),
				"leafCount=%d height=%d", leafCount, height)
			size >>= 1
		}
	}
}

func TestMountainRangeTruncate(t *testing.T) {
	mmr := buildRange(21)
	mmr.Truncate(13)

	fresh := buildRange(13)
	require.Equal(t, fresh.Size(), mmr.Size())
	require.Equal(t, fresh.Height(), mmr.Height())

	size := uint64(13)
	for height := uint32(0); height < fresh.Height(); height++ {
		for idx := uint64(0); idx < size; idx++ {
			assert.Equal(t, fresh.GetNode(height, idx), mmr.GetNode(height, idx),
				"height=%d idx=%d", height, idx)
		}
		size >>= 1
	}

	// Truncating to the current size or beyond is a no-op.
	mmr.Truncate(13)
	mmr.Truncate(50)
	assert.Equal(t, uint64(13), mmr.Size())

	// Appends after a truncate rebuild the same nodes as a fresh range.
	for i := uint64(13); i < 21; i++ {
		mmr.Add(testNode(i))
	}
	full := buildRange(21)
	assert.Equal(t, full.GetNode(2, 4), mmr.GetNode(2, 4))
	assert.Equal(t, full.GetNode(4, 0), mmr.GetNode(4, 0))

	mmr.Truncate(0)
	assert.Equal(t, uint64(0), mmr.Size())
	assert.Equal(t, uint32(0), mmr.Height())
}

func TestMountainRangeOverlayLeafLayer(t *testing.T) {
	source := &sliceNodeSource{}
	for i := uint64(0); i < 11; i++ {
		source.nodes = append(source.nodes, testNode(i))
	}

	overlay := NewMerkleMountainRangeWithLayer[Node](NewOverlayLayer[Node](source))
	for _, n := range source.nodes {
		overlay.Add(n)
	}

	materialized := buildRange(11)
	assert.Equal(t, materialized.Size(), overlay.Size())
	assert.Equal(t, materialized.Height(), overlay.Height())
	assert.Equal(t, materialized.GetNode(0, 10), overlay.GetNode(0, 10))
	assert.Equal(t, materialized.GetNode(3, 0), overlay.GetNode(3, 0))

	overlayView := NewMerkleMountainView[Node](overlay, overlay.Size())
	materializedView := NewMerkleMountainView[Node](materialized, materialized.Size())
	assert.Equal(t, materializedView.GetRoot(), overlayView.GetRoot())
}
