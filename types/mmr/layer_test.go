// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
)

func testNode(i uint64) Node {
	return NewNode(chainhash.HashH([]byte(fmt.Sprintf("node_%d", i))))
}

func TestChunkedLayerPushAcrossChunkBoundary(t *testing.T) {
	layer := NewChunkedLayer[Node]()

	count := uint64(chunkSize + 5)
	for i := uint64(0); i < count; i++ {
		layer.Push(testNode(i))
	}

	assert.Equal(t, count, layer.Size())
	assert.Equal(t, testNode(0), layer.Get(0))
	assert.Equal(t, testNode(chunkSize-1), layer.Get(chunkSize-1))
	assert.Equal(t, testNode(chunkSize), layer.Get(chunkSize))
	assert.Equal(t, testNode(count-1), layer.Get(count-1))
}

func TestChunkedLayerResize(t *testing.T) {
	layer := NewChunkedLayer[Node]()
	for i := uint64(0); i < chunkSize+10; i++ {
		layer.Push(testNode(i))
	}

	// Shrink below the chunk boundary, then across it.
	layer.Resize(chunkSize + 3)
	assert.Equal(t, uint64(chunkSize+3), layer.Size())
	assert.Equal(t, testNode(chunkSize+2), layer.Get(chunkSize+2))

	layer.Resize(7)
	assert.Equal(t, uint64(7), layer.Size())
	assert.Equal(t, testNode(6), layer.Get(6))

	// Pushing after the shrink continues from the new end.
	layer.Push(testNode(100))
	assert.Equal(t, testNode(100), layer.Get(7))

	// Growing zero-extends.
	layer.Resize(12)
	assert.Equal(t, uint64(12), layer.Size())
	assert.Equal(t, Node{}, layer.Get(11))

	layer.Resize(0)
	assert.Equal(t, uint64(0), layer.Size())
}

func TestChunkedLayerGetOutOfRangePanics(t *testing.T) {
	layer := NewChunkedLayer[Node]()
	layer.Push(testNode(0))

	assert.Panics(t, func() { layer.Get(1) })
}

type sliceNodeSource struct {
	nodes []Node
}

func (s *sliceNodeSource) MMRNode(index uint64) Node {
	return s.nodes[index]
}

func TestOverlayLayerDelegatesToSource(t *testing.T) {
	source := &sliceNodeSource{}
	for i := uint64(0); i < 6; i++ {
		source.nodes = append(source.nodes, testNode(i))
	}

	layer := NewOverlayLayer[Node](source)
	assert.Equal(t, uint64(0), layer.Size())

	// Pushes only move the tracked end, the values live with the source.
	for range source.nodes {
		layer.Push(Node{})
	}
	assert.Equal(t, uint64(6), layer.Size())
	assert.Equal(t, testNode(4), layer.Get(4))

	layer.Resize(3)
	assert.Equal(t, uint64(3), layer.Size())
	assert.Panics(t, func() { layer.Get(3) })

	layer.Clear()
	assert.Equal(t, uint64(0), layer.Size())
}
