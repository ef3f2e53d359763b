// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import "fmt"

// Layer is one height of a mountain range: an ordered, append-only,
// randomly indexable sequence of nodes that can be truncated but never
// reordered.
type Layer[N any] interface {
	// Size returns the number of nodes in the layer.
	Size() uint64

	// Get returns the node at idx. Indexing past the end is a programmer
	// error and panics.
	Get(idx uint64) N

	// Push appends a node at the end of the layer.
	Push(node N)

	// Resize truncates or zero-extends the layer to newSize.
	Resize(newSize uint64)

	// Clear drops every node.
	Clear()
}

const (
	chunkShift = 9
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
)

// ChunkedLayer owns its storage as a vector of fixed-capacity chunks, so
// growth never reallocates one giant contiguous buffer and truncation
// releases whole chunks at a time.
type ChunkedLayer[N any] struct {
	size   uint64
	chunks [][]N
}

// NewChunkedLayer returns an empty materialized layer.
func NewChunkedLayer[N any]() *ChunkedLayer[N] {
	return &ChunkedLayer[N]{}
}

// Size returns the number of nodes in the layer.
func (l *ChunkedLayer[N]) Size() uint64 {
	return l.size
}

// Get returns the node at idx, panics when idx is past the end.
func (l *ChunkedLayer[N]) Get(idx uint64) N {
	if idx >= l.size {
		panic(fmt.Sprintf("mmr: chunked layer index %d out of range, size %d", idx, l.size))
	}
	return l.chunks[idx>>chunkShift][idx&chunkMask]
}

// Push appends a node, allocating a fresh chunk when the previous one
// just filled up.
func (l *ChunkedLayer[N]) Push(node N) {
	l.size++
	if l.size&chunkMask == 1 {
		l.chunks = append(l.chunks, make([]N, 0, chunkSize))
	}
	last := len(l.chunks) - 1
	l.chunks[last] = append(l.chunks[last], node)
}

// Resize truncates the layer to newSize, or zero-extends it when newSize
// is larger than the current size.
func (l *ChunkedLayer[N]) Resize(newSize uint64) {
	switch {
	case newSize == 0:
		l.Clear()

	case newSize < l.size:
		chunkCount := ((newSize - 1) >> chunkShift) + 1
		l.chunks = l.chunks[:chunkCount]
		lastLen := ((newSize - 1) & chunkMask) + 1
		l.chunks[chunkCount-1] = l.chunks[chunkCount-1][:lastLen]
		l.size = newSize

	case newSize > l.size:
		var zero N
		for l.size < newSize {
			l.Push(zero)
		}
	}
}

// Clear drops every node and releases the chunk storage.
func (l *ChunkedLayer[N]) Clear() {
	l.chunks = nil
	l.size = 0
}

// NodeSource produces nodes for an overlay layer from externally owned
// storage, a database-backed node index for example.
type NodeSource[N any] interface {
	// MMRNode returns the node stored at index. The overlay guarantees
	// index is below the size it tracks.
	MMRNode(index uint64) N
}

// OverlayLayer is a layer view over externally owned nodes: indexing
// delegates to the source and only the size is tracked here, so pushes
// and truncations never touch the underlying storage.
type OverlayLayer[N any] struct {
	source NodeSource[N]
	size   uint64
}

// NewOverlayLayer returns an empty overlay over source.
func NewOverlayLayer[N any](source NodeSource[N]) *OverlayLayer[N] {
	return &OverlayLayer[N]{source: source}
}

// Size returns the number of nodes the overlay spans.
func (l *OverlayLayer[N]) Size() uint64 {
	return l.size
}

// Get returns the node at idx from the backing source, panics when idx
// is past the tracked end.
func (l *OverlayLayer[N]) Get(idx uint64) N {
	if idx >= l.size {
		panic(fmt.Sprintf("mmr: overlay layer index %d out of range, size %d", idx, l.size))
	}
	return l.source.MMRNode(idx)
}

// Push records that the backing storage grew by one node. The node value
// itself already lives with the source.
func (l *OverlayLayer[N]) Push(node N) {
	l.size++
}

// Resize moves the tracked end of the overlay.
func (l *OverlayLayer[N]) Resize(newSize uint64) {
	l.size = newSize
}

// Clear resets the overlay to empty.
func (l *OverlayLayer[N]) Clear() {
	l.size = 0
}
