// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
)

// HashWriter is a streaming writer that folds everything written into it
// to a single hash. Writers are single use: create a fresh one per
// combination step.
type HashWriter interface {
	Write(p []byte) (int, error)
	Sum() chainhash.Hash
}

type hashWriter struct {
	h hash.Hash
}

func (w hashWriter) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

func (w hashWriter) Sum() (result chainhash.Hash) {
	copy(result[:], w.h.Sum(nil))
	return
}

// NewBlakeWriter returns a BLAKE2b-256 hash writer. It is the combiner
// used by the default mountain range node types.
func NewBlakeWriter() HashWriter {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return hashWriter{h: h}
}

// NewKeccakWriter returns a legacy Keccak-256 hash writer, the combiner
// used for structures shared with ethereum-style chains.
func NewKeccakWriter() HashWriter {
	return hashWriter{h: sha3.NewLegacyKeccak256()}
}

type doubleHashWriter struct {
	data []byte
}

func (w *doubleHashWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *doubleHashWriter) Sum() chainhash.Hash {
	return chainhash.DoubleHashH(w.data)
}

// NewDoubleHashWriter returns a double-sha256 hash writer compatible with
// bitcoin-style merkle trees.
func NewDoubleHashWriter() HashWriter {
	return &doubleHashWriter{}
}

// CombineHashes hashes left followed by right with a fresh writer from hw.
// The combination is order sensitive: swapping the children changes the
// parent hash.
func CombineHashes(hw HashWriter, left, right chainhash.Hash) chainhash.Hash {
	hw.Write(left[:])
	hw.Write(right[:])
	return hw.Sum()
}
