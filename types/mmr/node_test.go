// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
)

func TestNodeCombineOrderSensitive(t *testing.T) {
	a := NewNode(chainhash.HashH([]byte("leaf_a")))
	b := NewNode(chainhash.HashH([]byte("leaf_b")))

	ab := a.CombineWith(b)
	ba := b.CombineWith(a)

	assert.NotEqual(t, ab.Hash, ba.Hash)
	assert.Equal(t, ab.Hash, CombineHashes(NewBlakeWriter(), a.Hash, b.Hash))
}

func TestNodeProofHashes(t *testing.T) {
	n := NewNode(chainhash.HashH([]byte("node")))

	assert.Equal(t, []chainhash.Hash{n.Hash}, n.ProofHashes(Node{}))
	assert.Empty(t, n.LeafHashes())
	assert.Equal(t, 0, n.ExtraHashCount())
	assert.Equal(t, BranchMMRNode, n.BranchKind())
}

func TestPowerNodePacking(t *testing.T) {
	stake := new(big.Int).Lsh(big.NewInt(7), 100)
	work := big.NewInt(42)

	n := NewPowerNode(chainhash.HashH([]byte("power")), stake, work)

	assert.Equal(t, 0, n.Stake().Cmp(stake))
	assert.Equal(t, 0, n.Work().Cmp(work))
	assert.Equal(t, 1, n.ExtraHashCount())
	assert.Equal(t, BranchMMRPowerNode, n.BranchKind())
}

func TestPowerNodeCombineAccumulates(t *testing.T) {
	left := NewPowerLeaf(chainhash.HashH([]byte("left")), big.NewInt(10), big.NewInt(100))
	right := NewPowerLeaf(chainhash.HashH([]byte("right")), big.NewInt(3), big.NewInt(5))

	parent := left.CombineWith(right)

	assert.Equal(t, int64(13), parent.Stake().Int64())
	assert.Equal(t, int64(105), parent.Work().Int64())

	// The parent hash is built in two steps so proofs can reveal the
	// pre-power intermediate.
	preHash := CombineHashes(NewBlakeWriter(), left.Hash, right.Hash)
	assert.Equal(t, CombineHashes(NewBlakeWriter(), preHash, parent.Power), parent.Hash)
}

func TestPowerNodeOverflowPanics(t *testing.T) {
	huge := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	left := NewPowerNode(chainhash.HashH([]byte("l")), huge, big.NewInt(1))
	right := NewPowerNode(chainhash.HashH([]byte("r")), big.NewInt(1), big.NewInt(1))

	assert.Panics(t, func() { left.CombineWith(right) })
	assert.Panics(t, func() {
		NewPowerNode(chainhash.Hash{}, new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(0))
	})
}

func TestPowerLeafCommitsToPower(t *testing.T) {
	content := chainhash.HashH([]byte("block"))
	leaf := NewPowerLeaf(content, big.NewInt(2), big.NewInt(33))

	assert.Equal(t, CombineHashes(NewBlakeWriter(), content, leaf.Power), leaf.Hash)
	assert.Equal(t, []chainhash.Hash{leaf.Power}, leaf.LeafHashes())
}

func TestHashWriters(t *testing.T) {
	left := chainhash.HashH([]byte("left"))
	right := chainhash.HashH([]byte("right"))

	blake := CombineHashes(NewBlakeWriter(), left, right)
	keccak := CombineHashes(NewKeccakWriter(), left, right)
	double := CombineHashes(NewDoubleHashWriter(), left, right)

	assert.NotEqual(t, blake, keccak)
	assert.NotEqual(t, blake, double)

	// The double-sha writer agrees with the merkle tree helper.
	assert.Equal(t, *chainhash.HashMerkleBranches(&left, &right), double)

	// Writers are deterministic across instances.
	assert.Equal(t, blake, CombineHashes(NewBlakeWriter(), left, right))
	assert.Equal(t, keccak, CombineHashes(NewKeccakWriter(), left, right))
}
