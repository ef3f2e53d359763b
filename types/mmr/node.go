// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"math/big"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
)

// MMRNode is the capability set a node type must provide to live in a
// mountain range. Implementations are plain value types; the zero value
// must be usable as the "missing node" placeholder.
type MMRNode[N any] interface {
	// CombineWith hashes the node as a left child with right and returns
	// the parent node.
	CombineWith(right N) N

	// ProofHashes returns the hashes a proof step contributes when this
	// node is the sibling of the node being proven.
	ProofHashes(proving N) []chainhash.Hash

	// LeafHashes returns the extra hashes prepended once at the start of
	// a proof of this node at the leaf level.
	LeafHashes() []chainhash.Hash

	// ExtraHashCount reports how many extra hashes accompany every
	// sibling in a proof of this node type.
	ExtraHashCount() int

	// NodeHash returns the node hash.
	NodeHash() chainhash.Hash

	// BranchKind reports the proof branch kind produced for this node type.
	BranchKind() BranchKind
}

var (
	bigOne = big.NewInt(1)

	// maskLow128 selects the work half of a packed power value.
	maskLow128 = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 128), bigOne)

	// mask256 truncates packed power arithmetic to 256 bits.
	mask256 = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 256), bigOne)
)

// hashToBig interprets the hash as a little-endian 256-bit integer.
func hashToBig(hash *chainhash.Hash) *big.Int {
	// A Hash is in little-endian, but the big package wants the bytes in
	// big-endian, so reverse them.
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// bigToHash packs the integer back into a little-endian hash. The value
// must fit 256 bits.
func bigToHash(value *big.Int) (hash chainhash.Hash) {
	b := value.Bytes()
	for i, v := range b {
		hash[len(b)-1-i] = v
	}
	return
}

// Node is a mountain range unit carrying only a hash. Parents are the
// BLAKE2b combination of their ordered children.
type Node struct {
	Hash chainhash.Hash
}

// NewNode wraps a content hash into a leaf node.
func NewNode(hash chainhash.Hash) Node {
	return Node{Hash: hash}
}

// CombineWith adds a right sibling to this left node and creates the
// parent node.
func (n Node) CombineWith(right Node) Node {
	return Node{Hash: CombineHashes(NewBlakeWriter(), n.Hash, right.Hash)}
}

// ProofHashes returns the single sibling hash a proof step carries.
func (n Node) ProofHashes(proving Node) []chainhash.Hash {
	return []chainhash.Hash{n.Hash}
}

// LeafHashes is empty, plain nodes track no extra leaf data.
func (n Node) LeafHashes() []chainhash.Hash { return nil }

// ExtraHashCount is zero for plain nodes.
func (n Node) ExtraHashCount() int { return 0 }

// NodeHash returns the node hash.
func (n Node) NodeHash() chainhash.Hash { return n.Hash }

// BranchKind reports the proof branch kind for plain nodes.
func (n Node) BranchKind() BranchKind { return BranchMMRNode }

// PowerNode carries, alongside its hash, the accumulated weight of every
// leaf below it: a 128-bit stake and a 128-bit work count packed into one
// 256-bit power value as stake<<128 | work.
type PowerNode struct {
	Hash  chainhash.Hash
	Power chainhash.Hash
}

// NewPowerNode builds a node from an already combined hash and its packed
// weights. Either weight beyond 128 bits is treated as data corruption
// and panics.
func NewPowerNode(hash chainhash.Hash, stake, work *big.Int) PowerNode {
	return PowerNode{Hash: hash, Power: packPower(stake, work)}
}

// NewPowerLeaf builds a leaf from a content hash and its weights. The
// leaf hash commits to the packed power, which is what lets a proof start
// from the bare content hash and fold the power in as its first step.
func NewPowerLeaf(content chainhash.Hash, stake, work *big.Int) PowerNode {
	power := packPower(stake, work)
	return PowerNode{
		Hash:  CombineHashes(NewBlakeWriter(), content, power),
		Power: power,
	}
}

// packPower packs stake and work the way 256-bit register arithmetic
// would: stake<<128 | work, truncated to 256 bits.
func packPower(stake, work *big.Int) chainhash.Hash {
	if stake.Sign() < 0 || work.Sign() < 0 || stake.BitLen() > 128 || work.BitLen() > 128 {
		panic("mmr: packed power weight beyond 128 bits")
	}
	v := new(big.Int).Lsh(stake, 128)
	v.Or(v, work)
	return bigToHash(v)
}

// sumPower mirrors the unchecked 256-bit arithmetic of the proof hash
// path: weight sums that spill past 128 bits wrap into the neighbouring
// half instead of failing.
func sumPower(left, right PowerNode) chainhash.Hash {
	stake := new(big.Int).Add(left.Stake(), right.Stake())
	work := new(big.Int).Add(left.Work(), right.Work())
	v := new(big.Int).Lsh(stake, 128)
	v.Or(v, work)
	v.And(v, mask256)
	return bigToHash(v)
}

// Stake returns the accumulated stake half of the packed power.
func (n PowerNode) Stake() *big.Int {
	return new(big.Int).Rsh(hashToBig(&n.Power), 128)
}

// Work returns the accumulated work half of the packed power.
func (n PowerNode) Work() *big.Int {
	return new(big.Int).And(hashToBig(&n.Power), maskLow128)
}

// CombineWith adds a right sibling to this left node and creates the
// parent node. Accumulated stake or work overflowing 128 bits means the
// range is corrupt and panics.
func (n PowerNode) CombineWith(right PowerNode) PowerNode {
	stake := new(big.Int).Add(n.Stake(), right.Stake())
	work := new(big.Int).Add(n.Work(), right.Work())
	power := packPower(stake, work)

	// The two hashing steps keep the proof representable as a plain
	// merkle proof, with steps along the way hashing with the packed
	// power instead of another node hash.
	preHash := CombineHashes(NewBlakeWriter(), n.Hash, right.Hash)
	return PowerNode{
		Hash:  CombineHashes(NewBlakeWriter(), preHash, power),
		Power: power,
	}
}

// ProofHashes returns the sibling hash followed by the packed power of
// the parent the step reconstructs.
func (n PowerNode) ProofHashes(proving PowerNode) []chainhash.Hash {
	return []chainhash.Hash{n.Hash, sumPower(n, proving)}
}

// LeafHashes returns the leaf's packed power, folded in as the very
// first proof step.
func (n PowerNode) LeafHashes() []chainhash.Hash {
	return []chainhash.Hash{n.Power}
}

// ExtraHashCount is one for power nodes: every sibling is accompanied by
// a packed power hash.
func (n PowerNode) ExtraHashCount() int { return 1 }

// NodeHash returns the node hash.
func (n PowerNode) NodeHash() chainhash.Hash { return n.Hash }

// BranchKind reports the proof branch kind for power nodes.
func (n PowerNode) BranchKind() BranchKind { return BranchMMRPowerNode }
