// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.  This is a helper
// function used to aid in the generation of a merkle tree.
func HashMerkleBranches(left *Hash, right *Hash) *Hash {
	// Concatenate the left and right nodes.
	var hash [HashSize * 2]byte
	copy(hash[:HashSize], left[:])
	copy(hash[HashSize:], right[:])

	newHash := DoubleHashH(hash[:])
	return &newHash
}

// MerkleTreeRoot reduces the passed leaf hashes to a single merkle root.
// A layer with an odd number of nodes hashes its last node with itself,
// matching the bitcoin merkle tree construction.
func MerkleTreeRoot(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return ZeroHash
	}

	layer := leaves
	for len(layer) > 1 {
		next := make([]Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			right := i + 1
			if right == len(layer) {
				right = i
			}
			next = append(next, *HashMerkleBranches(&layer[i], &layer[right]))
		}
		layer = next
	}
	return layer[0]
}

// BuildMerkleTreeProof returns the merkle branch proving inclusion of the
// first leaf.  The first position is the only one ever proven this way in
// practice, it is where the coinbase transaction lives.
func BuildMerkleTreeProof(leaves []Hash) []Hash {
	proof := make([]Hash, 0, 8)
	layer := leaves
	for len(layer) > 1 {
		proof = append(proof, layer[1])

		next := make([]Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			right := i + 1
			if right == len(layer) {
				right = i
			}
			next = append(next, *HashMerkleBranches(&layer[i], &layer[right]))
		}
		layer = next
	}
	return proof
}

// ValidateMerkleTreeProof checks that the branch produced by
// BuildMerkleTreeProof connects the leaf to the root.
func ValidateMerkleTreeProof(leaf Hash, proof []Hash, root Hash) bool {
	hash := leaf
	for i := range proof {
		hash = *HashMerkleBranches(&hash, &proof[i])
	}
	return hash == root
}
