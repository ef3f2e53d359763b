// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"io"
	"math"

	"github.com/pkg/errors"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
	"gitlab.com/jaxnet/mmrd/types/wire"
)

// BranchKind tags the closed set of proof branch variants. The codes are
// part of the wire format and must not be renumbered.
type BranchKind uint8

const (
	// BranchInvalid marks an unusable branch.
	BranchInvalid BranchKind = 0

	// BranchBTC is a bitcoin-style double-sha256 merkle branch.
	BranchBTC BranchKind = 1

	// BranchMMRNode is a mountain range branch over plain nodes.
	BranchMMRNode BranchKind = 2

	// BranchMMRPowerNode is a mountain range branch over power nodes,
	// carrying one packed power hash per sibling.
	BranchMMRPowerNode BranchKind = 3

	// BranchETH is a foreign-chain patricia trie proof payload.
	BranchETH BranchKind = 4

	// BranchMultiPart is one chunk of a larger serialized proof.
	BranchMultiPart BranchKind = 5
)

func (k BranchKind) String() string {
	switch k {
	case BranchBTC:
		return "btc"
	case BranchMMRNode:
		return "mmrnode"
	case BranchMMRPowerNode:
		return "mmrpowernode"
	case BranchETH:
		return "eth"
	case BranchMultiPart:
		return "multipart"
	default:
		return "invalid"
	}
}

// InvalidProofIndex is the sentinel index of a branch that was never
// populated; SafeCheck rejects it outright.
const InvalidProofIndex = uint32(math.MaxUint32)

// Branch is one typed step of a proof: a replayable fragment carrying
// sibling hashes and positional metadata. The set of implementations is
// closed, every kind maps to exactly one concrete type.
type Branch interface {
	// Kind returns the branch variant tag.
	Kind() BranchKind

	// SafeCheck replays the branch against hash and returns the
	// resulting root hash, or the zero hash when the branch is invalid
	// or non-canonical.
	SafeCheck(hash chainhash.Hash) chainhash.Hash

	// Serialize writes the branch payload, without its kind tag, to w.
	Serialize(w io.Writer) error

	// Deserialize reads the branch payload, without its kind tag,
	// from r.
	Deserialize(r io.Reader) error
}

// safeCheckWalk replays siblings against the index bits, LSB first. At
// an odd step the sibling hashes in on the left and must differ from
// the running hash: a right child equal to its left sibling is
// non-canonical and the walk fails to the zero hash.
func safeCheckWalk(newWriter func() HashWriter, hash chainhash.Hash, index uint64, siblings []chainhash.Hash) chainhash.Hash {
	for _, sibling := range siblings {
		if index&1 == 1 {
			if sibling == hash {
				return chainhash.ZeroHash
			}
			hash = CombineHashes(newWriter(), sibling, hash)
		} else {
			hash = CombineHashes(newWriter(), hash, sibling)
		}
		index >>= 1
	}
	return hash
}

// readBranchHashes reads a varint-counted list of sibling hashes.
func readBranchHashes(r io.Reader) ([]chainhash.Hash, error) {
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > wire.MaxProofPayload/chainhash.HashSize {
		return nil, errors.Errorf("branch of %d hashes is larger than the max allowed size", count)
	}

	hashes := make([]chainhash.Hash, count)
	for i := range hashes {
		if _, err := io.ReadFull(r, hashes[i][:]); err != nil {
			return nil, err
		}
	}
	return hashes, nil
}

// writeBranchHashes writes a varint-counted list of sibling hashes.
func writeBranchHashes(w io.Writer, hashes []chainhash.Hash) error {
	if err := wire.WriteVarInt(w, uint64(len(hashes))); err != nil {
		return err
	}
	for i := range hashes {
		if _, err := w.Write(hashes[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// MerkleBranch is a bitcoin-style merkle proof over double-sha256,
// compatible with existing block merkle roots.
type MerkleBranch struct {
	// Index of the proven element in the merkle tree.
	Index uint32

	// Branch is the sibling path, leaf level first.
	Branch []chainhash.Hash
}

// NewMerkleBranch wraps an index and a sibling path.
func NewMerkleBranch(index uint32, branch []chainhash.Hash) *MerkleBranch {
	return &MerkleBranch{Index: index, Branch: branch}
}

// Kind returns BranchBTC.
func (b *MerkleBranch) Kind() BranchKind { return BranchBTC }

// Append chains another branch of the same kind onto this one: the
// appended siblings extend the path and its index continues where this
// branch's bits end.
func (b *MerkleBranch) Append(other *MerkleBranch) *MerkleBranch {
	b.Index += other.Index << uint(len(b.Branch))
	b.Branch = append(b.Branch, other.Branch...)
	return b
}

// SafeCheck replays the branch from hash and returns the implied root.
func (b *MerkleBranch) SafeCheck(hash chainhash.Hash) chainhash.Hash {
	if b.Index == InvalidProofIndex {
		return chainhash.ZeroHash
	}
	return safeCheckWalk(NewDoubleHashWriter, hash, uint64(b.Index), b.Branch)
}

// Serialize writes the branch payload to w.
func (b *MerkleBranch) Serialize(w io.Writer) error {
	if err := wire.WriteVarInt(w, uint64(b.Index)); err != nil {
		return err
	}
	return writeBranchHashes(w, b.Branch)
}

// Deserialize reads the branch payload from r.
func (b *MerkleBranch) Deserialize(r io.Reader) error {
	index, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	b.Index = uint32(index)

	b.Branch, err = readBranchHashes(r)
	return err
}

// MMRBranch is a proof path through a mountain range view, replayable
// with the position remapping GetMMRProofIndex derives from the view
// size.
type MMRBranch struct {
	kind BranchKind

	// Index of the proven element in the view.
	Index uint32

	// Size of the entire view, which determines the correct path.
	Size uint32

	// Branch is the sibling path including any extra per-step hashes.
	Branch []chainhash.Hash
}

// NewMMRBranch returns an empty branch over plain nodes.
func NewMMRBranch() *MMRBranch {
	return &MMRBranch{kind: BranchMMRNode}
}

// NewMMRPowerBranch returns an empty branch over power nodes.
func NewMMRPowerBranch() *MMRBranch {
	return &MMRBranch{kind: BranchMMRPowerNode}
}

// Kind returns BranchMMRNode or BranchMMRPowerNode.
func (b *MMRBranch) Kind() BranchKind { return b.kind }

// extraHashCount mirrors the node type the branch was generated over.
func (b *MMRBranch) extraHashCount() int {
	if b.kind == BranchMMRPowerNode {
		return 1
	}
	return 0
}

// Append chains another branch of the same kind onto this one.
func (b *MMRBranch) Append(other *MMRBranch) *MMRBranch {
	b.Index += other.Index << uint(len(b.Branch))
	b.Branch = append(b.Branch, other.Branch...)
	return b
}

// SafeCheck replays the branch from hash and returns the implied root.
func (b *MMRBranch) SafeCheck(hash chainhash.Hash) chainhash.Hash {
	if b.Index == InvalidProofIndex {
		return chainhash.ZeroHash
	}
	index := GetMMRProofIndex(uint64(b.Index), uint64(b.Size), b.extraHashCount())
	return safeCheckWalk(NewBlakeWriter, hash, index, b.Branch)
}

// Serialize writes the branch payload to w.
func (b *MMRBranch) Serialize(w io.Writer) error {
	if err := wire.WriteVarInt(w, uint64(b.Index)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(w, uint64(b.Size)); err != nil {
		return err
	}
	return writeBranchHashes(w, b.Branch)
}

// Deserialize reads the branch payload from r.
func (b *MMRBranch) Deserialize(r io.Reader) error {
	index, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	size, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	b.Index = uint32(index)
	b.Size = uint32(size)

	b.Branch, err = readBranchHashes(r)
	return err
}

// RLPProof is an opaque list of RLP-encoded trie nodes carried inside a
// patricia branch.
type RLPProof struct {
	Branch [][]byte
}

// Serialize writes the node list to w.
func (p *RLPProof) Serialize(w io.Writer) error {
	if err := wire.WriteVarInt(w, uint64(len(p.Branch))); err != nil {
		return err
	}
	for _, node := range p.Branch {
		if err := wire.WriteVarBytes(w, node); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads the node list from r.
func (p *RLPProof) Deserialize(r io.Reader) error {
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > wire.MaxProofPayload {
		return errors.Errorf("rlp proof of %d nodes is larger than the max allowed size", count)
	}

	p.Branch = make([][]byte, count)
	for i := range p.Branch {
		p.Branch[i], err = wire.ReadVarBytes(r, wire.MaxProofPayload, "rlp proof node")
		if err != nil {
			return err
		}
	}
	return nil
}

// AddressSize is the byte length of a foreign-chain account address.
const AddressSize = 20

// PatriciaBranch carries an ethereum-style account and storage proof.
// The payload is transported and serialized here; its trie verification
// belongs to the foreign-chain verifier, so SafeCheck cannot vouch for
// it and fails closed.
type PatriciaBranch struct {
	ProofData       RLPProof
	Address         [AddressSize]byte
	Balance         chainhash.Hash
	CodeHash        chainhash.Hash
	Nonce           uint64
	StorageHash     chainhash.Hash
	StorageProofKey chainhash.Hash
	StorageProof    RLPProof
}

// Kind returns BranchETH.
func (b *PatriciaBranch) Kind() BranchKind { return BranchETH }

// SafeCheck always fails closed: patricia verification is out of reach
// of the hash replay this package implements.
func (b *PatriciaBranch) SafeCheck(hash chainhash.Hash) chainhash.Hash {
	return chainhash.ZeroHash
}

// Serialize writes the branch payload to w.
func (b *PatriciaBranch) Serialize(w io.Writer) error {
	if err := b.ProofData.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write(b.Address[:]); err != nil {
		return err
	}
	if _, err := w.Write(b.Balance[:]); err != nil {
		return err
	}
	if _, err := w.Write(b.CodeHash[:]); err != nil {
		return err
	}
	if err := wire.WriteVarInt(w, b.Nonce); err != nil {
		return err
	}
	if _, err := w.Write(b.StorageHash[:]); err != nil {
		return err
	}
	if _, err := w.Write(b.StorageProofKey[:]); err != nil {
		return err
	}
	return b.StorageProof.Serialize(w)
}

// Deserialize reads the branch payload from r.
func (b *PatriciaBranch) Deserialize(r io.Reader) error {
	if err := b.ProofData.Deserialize(r); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, b.Address[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, b.Balance[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, b.CodeHash[:]); err != nil {
		return err
	}
	nonce, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	b.Nonce = nonce
	if _, err := io.ReadFull(r, b.StorageHash[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, b.StorageProofKey[:]); err != nil {
		return err
	}
	return b.StorageProof.Deserialize(r)
}

// MultiPartBranch is a non-semantic container: one chunk of the
// serialized form of a proof too large to transmit atomically.
type MultiPartBranch struct {
	Data []byte
}

// Kind returns BranchMultiPart.
func (b *MultiPartBranch) Kind() BranchKind { return BranchMultiPart }

// Append concatenates another chunk's payload onto this one.
func (b *MultiPartBranch) Append(other *MultiPartBranch) *MultiPartBranch {
	b.Data = append(b.Data, other.Data...)
	return b
}

// SafeCheck always fails closed: a chunk has no replayable semantics
// until the original proof is reassembled.
func (b *MultiPartBranch) SafeCheck(hash chainhash.Hash) chainhash.Hash {
	return chainhash.ZeroHash
}

// Serialize writes the chunk payload to w.
func (b *MultiPartBranch) Serialize(w io.Writer) error {
	return wire.WriteVarBytes(w, b.Data)
}

// Deserialize reads the chunk payload from r.
func (b *MultiPartBranch) Deserialize(r io.Reader) error {
	data, err := wire.ReadVarBytes(r, wire.MaxProofPayload, "multipart proof chunk")
	if err != nil {
		return err
	}
	b.Data = data
	return nil
}
