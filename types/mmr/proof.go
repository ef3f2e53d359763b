// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"gitlab.com/jaxnet/mmrd/types/chainhash"
	"gitlab.com/jaxnet/mmrd/types/wire"
)

// maxProofBranches bounds the branch count accepted from the wire.
const maxProofBranches = 4096

// Proof is an ordered sequence of heterogeneous branches chained by
// concatenation. Replaying feeds each branch's output hash into the
// next, so a single proof can cross structures: an element proven into
// a mountain range whose root is itself a leaf of an outer tree.
type Proof struct {
	Branches []Branch
}

// AddBranch appends a branch to the sequence.
func (p *Proof) AddBranch(branch Branch) *Proof {
	p.Branches = append(p.Branches, branch)
	return p
}

// IsMultiPart reports whether the proof is a single chunk of a larger
// serialized proof.
func (p *Proof) IsMultiPart() bool {
	return len(p.Branches) == 1 && p.Branches[0].Kind() == BranchMultiPart
}

// CheckProof folds SafeCheck over the branch sequence, starting from
// checkHash, and returns the final implied root. Any failing branch
// poisons the rest of the fold with the zero hash.
func (p *Proof) CheckProof(checkHash chainhash.Hash) chainhash.Hash {
	for _, branch := range p.Branches {
		checkHash = branch.SafeCheck(checkHash)
	}
	return checkHash
}

// Serialize writes the proof to w as a varint branch count followed by
// kind-tagged branch payloads.
func (p *Proof) Serialize(w io.Writer) error {
	if err := wire.WriteVarInt(w, uint64(len(p.Branches))); err != nil {
		return err
	}
	for _, branch := range p.Branches {
		if err := wire.PutUint8(w, uint8(branch.Kind())); err != nil {
			return err
		}
		if err := branch.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a proof from r. An unknown branch tag or any error
// mid-stream marks the whole sequence corrupt: every partially read
// branch is discarded and an error returned, never a partial proof.
func (p *Proof) Deserialize(r io.Reader) error {
	p.Branches = nil

	count, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxProofBranches {
		return errors.Errorf("proof sequence of %d branches is larger than the max allowed", count)
	}

	branches := make([]Branch, 0, count)
	for i := uint64(0); i < count; i++ {
		tag, err := wire.Uint8(r)
		if err != nil {
			return p.corrupt(err)
		}

		var branch Branch
		switch BranchKind(tag) {
		case BranchBTC:
			branch = &MerkleBranch{}
		case BranchMMRNode:
			branch = NewMMRBranch()
		case BranchMMRPowerNode:
			branch = NewMMRPowerBranch()
		case BranchETH:
			branch = &PatriciaBranch{}
		case BranchMultiPart:
			branch = &MultiPartBranch{}
		default:
			return p.corrupt(errors.Errorf("unknown branch type code %d", tag))
		}

		if err := branch.Deserialize(r); err != nil {
			return p.corrupt(err)
		}
		branches = append(branches, branch)
	}

	p.Branches = branches
	return nil
}

// corrupt drops everything read so far and surfaces the cause.
func (p *Proof) corrupt(cause error) error {
	p.Branches = nil
	err := errors.Wrap(cause, "proof sequence is likely corrupt")
	log.Error().Err(cause).Msg("discarding corrupt proof sequence")
	return err
}

// SerializeSize returns the length in bytes of the serialized proof.
func (p *Proof) SerializeSize() int {
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return 0
	}
	return buf.Len()
}

// BreakToChunks splits the serialized form of the proof into multipart
// chunks of at most maxSize bytes each, every chunk wrapped in its own
// proof for independent transport.
func (p *Proof) BreakToChunks(maxSize int) ([]*Proof, error) {
	if maxSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}

	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	chunks := make([]*Proof, 0, len(data)/maxSize+1)
	for offset := 0; offset == 0 || offset < len(data); offset += maxSize {
		end := offset + maxSize
		if end > len(data) {
			end = len(data)
		}
		part := &MultiPartBranch{Data: data[offset:end]}
		chunks = append(chunks, new(Proof).AddBranch(part))
	}
	return chunks, nil
}

// ReassembleProof concatenates the payloads of multipart chunks back
// into the original serialized proof and decodes it. Every chunk must
// be a multipart proof, in order.
func ReassembleProof(chunks []*Proof) (*Proof, error) {
	var data []byte
	for i, chunk := range chunks {
		if !chunk.IsMultiPart() {
			return nil, errors.Errorf("chunk %d is not a multipart proof", i)
		}
		data = append(data, chunk.Branches[0].(*MultiPartBranch).Data...)
	}

	proof := new(Proof)
	if err := proof.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return proof, nil
}
