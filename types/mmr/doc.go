// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mmr implements a Merkle Mountain Range, an append-only accumulator
of content hashes.

The mountain range is kept as a stack of layers: layer 0 holds the leaves,
every layer above holds the parents of consecutive pairs below it. Appends
ripple up and touch at most one node per layer, truncation rewinds every
layer with a cascade of halved sizes, and no prior proof is invalidated by
a later append.

A MerkleMountainView freezes the range at a chosen historical size. The
view derives its peaks (one per set bit of the size), reduces them through
a small secondary merkle tree to a single root, and produces inclusion
proofs for any position below its size. Proofs are flat sibling-hash lists
that replay against a starting hash without access to the range itself.

Two node flavors are supported. Node carries a bare hash. PowerNode also
accumulates a packed 128-bit stake and 128-bit work pair, so a proof of a
leaf doubles as a proof of the cumulative chain power below the root.

Proof containers chain heterogeneous branches: a hash proven into a
mountain range whose root is itself a leaf of some outer structure
verifies with a single CheckProof call. Oversized proofs can be carried
across a size-limited transport by breaking them into multipart chunks.
*/
package mmr
