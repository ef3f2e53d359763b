// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSetBytes(t *testing.T) {
	buf := bytes.Repeat([]byte{0xab}, HashSize)

	hash, err := NewHash(buf)
	require.NoError(t, err)
	assert.Equal(t, buf, hash.CloneBytes())
	assert.False(t, hash.IsZero())
	assert.True(t, ZeroHash.IsZero())

	_, err = NewHash(buf[:HashSize-1])
	assert.Error(t, err)

	other := &Hash{}
	require.NoError(t, other.SetBytes(buf))
	assert.True(t, hash.IsEqual(other))

	var nilHash *Hash
	assert.True(t, nilHash.IsEqual(nil))
	assert.False(t, nilHash.IsEqual(hash))
	assert.False(t, hash.IsEqual(nil))
}

func TestHashString(t *testing.T) {
	// The genesis block hash of bitcoin mainnet, displayed byte reversed.
	const genesis = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

	hash, err := NewHashFromStr(genesis)
	require.NoError(t, err)
	assert.Equal(t, genesis, hash.String())

	// The trailing display zeroes encode high hash bytes.
	assert.Equal(t, byte(0x6f), hash[0])
	assert.Equal(t, byte(0x00), hash[HashSize-1])
}

func TestNewHashFromStr(t *testing.T) {
	// Short strings zero-pad at the end of the hash.
	hash, err := NewHashFromStr("1")
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), hash[0])
	assert.Equal(t, ZeroHash[1:], hash[1:])

	_, err = NewHashFromStr(strings.Repeat("0", MaxHashStringSize+1))
	assert.Equal(t, ErrHashStrSize, err)

	_, err = NewHashFromStr("banana")
	assert.Error(t, err)
}
