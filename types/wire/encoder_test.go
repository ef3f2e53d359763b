// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntWireRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  uint64
		buf  []byte
	}{
		{"single byte", 0, []byte{0x00}},
		{"max single byte", 0xfc, []byte{0xfc}},
		{"min 3 byte", 0xfd, []byte{0xfd, 0xfd, 0x00}},
		{"max 3 byte", 0xffff, []byte{0xfd, 0xff, 0xff}},
		{"min 5 byte", 0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{"max 5 byte", 0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{"min 9 byte", 0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"max 9 byte", 0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteVarInt(&buf, test.val))
			assert.Equal(t, test.buf, buf.Bytes())
			assert.Equal(t, len(test.buf), VarIntSerializeSize(test.val))

			val, err := ReadVarInt(bytes.NewReader(test.buf))
			require.NoError(t, err)
			assert.Equal(t, test.val, val)
		})
	}
}

func TestVarIntNonCanonical(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"0 encoded with 3 bytes", []byte{0xfd, 0x00, 0x00}},
		{"max single byte encoded with 3 bytes", []byte{0xfd, 0xfc, 0x00}},
		{"max 3 byte encoded with 5 bytes", []byte{0xfe, 0xff, 0xff, 0x00, 0x00}},
		{"max 5 byte encoded with 9 bytes", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadVarInt(bytes.NewReader(test.buf))
			require.Error(t, err)

			var msgErr *MessageError
			assert.ErrorAs(t, err, &msgErr)
		})
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	payload := []byte("some opaque payload")

	var buf bytes.Buffer
	require.NoError(t, WriteVarBytes(&buf, payload))

	got, err := ReadVarBytes(bytes.NewReader(buf.Bytes()), MaxProofPayload, "test payload")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// A declared length above the cap is rejected before any allocation.
	var oversized bytes.Buffer
	require.NoError(t, WriteVarInt(&oversized, uint64(MaxProofPayload)+1))
	_, err = ReadVarBytes(bytes.NewReader(oversized.Bytes()), MaxProofPayload, "test payload")
	assert.Error(t, err)
}

func TestFixedWidthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PutUint8(&buf, 0xe7))
	require.NoError(t, PutUint32(&buf, 0xdeadbeef))
	require.NoError(t, PutUint64(&buf, 0x0102030405060708))

	r := bytes.NewReader(buf.Bytes())

	v8, err := Uint8(r)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xe7), v8)

	v32, err := Uint32(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	v64, err := Uint64(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v64)
}
