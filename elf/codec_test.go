// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderPrimitives(t *testing.T) {
	data := []byte{0x11, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0xAA, 0xBB}
	r := newReader(data)

	b, err := r.u8("op")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x11), b)

	u16, err := r.u16("op")
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x4433), u16)

	u32, err := r.u32("op")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x88776655), u32)

	raw, err := r.bytes(2, "op")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, raw)

	assert.Equal(t, 0, r.remaining())
}

func TestReaderU64AndI64(t *testing.T) {
	data := []byte{0, 0, 0, 0, 0, 0, 0, 0x80}
	r := newReader(data)
	v, err := r.i64("op")
	assert.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), v)
}

func TestReaderTruncated(t *testing.T) {
	r := newReader([]byte{1, 2})
	_, err := r.u32("op")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderSkip(t *testing.T) {
	r := newReader([]byte{1, 2, 3, 4})
	err := r.skip(2, "op")
	assert.NoError(t, err)
	v, err := r.u16("op")
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0403), v)

	err = r.skip(1, "op")
	assert.Error(t, err)
}

func TestWriterPrimitivesRoundTrip(t *testing.T) {
	buf := make([]byte, 26)
	w := newWriter(buf)
	w.u8(0x11)
	w.u16(0x2222)
	w.u32(0x33333333)
	w.u64(0x4444444444444444)
	w.i64(-1)
	w.bytes([]byte{0xAA, 0xBB})
	w.zero(1)

	r := newReader(buf)
	b, _ := r.u8("op")
	assert.Equal(t, uint8(0x11), b)
	u16, _ := r.u16("op")
	assert.Equal(t, uint16(0x2222), u16)
	u32, _ := r.u32("op")
	assert.Equal(t, uint32(0x33333333), u32)
	u64, _ := r.u64("op")
	assert.Equal(t, uint64(0x4444444444444444), u64)
	i64, _ := r.i64("op")
	assert.Equal(t, int64(-1), i64)
	rawBytes, _ := r.bytes(2, "op")
	assert.Equal(t, []byte{0xAA, 0xBB}, rawBytes)
	zero, _ := r.u8("op")
	assert.Equal(t, uint8(0), zero)
}

func TestReadCString(t *testing.T) {
	data := []byte("\x00foo\x00bar\x00")
	assert.Equal(t, "foo", readCString(data, 1))
	assert.Equal(t, "bar", readCString(data, 5))
	assert.Equal(t, "", readCString(data, 0))
}

func TestReadCStringOutOfRange(t *testing.T) {
	data := []byte("abc")
	assert.Equal(t, "", readCString(data, -1))
	assert.Equal(t, "", readCString(data, 10))
}

func TestReadCStringUnterminated(t *testing.T) {
	data := []byte("abc")
	assert.Equal(t, "abc", readCString(data, 0))
}
