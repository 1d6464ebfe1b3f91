// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import "encoding/binary"

// reader is a little-endian cursor over an in-memory byte buffer. Every
// method advances pos by the width it reads and fails with KindTruncated
// instead of panicking.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) require(n int, op string) error {
	if r.remaining() < n {
		return newErr(KindTruncated, op, "need %d bytes at offset %d, have %d", n, r.pos, r.remaining())
	}
	return nil
}

func (r *reader) u8(op string) (uint8, error) {
	if err := r.require(1, op); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16(op string) (uint16, error) {
	if err := r.require(2, op); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32(op string) (uint32, error) {
	if err := r.require(4, op); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u64(op string) (uint64, error) {
	if err := r.require(8, op); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) i64(op string) (int64, error) {
	v, err := r.u64(op)
	return int64(v), err
}

func (r *reader) bytes(n int, op string) ([]byte, error) {
	if err := r.require(n, op); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) skip(n int, op string) error {
	if err := r.require(n, op); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// writer is the symmetric little-endian cursor used by every chunk's
// WriteInto: it writes into a slice the caller has already sized to
// ByteLength(), tracking how many bytes have been written so far.
type writer struct {
	buf []byte
	pos int
}

func newWriter(buf []byte) *writer {
	return &writer{buf: buf}
}

func (w *writer) u8(v uint8) {
	w.buf[w.pos] = v
	w.pos++
}

func (w *writer) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}

func (w *writer) i64(v int64) {
	w.u64(uint64(v))
}

func (w *writer) bytes(b []byte) {
	w.pos += copy(w.buf[w.pos:], b)
}

// zero advances the cursor by n bytes, relying on buf already being
// zero-initialized (as make([]byte, n) guarantees) to emit padding.
func (w *writer) zero(n int) {
	w.pos += n
}

// readCString reads a NUL-terminated string starting at offset within data,
// used for string-table lookups (spec 3.1, StringTable).
func readCString(data []byte, offset int) string {
	if offset < 0 || offset >= len(data) {
		return ""
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	return string(data[offset:end])
}
