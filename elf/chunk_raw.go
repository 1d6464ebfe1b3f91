// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// RawBytesChunk is an opaque byte blob tagged with its semantic type (spec
// §3.1: "Notes, Verdef, Verneed, RawSection"). This library does not parse
// the contents of any of these beyond what's structurally required for
// instrumentation (spec Non-goals), so they all share one representation.
type RawBytesChunk struct {
	kind ChunkKind
	Data []byte
}

func newRawBytesChunk(kind ChunkKind, data []byte) *RawBytesChunk {
	return &RawBytesChunk{kind: kind, Data: data}
}

func (c *RawBytesChunk) Kind() ChunkKind { return c.kind }
func (c *RawBytesChunk) ByteLength() int  { return len(c.Data) }

func (c *RawBytesChunk) WriteInto(buf []byte) int {
	return copy(buf, c.Data)
}
