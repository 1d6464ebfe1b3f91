// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// DummyChunk holds uninitialized or gap bytes (spec §3.1, "Dummy"). The
// instrumentation engine treats these as allocation slack: every grow
// operation shrinks one, every allocate_file_memory call may grow, split,
// or insert one.
type DummyChunk struct {
	Data []byte
}

func newDummyChunk(size int) *DummyChunk {
	return &DummyChunk{Data: make([]byte, size)}
}

func (c *DummyChunk) Kind() ChunkKind { return KindDummy }
func (c *DummyChunk) ByteLength() int  { return len(c.Data) }

func (c *DummyChunk) WriteInto(buf []byte) int {
	return copy(buf, c.Data)
}
