// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// StringTableChunk is a flat NUL-delimited byte blob (spec §3.1,
// "StringTable"). Lookups are by byte offset, reading until the next NUL.
type StringTableChunk struct {
	Data []byte
}

func (t *StringTableChunk) Kind() ChunkKind { return KindStringTable }
func (t *StringTableChunk) ByteLength() int  { return len(t.Data) }

func (t *StringTableChunk) WriteInto(buf []byte) int {
	return copy(buf, t.Data)
}

// String returns the NUL-terminated string starting at offset.
func (t *StringTableChunk) String(offset uint32) string {
	return readCString(t.Data, int(offset))
}

func parseStringTable(data []byte) *StringTableChunk {
	return &StringTableChunk{Data: append([]byte(nil), data...)}
}
