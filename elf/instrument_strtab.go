// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// ExtendStringTable appends newStrings (each NUL-terminated) to the
// StringTable chunk at sectionIndex, shrinking the Dummy slack that must
// immediately follow it, and returns the offset at which each string was
// placed (spec §4.6.2).
//
// Per spec §9, this does not attempt to reuse the table's existing final
// NUL: every well-formed string table already ends in one terminating the
// last existing name, and stripping it would merge that name with the
// first appended string. New strings are simply appended after it.
func (f *ElfFile) ExtendStringTable(sectionIndex int, newStrings []string) ([]uint32, error) {
	const op = "extend string table"
	f.cleanupDummyChunks()

	chunkIdx := f.SectionChunkIndex(sectionIndex)
	if chunkIdx < 0 {
		return nil, newErr(KindWrongChunkKind, op, "section %d has no chunk", sectionIndex)
	}
	strtab, ok := f.Chunks[chunkIdx].(*StringTableChunk)
	if !ok {
		return nil, newErr(KindWrongChunkKind, op, "section %d is not a string table", sectionIndex)
	}

	total := 0
	for _, s := range newStrings {
		total += len(s) + 1
	}

	if chunkIdx+1 >= len(f.Chunks) {
		return nil, newErr(KindInsufficientSlack, op, "string table is not followed by a dummy")
	}
	dummy, ok := f.Chunks[chunkIdx+1].(*DummyChunk)
	if !ok || len(dummy.Data) < total {
		return nil, newErr(KindInsufficientSlack, op, "insufficient slack after string table")
	}

	base := strtab.Data
	offsets := make([]uint32, len(newStrings))
	for i, s := range newStrings {
		offsets[i] = uint32(len(base))
		base = append(base, s...)
		base = append(base, 0)
	}
	strtab.Data = base

	dummy.Data = dummy.Data[total:]

	sht := f.SectionHeaderTable()
	sht.Entries[sectionIndex].Size += uint64(total)

	f.cleanupDummyChunks()
	return offsets, nil
}
