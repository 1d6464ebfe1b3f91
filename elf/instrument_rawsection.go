// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// ExtendRawSection appends bytes to the RawSection chunk at sectionIndex,
// shrinking the Dummy slack that must immediately follow it, and adds
// len(bytes) to the section header's size (spec §4.6.4).
func (f *ElfFile) ExtendRawSection(sectionIndex int, bytes []byte) error {
	const op = "extend raw section"
	f.cleanupDummyChunks()

	chunkIdx := f.SectionChunkIndex(sectionIndex)
	if chunkIdx < 0 {
		return newErr(KindWrongChunkKind, op, "section %d has no chunk", sectionIndex)
	}
	raw, ok := f.Chunks[chunkIdx].(*RawBytesChunk)
	if !ok {
		return newErr(KindWrongChunkKind, op, "section %d is not a raw section", sectionIndex)
	}

	if chunkIdx+1 >= len(f.Chunks) {
		return newErr(KindInsufficientSlack, op, "raw section is not followed by a dummy")
	}
	dummy, ok := f.Chunks[chunkIdx+1].(*DummyChunk)
	if !ok || len(dummy.Data) < len(bytes) {
		return newErr(KindInsufficientSlack, op, "insufficient slack after raw section")
	}

	raw.Data = append(raw.Data, bytes...)
	dummy.Data = dummy.Data[len(bytes):]

	sht := f.SectionHeaderTable()
	sht.Entries[sectionIndex].Size += uint64(len(bytes))

	f.cleanupDummyChunks()
	return nil
}
