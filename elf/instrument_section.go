// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// CreateSection carves a new RawSection out of an existing Dummy chunk and
// registers it in the section header table (spec §4.6.5). newHeader's
// FileOffset must fall inside a Dummy chunk with enough trailing room for
// newHeader.Size, and the section header table itself must be followed by
// a Dummy with room for one more entry. Returns the new section's index.
func (f *ElfFile) CreateSection(newHeader SectionHeaderEntry) (int, error) {
	const op = "create section"
	f.cleanupDummyChunks()

	sht := f.SectionHeaderTable()
	if f.sectHdrIndex+1 >= len(f.Chunks) {
		return 0, newErr(KindInsufficientSlack, op, "section header table is not followed by a dummy")
	}
	shtDummy, ok := f.Chunks[f.sectHdrIndex+1].(*DummyChunk)
	if !ok || len(shtDummy.Data) < sht.EntrySize {
		return 0, newErr(KindInsufficientSlack, op, "insufficient slack after section header table")
	}

	targetIdx, base, ok := f.ChunkAtFileOffset(newHeader.FileOffset)
	if !ok {
		return 0, newErr(KindBadOffset, op, "file offset %d is out of range", newHeader.FileOffset)
	}
	target, ok := f.Chunks[targetIdx].(*DummyChunk)
	if !ok {
		return 0, newErr(KindBadOffset, op, "file offset %d is not inside a dummy", newHeader.FileOffset)
	}
	gap := newHeader.FileOffset - base
	if uint64(len(target.Data)) < gap+newHeader.Size {
		return 0, newErr(KindInsufficientSlack, op, "dummy at offset %d too small for new section", base)
	}
	// When the new section is carved from the section header table's own
	// trailing dummy, the part left in front of it must still hold the new
	// table entry.
	if targetIdx == f.sectHdrIndex+1 && gap < uint64(sht.EntrySize) {
		return 0, newErr(KindInsufficientSlack, op, "dummy after section header table cannot hold both a new entry and the new section")
	}

	prefix := append([]byte(nil), target.Data[:gap]...)
	suffix := append([]byte(nil), target.Data[gap+newHeader.Size:]...)
	raw := newRawBytesChunk(KindRawSection, make([]byte, newHeader.Size))

	var replacement []Chunk
	if len(prefix) > 0 {
		replacement = append(replacement, &DummyChunk{Data: prefix})
	}
	replacement = append(replacement, raw)
	if len(suffix) > 0 {
		replacement = append(replacement, &DummyChunk{Data: suffix})
	}
	f.Chunks = append(f.Chunks[:targetIdx], append(replacement, f.Chunks[targetIdx+1:]...)...)
	f.reindex()

	insertAt := len(sht.Entries)
	for i, s := range sht.Entries {
		if s.FileOffset > newHeader.FileOffset {
			insertAt = i
			break
		}
	}
	entries := make([]SectionHeaderEntry, 0, len(sht.Entries)+1)
	entries = append(entries, sht.Entries[:insertAt]...)
	entries = append(entries, newHeader)
	entries = append(entries, sht.Entries[insertAt:]...)
	sht.Entries = entries

	if insertAt <= int(f.Header().SectionHeaderStringTableIndex) {
		f.Header().SectionHeaderStringTableIndex++
	}
	f.Header().SectionHeaderTableEntryCount++

	if d, ok := f.Chunks[f.sectHdrIndex+1].(*DummyChunk); ok {
		d.Data = d.Data[sht.EntrySize:]
	}

	f.cleanupDummyChunks()
	return insertAt, nil
}
