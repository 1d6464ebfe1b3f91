// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// cleanupDummyChunks coalesces consecutive Dummy chunks into one and drops
// zero-length dummies (spec §4.6.8). Every public instrumentation operation
// that changes the chunk list calls this on entry and again before
// returning. The byte-patching operations in instrument_patch.go do not
// call it.
func (f *ElfFile) cleanupDummyChunks() {
	out := make([]Chunk, 0, len(f.Chunks))
	for _, c := range f.Chunks {
		if d, ok := c.(*DummyChunk); ok {
			if len(d.Data) == 0 {
				continue
			}
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(*DummyChunk); ok {
					prev.Data = append(prev.Data, d.Data...)
					continue
				}
			}
		}
		out = append(out, c)
	}
	f.Chunks = out
	f.reindex()
}

// reindex recomputes the direct chunk handles and the section->chunk map
// from scratch by walking the current chunk list. Called after any
// structural mutation (insertion, split, removal, merge) of f.Chunks.
func (f *ElfFile) reindex() {
	f.headerIndex = 0
	f.progHdrIndex = -1
	f.sectHdrIndex = 0
	f.dynamicIndex = -1

	offsets := make([]uint64, len(f.Chunks))
	running := uint64(0)
	for i, c := range f.Chunks {
		offsets[i] = running
		running += uint64(c.ByteLength())

		switch c.Kind() {
		case KindHeader:
			f.headerIndex = i
		case KindProgramHeaderTable:
			f.progHdrIndex = i
		case KindSectionHeaderTable:
			f.sectHdrIndex = i
		case KindDynamicTable:
			f.dynamicIndex = i
		}
	}

	sht := f.SectionHeaderTable()
	f.sectionChunk = make([]int, len(sht.Entries))
	for i := range f.sectionChunk {
		f.sectionChunk[i] = -1
	}
	for i, s := range sht.Entries {
		if s.Type == SHT_NULL || !s.Type.HasDataInFile() {
			continue
		}
		for ci, co := range offsets {
			if co == s.FileOffset {
				f.sectionChunk[i] = ci
				break
			}
		}
	}
}

// offsetOf returns the file offset of the chunk at the given index.
func (f *ElfFile) offsetOf(index int) uint64 {
	running := uint64(0)
	for i := 0; i < index; i++ {
		running += uint64(f.Chunks[i].ByteLength())
	}
	return running
}

// checkLayoutPrecondition enforces the instrumentation engine's shared
// precondition (spec §4.6): when a program header table is present, it must
// immediately follow the header, at chunk index 1.
func (f *ElfFile) checkLayoutPrecondition(op string) error {
	header := f.Header()
	pht := f.ProgramHeaderTable()
	if pht == nil {
		return nil
	}
	if header.ProgramHeaderTableFileOffset != uint64(header.HeaderSize) {
		return newErr(KindUnsupportedLayout, op, "program header table is not immediately after the header")
	}
	if f.progHdrIndex != 1 {
		return newErr(KindUnsupportedLayout, op, "program header table is not chunk index 1")
	}
	return nil
}

// normalizeAlignment treats 0 and 1 as "no constraint" (spec I5).
func normalizeAlignment(a uint64) uint64 {
	if a == 0 {
		return 1
	}
	return a
}
