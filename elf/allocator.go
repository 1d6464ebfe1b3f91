// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// AllocateProgBitsSection composes the primitives of §4.6 into the single
// operation most callers actually want: a new PROGBITS section backed by
// its own LOAD segment, with a name, flags and initial contents (spec
// §4.7). name is added to the section-header string table; contents is
// copied into the section, zero-padded to size if shorter. Returns the new
// section's index.
func (f *ElfFile) AllocateProgBitsSection(name string, address uint64, size uint64, alignment uint64, writable bool, executable bool, contents []byte) (int, error) {
	const op = "allocate prog bits section"
	f.cleanupDummyChunks()

	if err := f.checkLayoutPrecondition(op); err != nil {
		return 0, err
	}
	if uint64(len(contents)) > size {
		return 0, newErr(KindBadOffset, op, "contents longer than section size")
	}
	alignment = normalizeAlignment(alignment)

	pht := f.ProgramHeaderTable()
	if pht == nil {
		return 0, newErr(KindUnsupportedLayout, op, "file has no program header table")
	}
	shstrndx := int(f.Header().SectionHeaderStringTableIndex)
	strtabChunkIdx := f.SectionChunkIndex(shstrndx)
	if strtabChunkIdx < 0 {
		return 0, newErr(KindUnsupportedLayout, op, "file has no section-name string table")
	}

	// Step 1: grow the program header table, the section-name string
	// table, and the section header table by one slot each.
	phtEnd := f.Header().ProgramHeaderTableFileOffset + uint64(pht.ByteLength())
	if err := f.AllocateFileMemory(phtEnd, uint64(pht.EntrySize)); err != nil {
		return 0, err
	}

	strtab := f.Chunks[f.SectionChunkIndex(shstrndx)].(*StringTableChunk)
	strtabOffset := f.SectionHeaderTable().Entries[shstrndx].FileOffset
	strtabEnd := strtabOffset + uint64(strtab.ByteLength())
	if err := f.AllocateFileMemory(strtabEnd, uint64(len(name)+1)); err != nil {
		return 0, err
	}

	sht := f.SectionHeaderTable()
	shtEnd := f.Header().SectionHeaderTableFileOffset + uint64(sht.ByteLength())
	if err := f.AllocateFileMemory(shtEnd, uint64(sht.EntrySize)); err != nil {
		return 0, err
	}

	// Step 2: reserve the section's own content region at end of file,
	// aligned.
	currentTotal := uint64(f.ByteLength())
	newSectionOffset := alignUp(currentTotal, alignment)
	if err := f.AllocateFileMemory(currentTotal, (newSectionOffset-currentTotal)+size); err != nil {
		return 0, err
	}

	// Step 3: record the section's name.
	nameOffsets, err := f.ExtendStringTable(shstrndx, []string{name})
	if err != nil {
		return 0, err
	}
	nameOffset := nameOffsets[0]

	// Step 4: register the section header.
	flags := SHF_ALLOC
	if writable {
		flags |= SHF_WRITE
	}
	if executable {
		flags |= SHF_EXECINSTR
	}
	newHeader := SectionHeaderEntry{
		NameOffset:     nameOffset,
		Type:           SHT_PROGBITS,
		Flags:          flags,
		VirtualAddress: address,
		FileOffset:     newSectionOffset,
		Size:           size,
		Alignment:      alignment,
	}
	sectionIndex, err := f.CreateSection(newHeader)
	if err != nil {
		return 0, err
	}

	// Step 5: back it with a LOAD segment.
	segFlags := PF_READ
	if writable {
		segFlags |= PF_WRITE
	}
	if executable {
		segFlags |= PF_EXEC
	}
	newSegment := ProgramHeaderEntry{
		Type:            PT_LOAD,
		Flags:           segFlags,
		FileOffset:      newSectionOffset,
		VirtualAddress:  address,
		PhysicalAddress: address,
		FileSize:        size,
		MemSize:         size,
		Alignment:       alignment,
	}
	if err := f.ExtendProgramHeaderTable(newSegment); err != nil {
		return 0, err
	}

	// Step 6: copy the initial contents in, zero-padded.
	raw := f.Chunks[f.SectionChunkIndex(sectionIndex)].(*RawBytesChunk)
	copy(raw.Data, contents)

	return sectionIndex, nil
}

// alignUp rounds v up to the next multiple of align (align must be a
// positive power of two, per the alignment fields this library reads and
// writes).
func alignUp(v uint64, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
