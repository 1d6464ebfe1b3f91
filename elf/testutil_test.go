// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// newSyntheticFile builds a small, internally consistent ElfFile by hand
// (header, two PT_LOAD segments, a section-name string table, a .text,
// a .symtab/.strtab pair, and a section header table), each followed by
// Dummy slack sized for one grow operation, so instrumentation tests can
// exercise every operation without going through Parse first.
//
// Layout (chunk index: offset..end):
//
//	0: Header                  0..64
//	1: ProgramHeaderTable      64..176   (2 entries, stride 56)
//	2: Dummy (PHT slack)       176..232  (1 entry)
//	3: .shstrtab               232..265
//	4: Dummy (.shstrtab slack) 265..329
//	5: .text                   329..345
//	6: Dummy (.text slack)     345..377
//	7: .symtab                 377..425  (2 entries, stride 24)
//	8: Dummy (.symtab slack)   425..473  (2 entries)
//	9: .strtab                 473..478
//	10: Dummy (.strtab slack)  478..510
//	11: SectionHeaderTable     510..830  (5 entries, stride 64)
//	12: Dummy (SHT slack)      830..894  (1 entry)
func newSyntheticFile() *ElfFile {
	header := &HeaderChunk{
		Class:                         Class64,
		Encoding:                      LittleEndian,
		IdentVersion:                  1,
		TargetABI:                     ABISysV,
		ObjectFileType:                ET_EXEC,
		TargetArchitecture:            EM_X86_64,
		ObjectFileVersion:             1,
		EntryPoint:                    0x400000,
		ProgramHeaderTableFileOffset:  64,
		SectionHeaderTableFileOffset:  510,
		HeaderSize:                    HeaderSize,
		ProgramHeaderTableEntrySize:   56,
		ProgramHeaderTableEntryCount:  2,
		SectionHeaderTableEntrySize:   64,
		SectionHeaderTableEntryCount:  5,
		SectionHeaderStringTableIndex: 1,
	}

	pht := &ProgramHeaderTableChunk{
		EntrySize: 56,
		Entries: []ProgramHeaderEntry{
			{Type: PT_LOAD, Flags: PF_READ | PF_EXEC, FileOffset: 0, VirtualAddress: 0x400000, PhysicalAddress: 0x400000, FileSize: 345, MemSize: 345, Alignment: 0x1000},
			{Type: PT_LOAD, Flags: PF_READ | PF_WRITE, FileOffset: 377, VirtualAddress: 0x600000, PhysicalAddress: 0x600000, FileSize: 133, MemSize: 133, Alignment: 0x1000},
		},
	}

	shstrtab := &StringTableChunk{Data: []byte("\x00.shstrtab\x00.text\x00.symtab\x00.strtab\x00")}
	text := newRawBytesChunk(KindRawSection, make([]byte, 16))
	symtab := &SymbolTableChunk{
		EntrySize: 24,
		Entries: []SymbolEntry{
			{Info: MakeSymbolInfo(STB_LOCAL, STT_NOTYPE)},
			{Info: MakeSymbolInfo(STB_LOCAL, STT_FUNC), SectionIndex: 2, Value: 329},
		},
	}
	strtab := &StringTableChunk{Data: []byte("\x00foo\x00")}

	sht := &SectionHeaderTableChunk{
		EntrySize: 64,
		Entries: []SectionHeaderEntry{
			{},
			{NameOffset: 1, Type: SHT_STRTAB, FileOffset: 232, Size: 33, Alignment: 1},
			{NameOffset: 11, Type: SHT_PROGBITS, Flags: SHF_ALLOC | SHF_EXECINSTR, VirtualAddress: 0x400149, FileOffset: 329, Size: 16, Alignment: 4},
			{NameOffset: 17, Type: SHT_SYMTAB, FileOffset: 377, Size: 48, Link: 4, Info: 2, Alignment: 8, EntrySize: 24},
			{NameOffset: 25, Type: SHT_STRTAB, FileOffset: 473, Size: 5, Alignment: 1},
		},
	}

	f := &ElfFile{
		Chunks: []Chunk{
			header,
			pht,
			newDummyChunk(56),
			shstrtab,
			newDummyChunk(64),
			text,
			newDummyChunk(32),
			symtab,
			newDummyChunk(48),
			strtab,
			newDummyChunk(32),
			sht,
			newDummyChunk(64),
		},
	}
	f.reindex()
	return f
}
