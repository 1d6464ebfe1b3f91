// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import "sort"

// taggedChunk is a chunk together with the file offset it was parsed at and
// (if any) the section-header-table index it corresponds to. It only
// exists during Parse, to let step 7 sort everything into final file order
// before committing to an ElfFile.
type taggedChunk struct {
	offset       uint64
	chunk        Chunk
	sectionIndex int // -1 if this chunk doesn't correspond to a section
}

// Parse decodes a complete ELF64 little-endian byte buffer into an ElfFile,
// following the seven-step procedure of spec §4.3. The returned notes are
// non-fatal diagnostics (e.g. a DT_JMPREL without a DT_PLTREL, which is
// left unparsed as a relocation table per spec step 5) — not an error.
func Parse(data []byte) (*ElfFile, []string, error) {
	const op = "parse"
	var notes []string

	r := newReader(data)
	header, err := parseHeader(r)
	if err != nil {
		return nil, nil, err
	}

	var tagged []taggedChunk
	tagged = append(tagged, taggedChunk{offset: 0, chunk: header, sectionIndex: -1})

	if header.ProgramHeaderTableFileOffset != 0 {
		pht, err := parseProgramHeaderTable(data, int(header.ProgramHeaderTableFileOffset),
			int(header.ProgramHeaderTableEntryCount), int(header.ProgramHeaderTableEntrySize))
		if err != nil {
			return nil, nil, err
		}
		tagged = append(tagged, taggedChunk{offset: header.ProgramHeaderTableFileOffset, chunk: pht, sectionIndex: -1})
	}

	sht, err := parseSectionHeaderTable(data, int(header.SectionHeaderTableFileOffset),
		int(header.SectionHeaderTableEntryCount), int(header.SectionHeaderTableEntrySize))
	if err != nil {
		return nil, nil, err
	}
	tagged = append(tagged, taggedChunk{offset: header.SectionHeaderTableFileOffset, chunk: sht, sectionIndex: -1})

	parsed := make([]bool, len(sht.Entries))

	// Step 4: locate the first SHT_DYNAMIC section and build the
	// tag -> value multi-map (DynamicTableChunk.Lookup serves as that map).
	var dyn *DynamicTableChunk
	dynSectionIndex := -1
	for i, s := range sht.Entries {
		if s.Type == SHT_DYNAMIC {
			entrySize := int(s.EntrySize)
			if entrySize == 0 {
				entrySize = dynamicEntryCanonicalSize
			}
			dataEnd := s.FileOffset + s.Size
			if dataEnd > uint64(len(data)) {
				return nil, nil, newErr(KindCorrupted, op, "dynamic section exceeds file bounds")
			}
			dyn, err = parseDynamicTable(data[s.FileOffset:dataEnd], entrySize)
			if err != nil {
				return nil, nil, err
			}
			tagged = append(tagged, taggedChunk{offset: s.FileOffset, chunk: dyn, sectionIndex: i})
			parsed[i] = true
			dynSectionIndex = i
			break
		}
	}
	_ = dynSectionIndex

	// Step 5: DT_RELA / DT_REL / DT_JMPREL, resolved by matching virtual
	// address against a section header.
	if dyn != nil {
		type relSpec struct {
			tag         DynamicTag
			entTag      DynamicTag
			szTag       DynamicTag
			defaultHasA bool
		}
		specs := []relSpec{
			{DT_RELA, DT_RELAENT, DT_RELASZ, true},
			{DT_REL, DT_RELENT, DT_RELSZ, false},
		}
		for _, s := range specs {
			addr, ok := dyn.LookupFirst(s.tag)
			if !ok {
				continue
			}
			idx := findSectionByVirtualAddress(sht, addr, parsed)
			if idx < 0 {
				continue
			}
			entrySize := effectiveEntrySize(dyn, s.entTag, int(sht.Entries[idx].EntrySize), s.defaultHasA)
			size := effectiveTableSize(dyn, s.szTag, sht.Entries[idx].Size)
			table, err := decodeRelocationSection(data, sht.Entries[idx], size, entrySize, s.defaultHasA)
			if err != nil {
				return nil, nil, err
			}
			tagged = append(tagged, taggedChunk{offset: sht.Entries[idx].FileOffset, chunk: table, sectionIndex: idx})
			parsed[idx] = true
		}

		if addr, ok := dyn.LookupFirst(DT_JMPREL); ok {
			idx := findSectionByVirtualAddress(sht, addr, parsed)
			if idx < 0 {
				notes = append(notes, "DT_JMPREL present but no matching section header found")
			} else if pltRel, ok := dyn.LookupFirst(DT_PLTREL); ok {
				hasAddend := DynamicTag(pltRel) == DT_RELA
				entEnum := DT_RELAENT
				if !hasAddend {
					entEnum = DT_RELENT
				}
				entrySize := effectiveEntrySize(dyn, entEnum, int(sht.Entries[idx].EntrySize), hasAddend)
				size := effectiveTableSize(dyn, DT_PLTRELSZ, sht.Entries[idx].Size)
				table, err := decodeRelocationSection(data, sht.Entries[idx], size, entrySize, hasAddend)
				if err != nil {
					return nil, nil, err
				}
				tagged = append(tagged, taggedChunk{offset: sht.Entries[idx].FileOffset, chunk: table, sectionIndex: idx})
				parsed[idx] = true
			} else {
				notes = append(notes, "DT_JMPREL present without DT_PLTREL; leaving its section for generic decoding")
			}
		}
	}

	// Step 6: decode every remaining section by its own sh_type.
	for i, s := range sht.Entries {
		if parsed[i] || s.Type == SHT_NULL || !s.Type.HasDataInFile() {
			continue
		}
		dataEnd := s.FileOffset + s.Size
		if dataEnd > uint64(len(data)) {
			return nil, nil, newErr(KindCorrupted, op, "section %d exceeds file bounds", i)
		}
		body := data[s.FileOffset:dataEnd]

		var chunk Chunk
		switch s.Type {
		case SHT_STRTAB:
			chunk = parseStringTable(body)
		case SHT_SYMTAB, SHT_DYNSYM:
			entrySize := int(s.EntrySize)
			if entrySize == 0 {
				entrySize = symbolEntryCanonicalSize
			}
			chunk, err = parseSymbolTable(body, entrySize)
			if err != nil {
				return nil, nil, err
			}
		case SHT_NOTE:
			chunk = newRawBytesChunk(KindNotes, append([]byte(nil), body...))
		case SHT_GNU_VERDEF:
			chunk = newRawBytesChunk(KindVerdef, append([]byte(nil), body...))
		case SHT_GNU_VERNEED:
			chunk = newRawBytesChunk(KindVerneed, append([]byte(nil), body...))
		case SHT_REL:
			entrySize := int(s.EntrySize)
			if entrySize == 0 {
				entrySize = relEntryCanonicalSize
			}
			chunk, err = parseRelocationTable(body, false, entrySize)
			if err != nil {
				return nil, nil, err
			}
		case SHT_RELA:
			entrySize := int(s.EntrySize)
			if entrySize == 0 {
				entrySize = relaEntryCanonicalSize
			}
			chunk, err = parseRelocationTable(body, true, entrySize)
			if err != nil {
				return nil, nil, err
			}
		default:
			chunk = newRawBytesChunk(KindRawSection, append([]byte(nil), body...))
		}

		tagged = append(tagged, taggedChunk{offset: s.FileOffset, chunk: chunk, sectionIndex: i})
		parsed[i] = true
	}

	file, _, err := assemble(data, header, tagged, len(sht.Entries))
	if err != nil {
		return nil, nil, err
	}
	return file, notes, nil
}

func findSectionByVirtualAddress(sht *SectionHeaderTableChunk, addr uint64, parsed []bool) int {
	for i, s := range sht.Entries {
		if !parsed[i] && s.VirtualAddress == addr && s.Type.HasDataInFile() {
			return i
		}
	}
	return -1
}

func effectiveEntrySize(dyn *DynamicTableChunk, entTag DynamicTag, sectionStride int, hasAddend bool) int {
	if v, ok := dyn.LookupFirst(entTag); ok && v > 0 {
		return int(v)
	}
	if sectionStride > 0 {
		return sectionStride
	}
	if hasAddend {
		return relaEntryCanonicalSize
	}
	return relEntryCanonicalSize
}

func effectiveTableSize(dyn *DynamicTableChunk, szTag DynamicTag, sectionSize uint64) uint64 {
	if v, ok := dyn.LookupFirst(szTag); ok && v > 0 {
		return v
	}
	return sectionSize
}

func decodeRelocationSection(data []byte, s SectionHeaderEntry, size uint64, entrySize int, hasAddend bool) (*RelocationTableChunk, error) {
	const op = "parse relocation table"
	end := s.FileOffset + size
	if end > uint64(len(data)) {
		return nil, newErr(KindCorrupted, op, "relocation table exceeds file bounds")
	}
	return parseRelocationTable(data[s.FileOffset:end], hasAddend, entrySize)
}

// assemble performs spec §4.3 step 7 (sort by offset, fill gaps with Dummy
// chunks) and step 8 (reject overlaps), then builds the ElfFile including
// its direct handles and section->chunk index.
func assemble(data []byte, header *HeaderChunk, tagged []taggedChunk, sectionCount int) (*ElfFile, []string, error) {
	const op = "parse"

	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].offset < tagged[j].offset })

	f := &ElfFile{
		progHdrIndex: -1,
		dynamicIndex: -1,
		sectionChunk: make([]int, sectionCount),
	}
	for i := range f.sectionChunk {
		f.sectionChunk[i] = -1
	}

	running := uint64(0)
	for _, tc := range tagged {
		if tc.offset < running {
			return nil, nil, newErr(KindCorrupted, op, "chunks overlap at offset %d", tc.offset)
		}
		if tc.offset > running {
			f.Chunks = append(f.Chunks, &DummyChunk{Data: append([]byte(nil), data[running:tc.offset]...)})
			running = tc.offset
		}

		index := len(f.Chunks)
		f.Chunks = append(f.Chunks, tc.chunk)
		running += uint64(tc.chunk.ByteLength())

		switch tc.chunk.Kind() {
		case KindHeader:
			f.headerIndex = index
		case KindProgramHeaderTable:
			f.progHdrIndex = index
		case KindSectionHeaderTable:
			f.sectHdrIndex = index
		case KindDynamicTable:
			f.dynamicIndex = index
		}
		if tc.sectionIndex >= 0 {
			f.sectionChunk[tc.sectionIndex] = index
		}
	}

	if running < uint64(len(data)) {
		f.Chunks = append(f.Chunks, &DummyChunk{Data: append([]byte(nil), data[running:]...)})
	}

	return f, nil, nil
}
