// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// SectionHeaderTableAlignment is the alignment the instrumentation engine
// enforces on the section header table chunk itself (spec §4.6.1, phase 3).
// The ELF specification does not mandate a value for this; 8 is the more
// common in-practice choice (e.g. what readelf and most linkers emit), so
// that is what this library uses. See DESIGN.md, Open Questions.
const SectionHeaderTableAlignment = 8

// SectionHeaderTableChunk is the ordered list of section descriptors (spec
// §3.1). EntrySize is the on-disk stride; excess over
// sectionHeaderEntryCanonicalSize is zero padding (spec I8).
type SectionHeaderTableChunk struct {
	Entries   []SectionHeaderEntry
	EntrySize int
}

func (t *SectionHeaderTableChunk) Kind() ChunkKind { return KindSectionHeaderTable }

func (t *SectionHeaderTableChunk) ByteLength() int {
	return len(t.Entries) * t.EntrySize
}

func (t *SectionHeaderTableChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	for _, e := range t.Entries {
		start := w.pos
		w.u32(e.NameOffset)
		w.u32(uint32(e.Type))
		w.u64(uint64(e.Flags))
		w.u64(e.VirtualAddress)
		w.u64(e.FileOffset)
		w.u64(e.Size)
		w.u32(e.Link)
		w.u32(e.Info)
		w.u64(e.Alignment)
		w.u64(e.EntrySize)
		w.zero(t.EntrySize - (w.pos - start))
	}
	return w.pos
}

func parseSectionHeaderTable(data []byte, offset int, count int, entrySize int) (*SectionHeaderTableChunk, error) {
	const op = "parse section header table"
	if count > 0 && entrySize < sectionHeaderEntryCanonicalSize {
		return nil, newErr(KindCorrupted, op, "entry size %d below canonical %d", entrySize, sectionHeaderEntryCanonicalSize)
	}
	t := &SectionHeaderTableChunk{EntrySize: entrySize}
	for i := 0; i < count; i++ {
		entryOffset := offset + i*entrySize
		if entryOffset+entrySize > len(data) {
			return nil, newErr(KindTruncated, op, "entry %d out of bounds", i)
		}
		r := newReader(data[entryOffset : entryOffset+entrySize])
		var e SectionHeaderEntry
		var err error
		if e.NameOffset, err = r.u32(op); err != nil {
			return nil, err
		}
		typ, err := r.u32(op)
		if err != nil {
			return nil, err
		}
		e.Type = SectionType(typ)
		flags, err := r.u64(op)
		if err != nil {
			return nil, err
		}
		e.Flags = SectionFlag(flags)
		if e.VirtualAddress, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.FileOffset, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.Size, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.Link, err = r.u32(op); err != nil {
			return nil, err
		}
		if e.Info, err = r.u32(op); err != nil {
			return nil, err
		}
		if e.Alignment, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.EntrySize, err = r.u64(op); err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}
