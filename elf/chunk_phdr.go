// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// ProgramHeaderTableChunk is the ordered list of segment descriptors (spec
// §3.1). EntrySize is the on-disk stride; it may exceed
// programHeaderEntryCanonicalSize, in which case the excess is zero padding
// (spec I8).
type ProgramHeaderTableChunk struct {
	Entries   []ProgramHeaderEntry
	EntrySize int
}

func (t *ProgramHeaderTableChunk) Kind() ChunkKind { return KindProgramHeaderTable }

func (t *ProgramHeaderTableChunk) ByteLength() int {
	return len(t.Entries) * t.EntrySize
}

func (t *ProgramHeaderTableChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	for _, e := range t.Entries {
		start := w.pos
		w.u32(uint32(e.Type))
		w.u32(uint32(e.Flags))
		w.u64(e.FileOffset)
		w.u64(e.VirtualAddress)
		w.u64(e.PhysicalAddress)
		w.u64(e.FileSize)
		w.u64(e.MemSize)
		w.u64(e.Alignment)
		w.zero(t.EntrySize - (w.pos - start))
	}
	return w.pos
}

func parseProgramHeaderTable(data []byte, offset int, count int, entrySize int) (*ProgramHeaderTableChunk, error) {
	const op = "parse program header table"
	if entrySize < programHeaderEntryCanonicalSize {
		return nil, newErr(KindCorrupted, op, "entry size %d below canonical %d", entrySize, programHeaderEntryCanonicalSize)
	}
	t := &ProgramHeaderTableChunk{EntrySize: entrySize}
	for i := 0; i < count; i++ {
		entryOffset := offset + i*entrySize
		if entryOffset+entrySize > len(data) {
			return nil, newErr(KindTruncated, op, "entry %d out of bounds", i)
		}
		r := newReader(data[entryOffset : entryOffset+entrySize])
		var e ProgramHeaderEntry
		typ, err := r.u32(op)
		if err != nil {
			return nil, err
		}
		flags, err := r.u32(op)
		if err != nil {
			return nil, err
		}
		e.Type = ProgramHeaderType(typ)
		e.Flags = ProgramHeaderFlag(flags)
		if e.FileOffset, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.VirtualAddress, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.PhysicalAddress, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.FileSize, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.MemSize, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.Alignment, err = r.u64(op); err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}
