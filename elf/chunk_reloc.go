// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// RelocationTableChunk is the ordered list of relocation entries for one
// target section, with or without an explicit addend (spec §3.1,
// "RelocationTable" / "RelocationAddendTable").
type RelocationTableChunk struct {
	HasAddend bool
	Entries   []RelocationEntry
	EntrySize int
	Trailing  int
}

func (t *RelocationTableChunk) Kind() ChunkKind {
	if t.HasAddend {
		return KindRelocationAddendTable
	}
	return KindRelocationTable
}

func (t *RelocationTableChunk) ByteLength() int {
	return len(t.Entries)*t.EntrySize + t.Trailing
}

func (t *RelocationTableChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	for _, e := range t.Entries {
		start := w.pos
		w.u64(e.Offset)
		w.u64(e.Info)
		if t.HasAddend {
			w.i64(e.Addend)
		}
		w.zero(t.EntrySize - (w.pos - start))
	}
	w.zero(t.Trailing)
	return w.pos
}

func parseRelocationTable(data []byte, hasAddend bool, entrySize int) (*RelocationTableChunk, error) {
	const op = "parse relocation table"
	canonical := relEntryCanonicalSize
	if hasAddend {
		canonical = relaEntryCanonicalSize
	}
	if entrySize < canonical {
		return nil, newErr(KindCorrupted, op, "entry size %d below canonical %d", entrySize, canonical)
	}
	count := len(data) / entrySize
	t := &RelocationTableChunk{HasAddend: hasAddend, EntrySize: entrySize, Trailing: len(data) - count*entrySize}
	for i := 0; i < count; i++ {
		entryOffset := i * entrySize
		r := newReader(data[entryOffset : entryOffset+entrySize])
		var e RelocationEntry
		var err error
		if e.Offset, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.Info, err = r.u64(op); err != nil {
			return nil, err
		}
		if hasAddend {
			if e.Addend, err = r.i64(op); err != nil {
				return nil, err
			}
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}
