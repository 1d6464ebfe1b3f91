// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// SymbolTableChunk is the ordered list of symbol entries making up
// .symtab/.dynsym (spec §3.1). All STB_LOCAL symbols must precede every
// STB_GLOBAL/STB_WEAK one (spec P8); ExtendSymbolTable maintains that.
type SymbolTableChunk struct {
	Entries   []SymbolEntry
	EntrySize int
	Trailing  int
}

func (t *SymbolTableChunk) Kind() ChunkKind { return KindSymbolTable }

func (t *SymbolTableChunk) ByteLength() int {
	return len(t.Entries)*t.EntrySize + t.Trailing
}

func (t *SymbolTableChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	for _, e := range t.Entries {
		start := w.pos
		w.u32(e.NameOffset)
		w.u8(e.Info)
		w.u8(e.Visibility)
		w.u16(e.SectionIndex)
		w.u64(e.Value)
		w.u64(e.Size)
		w.zero(t.EntrySize - (w.pos - start))
	}
	w.zero(t.Trailing)
	return w.pos
}

// LocalCount returns the number of leading STB_LOCAL entries, the value
// that belongs in the owning section header's Info field (spec P8).
func (t *SymbolTableChunk) LocalCount() int {
	n := 0
	for _, e := range t.Entries {
		if e.Binding() != STB_LOCAL {
			break
		}
		n++
	}
	return n
}

func parseSymbolTable(data []byte, entrySize int) (*SymbolTableChunk, error) {
	const op = "parse symbol table"
	if entrySize < symbolEntryCanonicalSize {
		return nil, newErr(KindCorrupted, op, "entry size %d below canonical %d", entrySize, symbolEntryCanonicalSize)
	}
	count := len(data) / entrySize
	t := &SymbolTableChunk{EntrySize: entrySize, Trailing: len(data) - count*entrySize}
	for i := 0; i < count; i++ {
		entryOffset := i * entrySize
		r := newReader(data[entryOffset : entryOffset+entrySize])
		var e SymbolEntry
		var err error
		if e.NameOffset, err = r.u32(op); err != nil {
			return nil, err
		}
		if e.Info, err = r.u8(op); err != nil {
			return nil, err
		}
		if e.Visibility, err = r.u8(op); err != nil {
			return nil, err
		}
		if e.SectionIndex, err = r.u16(op); err != nil {
			return nil, err
		}
		if e.Value, err = r.u64(op); err != nil {
			return nil, err
		}
		if e.Size, err = r.u64(op); err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}
