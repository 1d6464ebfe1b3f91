// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// NewSymbol describes a symbol to be appended by ExtendSymbolTable. Bind
// and type are fixed by spec §4.6.3 (STB_LOCAL, STT_FUNC); only the name
// offset and value are caller-supplied.
type NewSymbol struct {
	NameOffset uint32
	Value      uint64
}

// ExtendSymbolTable inserts new symbols into the SymbolTable chunk at
// sectionIndex, immediately before the last entry currently bound
// STB_LOCAL, preserving the ELF convention that local symbols precede
// global ones (spec §4.6.3, P8). Each new symbol targets
// targetSectionIndex, has type STT_FUNC, binding STB_LOCAL, default
// visibility, and size zero.
func (f *ElfFile) ExtendSymbolTable(sectionIndex int, targetSectionIndex int, newSymbols []NewSymbol) error {
	const op = "extend symbol table"
	f.cleanupDummyChunks()

	chunkIdx := f.SectionChunkIndex(sectionIndex)
	if chunkIdx < 0 {
		return newErr(KindWrongChunkKind, op, "section %d has no chunk", sectionIndex)
	}
	symtab, ok := f.Chunks[chunkIdx].(*SymbolTableChunk)
	if !ok {
		return newErr(KindWrongChunkKind, op, "section %d is not a symbol table", sectionIndex)
	}

	needed := len(newSymbols) * symtab.EntrySize
	if chunkIdx+1 >= len(f.Chunks) {
		return newErr(KindInsufficientSlack, op, "symbol table is not followed by a dummy")
	}
	dummy, ok := f.Chunks[chunkIdx+1].(*DummyChunk)
	if !ok || len(dummy.Data) < needed {
		return newErr(KindInsufficientSlack, op, "insufficient slack after symbol table")
	}

	insertAt := symtab.LocalCount() - 1
	if insertAt < 0 {
		insertAt = 0
	}
	entries := make([]SymbolEntry, len(newSymbols))
	for i, ns := range newSymbols {
		entries[i] = SymbolEntry{
			NameOffset:   ns.NameOffset,
			Info:         MakeSymbolInfo(STB_LOCAL, STT_FUNC),
			Visibility:   uint8(STV_DEFAULT),
			SectionIndex: uint16(targetSectionIndex),
			Value:        ns.Value,
			Size:         0,
		}
	}

	merged := make([]SymbolEntry, 0, len(symtab.Entries)+len(entries))
	merged = append(merged, symtab.Entries[:insertAt]...)
	merged = append(merged, entries...)
	merged = append(merged, symtab.Entries[insertAt:]...)
	symtab.Entries = merged

	dummy.Data = dummy.Data[needed:]

	sht := f.SectionHeaderTable()
	sht.Entries[sectionIndex].Size += uint64(needed)
	sht.Entries[sectionIndex].Info += uint32(len(newSymbols))

	f.cleanupDummyChunks()
	return nil
}
