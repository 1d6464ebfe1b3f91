// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// ExtendProgramHeaderTable inserts newEntry into the program header table,
// keeping entries of the same Type contiguous and, within a type group,
// ordered by ascending VirtualAddress (spec §4.6.6). The table must be
// chunk index 1, immediately followed by a Dummy with room for one more
// entry.
func (f *ElfFile) ExtendProgramHeaderTable(newEntry ProgramHeaderEntry) error {
	const op = "extend program header table"
	f.cleanupDummyChunks()

	if err := f.checkLayoutPrecondition(op); err != nil {
		return err
	}
	pht := f.ProgramHeaderTable()
	if pht == nil {
		return newErr(KindUnsupportedLayout, op, "file has no program header table")
	}
	if f.progHdrIndex+1 >= len(f.Chunks) {
		return newErr(KindInsufficientSlack, op, "program header table is not followed by a dummy")
	}
	dummy, ok := f.Chunks[f.progHdrIndex+1].(*DummyChunk)
	if !ok || len(dummy.Data) < pht.EntrySize {
		return newErr(KindInsufficientSlack, op, "insufficient slack after program header table")
	}

	insertAt := len(pht.Entries)
	groupStart, groupEnd := -1, -1
	for i, e := range pht.Entries {
		if e.Type == newEntry.Type {
			if groupStart < 0 {
				groupStart = i
			}
			groupEnd = i
		}
	}
	if groupStart >= 0 {
		insertAt = groupEnd + 1
		for i := groupStart; i <= groupEnd; i++ {
			if pht.Entries[i].VirtualAddress > newEntry.VirtualAddress {
				insertAt = i
				break
			}
		}
	}

	entries := make([]ProgramHeaderEntry, 0, len(pht.Entries)+1)
	entries = append(entries, pht.Entries[:insertAt]...)
	entries = append(entries, newEntry)
	entries = append(entries, pht.Entries[insertAt:]...)
	pht.Entries = entries

	f.Header().ProgramHeaderTableEntryCount++
	dummy.Data = dummy.Data[pht.EntrySize:]

	f.cleanupDummyChunks()
	return nil
}
