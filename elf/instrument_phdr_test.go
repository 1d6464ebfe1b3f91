// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtendProgramHeaderTableNewGroup(t *testing.T) {
	f := newSyntheticFile()
	newEntry := ProgramHeaderEntry{Type: PT_GNU_STACK, Flags: PF_READ | PF_WRITE}

	err := f.ExtendProgramHeaderTable(newEntry)
	assert.NoError(t, err)

	pht := f.ProgramHeaderTable()
	assert.Equal(t, 3, len(pht.Entries))
	assert.Equal(t, PT_GNU_STACK, pht.Entries[2].Type)
	assert.Equal(t, uint16(3), f.Header().ProgramHeaderTableEntryCount)

	// the slack dummy was used up and dropped, so .shstrtab now follows
	// the table directly
	assert.Equal(t, KindStringTable, f.Chunks[2].Kind())
}

func TestExtendProgramHeaderTableSameGroupOrdering(t *testing.T) {
	f := newSyntheticFile()
	// a third PT_LOAD with a virtual address between the existing two
	newEntry := ProgramHeaderEntry{Type: PT_LOAD, VirtualAddress: 0x500000, FileOffset: 0x500000, FileSize: 1, MemSize: 1}

	err := f.ExtendProgramHeaderTable(newEntry)
	assert.NoError(t, err)

	pht := f.ProgramHeaderTable()
	assert.Equal(t, 3, len(pht.Entries))
	assert.Equal(t, uint64(0x400000), pht.Entries[0].VirtualAddress)
	assert.Equal(t, uint64(0x500000), pht.Entries[1].VirtualAddress)
	assert.Equal(t, uint64(0x600000), pht.Entries[2].VirtualAddress)
}

func TestExtendProgramHeaderTableInsufficientSlack(t *testing.T) {
	f := newSyntheticFile()
	dummy := f.Chunks[2].(*DummyChunk)
	dummy.Data = dummy.Data[:10]

	err := f.ExtendProgramHeaderTable(ProgramHeaderEntry{Type: PT_NOTE})
	assert.ErrorIs(t, err, ErrInsufficientSlack)
}
