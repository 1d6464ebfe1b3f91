// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtendSymbolTableInsertsBeforeLastLocal(t *testing.T) {
	f := newSyntheticFile()
	symtab := f.Chunks[7].(*SymbolTableChunk)
	assert.Equal(t, 2, len(symtab.Entries))

	err := f.ExtendSymbolTable(3, 2, []NewSymbol{{NameOffset: 1, Value: 0x400160}})
	assert.NoError(t, err)

	assert.Equal(t, 3, len(symtab.Entries))
	assert.Equal(t, uint32(1), symtab.Entries[1].NameOffset)
	assert.Equal(t, uint64(0x400160), symtab.Entries[1].Value)
	assert.Equal(t, STB_LOCAL, symtab.Entries[1].Binding())
	assert.Equal(t, STT_FUNC, symtab.Entries[1].SymType())
	assert.Equal(t, uint16(2), symtab.Entries[1].SectionIndex)

	// the originally-last entry is still last
	assert.Equal(t, uint16(2), symtab.Entries[2].SectionIndex)

	dummy := f.Chunks[8].(*DummyChunk)
	assert.Equal(t, 48-24, len(dummy.Data))

	sht := f.SectionHeaderTable()
	assert.Equal(t, uint64(48+24), sht.Entries[3].Size)
	assert.Equal(t, uint32(3), sht.Entries[3].Info)
}

func TestExtendSymbolTableInsufficientSlack(t *testing.T) {
	f := newSyntheticFile()
	symbols := make([]NewSymbol, 3)
	err := f.ExtendSymbolTable(3, 2, symbols)
	assert.ErrorIs(t, err, ErrInsufficientSlack)
}

func TestExtendSymbolTableWrongSection(t *testing.T) {
	f := newSyntheticFile()
	err := f.ExtendSymbolTable(1, 2, []NewSymbol{{}})
	assert.ErrorIs(t, err, ErrWrongChunkKind)
}
