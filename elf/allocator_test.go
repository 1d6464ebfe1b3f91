// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateProgBitsSection(t *testing.T) {
	f := newSyntheticFile()
	contents := []byte{0x48, 0x31, 0xC0, 0xC3} // xor eax,eax; ret

	idx, err := f.AllocateProgBitsSection(".injected", 0x700000, 64, 16, true, true, contents)
	assert.NoError(t, err)

	sht := f.SectionHeaderTable()
	entry := sht.Entries[idx]
	assert.Equal(t, SHT_PROGBITS, entry.Type)
	assert.Equal(t, uint64(0x700000), entry.VirtualAddress)
	assert.Equal(t, uint64(64), entry.Size)
	assert.NotZero(t, entry.Flags&SHF_ALLOC)
	assert.NotZero(t, entry.Flags&SHF_WRITE)
	assert.NotZero(t, entry.Flags&SHF_EXECINSTR)
	assert.Equal(t, ".injected", f.SectionName(entry))

	chunkIdx := f.SectionChunkIndex(idx)
	raw := f.Chunks[chunkIdx].(*RawBytesChunk)
	assert.Equal(t, contents, raw.Data[:len(contents)])
	assert.Equal(t, 64, len(raw.Data))
	for _, b := range raw.Data[len(contents):] {
		assert.Equal(t, byte(0), b)
	}

	pht := f.ProgramHeaderTable()
	var seg *ProgramHeaderEntry
	for i := range pht.Entries {
		if pht.Entries[i].VirtualAddress == 0x700000 {
			seg = &pht.Entries[i]
		}
	}
	assert.NotNil(t, seg)
	assert.Equal(t, PT_LOAD, seg.Type)
	assert.Equal(t, entry.FileOffset, seg.FileOffset)
	assert.Equal(t, uint64(64), seg.FileSize)
	assert.NotZero(t, seg.Flags&PF_WRITE)
	assert.NotZero(t, seg.Flags&PF_EXEC)

	assertChunkListConsistent(t, f)
}

func TestAllocateProgBitsSectionContentsTooLarge(t *testing.T) {
	f := newSyntheticFile()
	_, err := f.AllocateProgBitsSection(".bad", 0x700000, 4, 1, false, false, make([]byte, 8))
	assert.ErrorIs(t, err, ErrBadOffset)
}
