// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertChunkListConsistent re-derives every section's and the section
// header table's offset by walking f.Chunks directly, and checks it
// matches what the section header table / file header record — the
// invariant every allocate_file_memory call must preserve (spec I1, I2).
func assertChunkListConsistent(t *testing.T, f *ElfFile) {
	t.Helper()
	sht := f.SectionHeaderTable()
	for i, s := range sht.Entries {
		if !s.Type.HasDataInFile() {
			continue
		}
		chunkIdx := f.SectionChunkIndex(i)
		if chunkIdx < 0 {
			continue
		}
		assert.Equal(t, s.FileOffset, f.offsetOf(chunkIdx), "section %d offset drifted from its chunk", i)
	}
	shtIdx, _, ok := f.ChunkAtFileOffset(f.Header().SectionHeaderTableFileOffset)
	assert.True(t, ok)
	assert.Equal(t, KindSectionHeaderTable, f.Chunks[shtIdx].Kind())
}

func TestAllocateFileMemoryAtEndOfFile(t *testing.T) {
	f := newSyntheticFile()
	before := f.ByteLength()

	err := f.AllocateFileMemory(uint64(before), 128)
	assert.NoError(t, err)
	assert.Equal(t, before+128, f.ByteLength())
	assertChunkListConsistent(t, f)
}

func TestAllocateFileMemoryAbsorbedByUnalignedSlack(t *testing.T) {
	f := newSyntheticFile()

	// .shstrtab (alignment 1) is the next section after the inserted gap,
	// so the unaligned PHT-table slack it displaces can absorb the whole
	// insertion without shifting anything downstream.
	err := f.AllocateFileMemory(176, 8)
	assert.NoError(t, err)

	pht := f.ProgramHeaderTable()
	assert.Equal(t, uint64(64), f.Header().ProgramHeaderTableFileOffset)
	assert.Equal(t, 2, len(pht.Entries))

	sht := f.SectionHeaderTable()
	assert.Equal(t, uint64(232), sht.Entries[1].FileOffset, ".shstrtab should not have moved")
	assert.Equal(t, uint64(510), f.Header().SectionHeaderTableFileOffset, "section header table should not have moved")

	assertChunkListConsistent(t, f)
}

func TestAllocateFileMemoryPropagatesThroughFile(t *testing.T) {
	f := newSyntheticFile()

	err := f.AllocateFileMemory(345, 4096)
	assert.NoError(t, err)
	assertChunkListConsistent(t, f)

	sht := f.SectionHeaderTable()
	assert.GreaterOrEqual(t, sht.Entries[3].FileOffset, uint64(377), ".symtab should not move earlier")
	assert.GreaterOrEqual(t, sht.Entries[4].FileOffset, uint64(473), ".strtab should not move earlier")
}

func TestAllocateFileMemoryRejectsOffsetInsideTable(t *testing.T) {
	f := newSyntheticFile()
	err := f.AllocateFileMemory(100, 8) // inside the program header table itself
	assert.ErrorIs(t, err, ErrBadOffset)
}

func TestAllocateFileMemoryRejectsZeroSize(t *testing.T) {
	f := newSyntheticFile()
	err := f.AllocateFileMemory(176, 0)
	assert.ErrorIs(t, err, ErrBadOffset)
}
