// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeProducesExactByteLength(t *testing.T) {
	f := newSyntheticFile()
	data := f.Serialize()
	assert.Equal(t, f.ByteLength(), len(data))
}

func TestSerializeRoundTripsThroughParse(t *testing.T) {
	f := newSyntheticFile()
	data := f.Serialize()

	parsed, notes, err := Parse(data)
	assert.NoError(t, err)
	assert.Empty(t, notes)

	assert.Equal(t, f.ByteLength(), parsed.ByteLength())
	assert.Equal(t, len(f.Chunks), len(parsed.Chunks))
	for i := range f.Chunks {
		assert.Equal(t, f.Chunks[i].Kind(), parsed.Chunks[i].Kind(), "chunk %d kind mismatch", i)
		assert.Equal(t, f.Chunks[i].ByteLength(), parsed.Chunks[i].ByteLength(), "chunk %d length mismatch", i)
	}

	assert.Equal(t, f.Header().EntryPoint, parsed.Header().EntryPoint)
	assert.Equal(t, f.Header().SectionHeaderStringTableIndex, parsed.Header().SectionHeaderStringTableIndex)

	origSht := f.SectionHeaderTable()
	gotSht := parsed.SectionHeaderTable()
	assert.Equal(t, len(origSht.Entries), len(gotSht.Entries))
	for i := range origSht.Entries {
		assert.Equal(t, origSht.Entries[i].FileOffset, gotSht.Entries[i].FileOffset, "section %d offset mismatch", i)
		assert.Equal(t, origSht.Entries[i].Size, gotSht.Entries[i].Size, "section %d size mismatch", i)
	}

	assert.Equal(t, data, parsed.Serialize())
}
