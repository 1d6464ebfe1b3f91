// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// GetRawBytesAtOffset reads len(buf) bytes starting at offset, failing
// unless that whole range lies inside a single RawSection chunk (spec
// §4.6.7).
func (f *ElfFile) GetRawBytesAtOffset(offset uint64, buf []byte) error {
	const op = "get raw bytes at offset"
	raw, base, err := f.rawSectionAt(offset, len(buf), op)
	if err != nil {
		return err
	}
	copy(buf, raw.Data[offset-base:])
	return nil
}

// PatchRawBytesAtOffset overwrites len(bytes) bytes starting at offset,
// failing unless that whole range lies inside a single RawSection chunk.
func (f *ElfFile) PatchRawBytesAtOffset(offset uint64, bytes []byte) error {
	const op = "patch raw bytes at offset"
	raw, base, err := f.rawSectionAt(offset, len(bytes), op)
	if err != nil {
		return err
	}
	copy(raw.Data[offset-base:], bytes)
	return nil
}

// PatchRawBytesAtAddress resolves virtualAddress to a file offset through
// the program header table, then delegates to PatchRawBytesAtOffset.
func (f *ElfFile) PatchRawBytesAtAddress(virtualAddress uint64, bytes []byte) error {
	const op = "patch raw bytes at address"
	offset, ok := f.FileOffsetOfVirtualAddress(virtualAddress)
	if !ok {
		return newErr(KindBadOffset, op, "virtual address %#x is not covered by any segment", virtualAddress)
	}
	return f.PatchRawBytesAtOffset(offset, bytes)
}

// rawSectionAt returns the RawSection chunk (and its base file offset)
// covering [offset, offset+length), or fails with KindWrongChunkKind if the
// range isn't entirely inside one such chunk.
func (f *ElfFile) rawSectionAt(offset uint64, length int, op string) (*RawBytesChunk, uint64, error) {
	idx, base, ok := f.ChunkAtFileOffset(offset)
	if !ok {
		return nil, 0, newErr(KindBadOffset, op, "offset %d is out of range", offset)
	}
	raw, ok := f.Chunks[idx].(*RawBytesChunk)
	if !ok || raw.Kind() != KindRawSection {
		return nil, 0, newErr(KindWrongChunkKind, op, "offset %d is not inside a raw section", offset)
	}
	if offset-base+uint64(length) > uint64(len(raw.Data)) {
		return nil, 0, newErr(KindBadOffset, op, "range [%d, %d) exceeds its raw section", offset, offset+uint64(length))
	}
	return raw, base, nil
}

// PatchValueInRelocationTable updates the addend of every entry in every
// relocation-with-addend table whose (offset, addend) matches
// (offset, oldAddend), setting it to newAddend (spec §4.6.7). Only tables
// with an explicit addend field are scanned; Rel-format tables have no
// addend to match against (spec §9, open question).
func (f *ElfFile) PatchValueInRelocationTable(offset uint64, oldAddend int64, newAddend int64) int {
	updated := 0
	for _, c := range f.Chunks {
		reloc, ok := c.(*RelocationTableChunk)
		if !ok || !reloc.HasAddend {
			continue
		}
		for i := range reloc.Entries {
			if reloc.Entries[i].Offset == offset && reloc.Entries[i].Addend == oldAddend {
				reloc.Entries[i].Addend = newAddend
				updated++
			}
		}
	}
	return updated
}
