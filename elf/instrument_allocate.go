// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import "sort"

// affectedSection pairs a section index with a snapshot of its header
// entry as it stood before an allocate_file_memory call began, ordered
// ascending by original file offset during phase 3's walk.
type affectedSection struct {
	index  int
	header SectionHeaderEntry
}

// AllocateFileMemory inserts size bytes of zero-filled space at offset,
// then propagates that shift through every displaced section, segment,
// and self-referential table entry so the file's invariants (spec §3.2)
// hold afterward. offset must land on a chunk boundary, inside an
// existing Dummy chunk, or at end-of-file, and must not precede the end
// of the program header table (spec §4.6.1).
func (f *ElfFile) AllocateFileMemory(offset uint64, size uint64) error {
	const op = "allocate file memory"
	f.cleanupDummyChunks()

	if err := f.checkLayoutPrecondition(op); err != nil {
		return err
	}
	if size == 0 {
		return newErr(KindBadOffset, op, "size must be positive")
	}

	minOffset := uint64(f.Header().HeaderSize)
	if pht := f.ProgramHeaderTable(); pht != nil {
		minOffset += uint64(pht.ByteLength())
	}
	if offset < minOffset {
		return newErr(KindBadOffset, op, "offset %d precedes end of program header table", offset)
	}

	insertIdx, err := f.splitOrInsertDummy(offset, size, op)
	if err != nil {
		return err
	}
	f.reindex()

	header := f.Header()
	sht := f.SectionHeaderTable()
	origSHTEntries := append([]SectionHeaderEntry(nil), sht.Entries...)
	origSHTOffset := header.SectionHeaderTableFileOffset

	var affected []affectedSection
	for i, s := range origSHTEntries {
		if s.Type.HasDataInFile() && s.FileOffset >= offset {
			affected = append(affected, affectedSection{i, s})
		}
	}
	sort.Slice(affected, func(a, b int) bool {
		return affected[a].header.FileOffset < affected[b].header.FileOffset
	})

	// Phase 5 needs to know which sections lie inside a non-LOAD segment;
	// that's a structural property of the pre-mutation layout, computed
	// before phase 4 touches the program header table.
	nonLoadMembership := f.sectionsInsideNonLoadSegments(origSHTEntries)

	sectionDelta := make(map[int]int64)
	shtDelta := int64(0)

	remainingShift := int64(size)
	idx := insertIdx + 1
	runningOffset := offset + size
	cursor := 0
	var lastDelta int64
	haveLast := false

	for remainingShift > 0 && idx < len(f.Chunks) {
		// Adjacent dummies encountered while scanning ahead are merged
		// before anything else is evaluated.
		for idx+1 < len(f.Chunks) {
			d1, ok1 := f.Chunks[idx].(*DummyChunk)
			d2, ok2 := f.Chunks[idx+1].(*DummyChunk)
			if !(ok1 && ok2) {
				break
			}
			d1.Data = append(d1.Data, d2.Data...)
			f.Chunks = append(f.Chunks[:idx+1], f.Chunks[idx+2:]...)
		}

		cur := f.Chunks[idx]

		if d, ok := cur.(*DummyChunk); ok {
			if idx+1 >= len(f.Chunks) {
				break
			}
			next := f.Chunks[idx+1]

			align := f.alignmentOf(next, affected, cursor)
			position := runningOffset + uint64(len(d.Data))
			gapErr := position % align

			if gapErr < uint64(len(d.Data)) {
				d.Data = d.Data[:uint64(len(d.Data))-gapErr]
				for remainingShift > 0 && align < uint64(len(d.Data)) {
					d.Data = d.Data[:len(d.Data)-int(align)]
					remainingShift -= int64(align)
				}
			} else {
				grow := align - gapErr
				d.Data = append(d.Data, make([]byte, grow)...)
				remainingShift += int64(grow)
			}

			runningOffset += uint64(len(d.Data))
			lastDelta, cursor = f.recordItem(next, affected, cursor, runningOffset,
				origSHTOffset, &shtDelta, sectionDelta)
			haveLast = true
			runningOffset += uint64(next.ByteLength())
			idx += 2
			continue
		}

		align := f.alignmentOf(cur, affected, cursor)
		gapErr := runningOffset % align
		if gapErr != 0 {
			pad := align - gapErr
			nd := newDummyChunk(int(pad))
			tail := append([]Chunk{nd}, f.Chunks[idx:]...)
			f.Chunks = append(f.Chunks[:idx], tail...)
			remainingShift += int64(pad)
			runningOffset += pad
			cur = f.Chunks[idx+1]
			idx++
		}

		lastDelta, cursor = f.recordItem(cur, affected, cursor, runningOffset,
			origSHTOffset, &shtDelta, sectionDelta)
		haveLast = true
		runningOffset += uint64(cur.ByteLength())
		idx++
	}

	// Every affected section the walk didn't reach (because remaining_shift
	// reached zero, or it was never displaced from its neighbor) is shifted
	// by the same constant amount the walk last settled on: nothing past
	// that point changes spacing again.
	finalDelta := int64(size)
	if haveLast {
		finalDelta = lastDelta
	}
	for ; cursor < len(affected); cursor++ {
		sectionDelta[affected[cursor].index] = finalDelta
	}

	// The walk may have inserted or merged chunks, and it may have stopped
	// before reaching the section header table; take the table's delta from
	// where its chunk now actually sits.
	f.reindex()
	shtDelta = int64(f.offsetOf(f.sectHdrIndex)) - int64(origSHTOffset)

	f.allocatePhase4(origSHTOffset, shtDelta, sectionDelta)
	f.allocatePhase5(sectionDelta, nonLoadMembership)
	f.allocatePhase6(origSHTEntries, sectionDelta)

	if shtDelta != 0 {
		f.Header().SectionHeaderTableFileOffset = uint64(int64(origSHTOffset) + shtDelta)
	}

	f.cleanupDummyChunks()
	return nil
}

// splitOrInsertDummy performs phase 1: it inserts a Dummy{size} at offset,
// either between two existing chunks or by splitting an existing Dummy,
// and returns the index of the newly inserted Dummy chunk.
func (f *ElfFile) splitOrInsertDummy(offset uint64, size uint64, op string) (int, error) {
	running := uint64(0)
	for i, c := range f.Chunks {
		length := uint64(c.ByteLength())
		if offset == running {
			nd := newDummyChunk(int(size))
			f.Chunks = append(f.Chunks[:i], append([]Chunk{nd}, f.Chunks[i:]...)...)
			return i, nil
		}
		if offset > running && offset < running+length {
			d, ok := c.(*DummyChunk)
			if !ok {
				return 0, newErr(KindBadOffset, op, "offset %d is inside a non-dummy chunk", offset)
			}
			split := int(offset - running)
			prefix := append([]byte(nil), d.Data[:split]...)
			suffix := append([]byte(nil), d.Data[split:]...)
			replacement := []Chunk{}
			if len(prefix) > 0 {
				replacement = append(replacement, &DummyChunk{Data: prefix})
			}
			newIdx := i + len(replacement)
			replacement = append(replacement, newDummyChunk(int(size)))
			if len(suffix) > 0 {
				replacement = append(replacement, &DummyChunk{Data: suffix})
			}
			f.Chunks = append(f.Chunks[:i], append(replacement, f.Chunks[i+1:]...)...)
			return newIdx, nil
		}
		running += length
	}
	if offset == running {
		nd := newDummyChunk(int(size))
		f.Chunks = append(f.Chunks, nd)
		return len(f.Chunks) - 1, nil
	}
	return 0, newErr(KindBadOffset, op, "offset %d is out of range", offset)
}

// alignmentOf returns the alignment requirement of a section-like chunk:
// the fixed constant for the section header table, or the corresponding
// section header's alignment field otherwise.
func (f *ElfFile) alignmentOf(c Chunk, affected []affectedSection, cursor int) uint64 {
	if c.Kind() == KindSectionHeaderTable {
		return SectionHeaderTableAlignment
	}
	if cursor < len(affected) {
		return normalizeAlignment(affected[cursor].header.Alignment)
	}
	return 1
}

// recordItem records the new offset of a section-like chunk encountered
// during the phase 3 walk, advancing cursor past it when it is a section
// (as opposed to the section header table sentinel).
func (f *ElfFile) recordItem(c Chunk, affected []affectedSection, cursor int, newOffset uint64, origSHTOffset uint64, shtDelta *int64, sectionDelta map[int]int64) (int64, int) {
	if c.Kind() == KindSectionHeaderTable {
		*shtDelta = int64(newOffset) - int64(origSHTOffset)
		return *shtDelta, cursor
	}
	if cursor >= len(affected) {
		return 0, cursor
	}
	a := affected[cursor]
	delta := int64(newOffset) - int64(a.header.FileOffset)
	sectionDelta[a.index] = delta
	return delta, cursor + 1
}

// sectionsInsideNonLoadSegments returns, for each section index, whether it
// lies entirely inside at least one non-LOAD program header (pre-mutation
// ranges), per spec §4.6.1 phase 5's condition for touching virtual_address.
func (f *ElfFile) sectionsInsideNonLoadSegments(origSHTEntries []SectionHeaderEntry) map[int]bool {
	result := make(map[int]bool)
	pht := f.ProgramHeaderTable()
	if pht == nil {
		return result
	}
	for i, s := range origSHTEntries {
		if !s.Type.HasDataInFile() {
			continue
		}
		for _, p := range pht.Entries {
			if p.Type == PT_LOAD {
				continue
			}
			if s.FileOffset >= p.FileOffset && s.FileOffset+s.Size <= p.FileOffset+p.FileSize {
				result[i] = true
				break
			}
		}
	}
	return result
}

// allocatePhase4 updates segment (program header) bounds per spec §4.6.1
// phase 4, using the pre-mutation layout captured in sectionDelta/shtDelta.
func (f *ElfFile) allocatePhase4(origSHTOffset uint64, shtDelta int64, sectionDelta map[int]int64) {
	pht := f.ProgramHeaderTable()
	if pht == nil {
		return
	}
	header := f.Header()
	sht := f.SectionHeaderTable()

	type item struct {
		offset uint64
		delta  int64
	}
	items := []item{
		{0, 0},
		{header.ProgramHeaderTableFileOffset, 0},
		{origSHTOffset, shtDelta},
	}
	for i, s := range sht.Entries {
		if !s.Type.HasDataInFile() {
			continue
		}
		items = append(items, item{s.FileOffset, sectionDelta[i]})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].offset < items[b].offset })

	for pi := range pht.Entries {
		p := &pht.Entries[pi]
		var first, last *item
		for ii := range items {
			it := &items[ii]
			if it.offset >= p.FileOffset && it.offset < p.FileOffset+p.FileSize {
				if first == nil {
					first = it
				}
				last = it
			}
		}
		if first == nil {
			continue
		}
		if first.delta != 0 {
			p.FileOffset = uint64(int64(p.FileOffset) + first.delta)
			if p.Type != PT_LOAD {
				p.VirtualAddress = uint64(int64(p.VirtualAddress) + first.delta)
				p.PhysicalAddress = uint64(int64(p.PhysicalAddress) + first.delta)
			}
		}
		if last != first && last.delta != 0 {
			p.FileSize = uint64(int64(p.FileSize) + last.delta)
			p.MemSize = uint64(int64(p.MemSize) + last.delta)
		}
	}
}

// allocatePhase5 applies each moved section's delta to its file_offset, and
// to its virtual_address when it lies inside a non-LOAD segment (spec
// §4.6.1 phase 5, "Variant A" per DESIGN.md).
func (f *ElfFile) allocatePhase5(sectionDelta map[int]int64, nonLoadMembership map[int]bool) {
	sht := f.SectionHeaderTable()
	for i := range sht.Entries {
		delta, ok := sectionDelta[i]
		if !ok || delta == 0 {
			continue
		}
		sht.Entries[i].FileOffset = uint64(int64(sht.Entries[i].FileOffset) + delta)
		if nonLoadMembership[i] {
			sht.Entries[i].VirtualAddress = uint64(int64(sht.Entries[i].VirtualAddress) + delta)
		}
	}
}

// allocatePhase6 patches dynamic-table entries whose tag is in
// addressTagsRemappedOnShift, remapping each value through the section that
// originally contained it (spec §4.6.1 phase 6).
func (f *ElfFile) allocatePhase6(origSHTEntries []SectionHeaderEntry, sectionDelta map[int]int64) {
	dyn := f.DynamicTable()
	if dyn == nil {
		return
	}
	for i := range dyn.Entries {
		if !addressTagsRemappedOnShift[dyn.Entries[i].Tag] {
			continue
		}
		dyn.Entries[i].Value = remapAddress(origSHTEntries, sectionDelta, dyn.Entries[i].Value)
	}
}

// remapAddress implements phase 6's remap(v): find the original section
// whose file range contains v, and shift v by that section's delta.
// Values outside every section pass through unchanged (spec P4).
func remapAddress(origSHTEntries []SectionHeaderEntry, sectionDelta map[int]int64, v uint64) uint64 {
	for i, s := range origSHTEntries {
		if !s.Type.HasDataInFile() {
			continue
		}
		if v >= s.FileOffset && v < s.FileOffset+s.Size {
			return uint64(int64(v) + sectionDelta[i])
		}
	}
	return v
}
