// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import "github.com/asie-tools/elfchunk/region"

// freeSpaceEntry adapts an already-placed, non-Dummy chunk into the
// region.RegionPlaceable interface so the whole chunk list can be indexed
// by region.Region without duplicating its gap-finding logic.
type freeSpaceEntry struct {
	offset uint64
	size   uint64
}

func (e *freeSpaceEntry) Offset() uint64     { return e.offset }
func (e *freeSpaceEntry) SetOffset(o uint64) { e.offset = o }
func (e *freeSpaceEntry) Size() uint64       { return e.size }
func (e *freeSpaceEntry) Alignment() uint64  { return 1 }

// freeSpaceIndex builds a region.Region spanning the whole file, with every
// non-Dummy chunk registered at its fixed offset as an occupied entry. The
// gaps region.Region finds between those entries are exactly the file's
// current Dummy chunks (spec I1). Rebuilt on demand; it is not kept in
// sync incrementally, since it is only a query aid, not part of the
// authoritative chunk list.
func (f *ElfFile) freeSpaceIndex() *region.Region[*freeSpaceEntry] {
	total := uint64(f.ByteLength())
	r := region.NewRegion[*freeSpaceEntry](0, total, false)
	offset := uint64(0)
	for _, c := range f.Chunks {
		size := uint64(c.ByteLength())
		if c.Kind() != KindDummy && size > 0 {
			entry := &freeSpaceEntry{offset: offset, size: size}
			r.Place(entry, []uint64{offset}, false)
		}
		offset += size
	}
	return r
}

// FindFreeSpace takes the first existing gap of at least minSize bytes among
// the file's current Dummy chunks and reports its start rounded up to align,
// without mutating anything. Only that first gap is considered: if the
// rounded-up start leaves fewer than minSize bytes in it, ok is false even
// when a later gap would fit. This is a convenience query on top of the adapted
// region.Region gap-finder; AllocateFileMemory (spec §4.6.1) still has to
// be called to actually claim the space, since only it knows how to
// realign and re-propagate offsets through the rest of the file.
func (f *ElfFile) FindFreeSpace(minSize uint64, align uint64) (offset uint64, ok bool) {
	if minSize == 0 {
		return 0, false
	}
	idx := f.freeSpaceIndex()
	found, start, end := idx.FindAnyGap(region.RegionFindGapModeFirst, int64(minSize))
	if !found {
		return 0, false
	}
	candidate := start
	if align > 1 {
		candidate += align - 1
		candidate -= candidate % align
	}
	if candidate+minSize > end {
		return 0, false
	}
	return candidate, true
}
