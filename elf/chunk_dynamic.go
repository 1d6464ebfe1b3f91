// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// DynamicTableChunk is the ordered list of (tag, value) pairs making up
// .dynamic (spec §3.1). Trailing is the number of bytes past the last entry
// that don't form a whole additional entry (rare in practice, but the
// section size need not be an exact multiple of EntrySize); WriteInto
// emits them as zeros.
type DynamicTableChunk struct {
	Entries   []DynamicEntry
	EntrySize int
	Trailing  int
}

func (t *DynamicTableChunk) Kind() ChunkKind { return KindDynamicTable }

func (t *DynamicTableChunk) ByteLength() int {
	return len(t.Entries)*t.EntrySize + t.Trailing
}

func (t *DynamicTableChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	for _, e := range t.Entries {
		start := w.pos
		w.i64(int64(e.Tag))
		w.u64(e.Value)
		w.zero(t.EntrySize - (w.pos - start))
	}
	w.zero(t.Trailing)
	return w.pos
}

// Lookup returns all values recorded under tag, in table order, mirroring
// the multi-map the parser builds per spec §4.3 step 4.
func (t *DynamicTableChunk) Lookup(tag DynamicTag) []uint64 {
	var values []uint64
	for _, e := range t.Entries {
		if e.Tag == tag {
			values = append(values, e.Value)
		}
	}
	return values
}

// LookupFirst returns the first value recorded under tag, if any.
func (t *DynamicTableChunk) LookupFirst(tag DynamicTag) (uint64, bool) {
	for _, e := range t.Entries {
		if e.Tag == tag {
			return e.Value, true
		}
	}
	return 0, false
}

func parseDynamicTable(data []byte, entrySize int) (*DynamicTableChunk, error) {
	const op = "parse dynamic table"
	if entrySize < dynamicEntryCanonicalSize {
		return nil, newErr(KindCorrupted, op, "entry size %d below canonical %d", entrySize, dynamicEntryCanonicalSize)
	}
	count := len(data) / entrySize
	t := &DynamicTableChunk{EntrySize: entrySize, Trailing: len(data) - count*entrySize}
	for i := 0; i < count; i++ {
		entryOffset := i * entrySize
		r := newReader(data[entryOffset : entryOffset+entrySize])
		var e DynamicEntry
		tag, err := r.i64(op)
		if err != nil {
			return nil, err
		}
		e.Tag = DynamicTag(tag)
		if e.Value, err = r.u64(op); err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}
