// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// Serialize concatenates every chunk's bytes in order, producing a byte
// buffer identical to the one Parse would have consumed to reach this
// state (spec §4.5, P1/P2).
func (f *ElfFile) Serialize() []byte {
	out := make([]byte, f.ByteLength())
	pos := 0
	for _, c := range f.Chunks {
		n := c.WriteInto(out[pos:])
		pos += n
	}
	return out[:pos]
}
