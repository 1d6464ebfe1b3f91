// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// LoadFile reads path and parses it as an ELF64 little-endian file (spec
// §5, "load from path"). On unix build targets the read goes through
// readFileFast, a memory-mapped fast path; elsewhere it falls back to
// os.ReadFile.
func LoadFile(path string) (*ElfFile, []string, error) {
	data, err := readFileFast(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(data)
}

// StoreFile serializes f and writes the result to path, replacing any
// existing file (spec §5, "store to path").
func StoreFile(path string, f *ElfFile) error {
	return writeFileFast(path, f.Serialize())
}
