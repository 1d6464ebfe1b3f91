//go:build unix
// +build unix

// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import (
	"os"

	"golang.org/x/sys/unix"
)

// readFileFast mmaps path read-only and copies it into a plain Go slice,
// so the mapping can be torn down immediately instead of outliving the
// returned ElfFile (spec §5 requires no dangling resources past "load
// from path").
func readFileFast(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, nil
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return os.ReadFile(path)
	}
	defer unix.Munmap(mapped)

	out := make([]byte, len(mapped))
	copy(out, mapped)
	return out, nil
}

func writeFileFast(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
