//go:build !unix
// +build !unix

// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

import "os"

func readFileFast(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func writeFileFast(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
