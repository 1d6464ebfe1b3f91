// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package elf

// HeaderSize is the fixed on-disk size of the ELF64 file header (spec
// §6.1). The chunk model always places it at chunk index 0, file offset 0
// (spec I2).
const HeaderSize = 64

var elfMagic = [4]byte{0x7F, 'E', 'L', 'F'}

// HeaderChunk is the 64-byte ELF identification and file-level metadata
// (spec §3.1, "Header").
type HeaderChunk struct {
	Class                         Class
	Encoding                      Endian
	IdentVersion                  uint8
	TargetABI                     ABI
	ABIVersion                    uint8
	ObjectFileType                FileType
	TargetArchitecture            MachineType
	ObjectFileVersion             uint32
	EntryPoint                    uint64
	ProgramHeaderTableFileOffset  uint64
	SectionHeaderTableFileOffset  uint64
	ProcessorSpecificFlags        uint32
	HeaderSize                    uint16
	ProgramHeaderTableEntrySize   uint16
	ProgramHeaderTableEntryCount  uint16
	SectionHeaderTableEntrySize   uint16
	SectionHeaderTableEntryCount  uint16
	SectionHeaderStringTableIndex uint16
}

func (h *HeaderChunk) Kind() ChunkKind { return KindHeader }
func (h *HeaderChunk) ByteLength() int { return HeaderSize }

func (h *HeaderChunk) WriteInto(buf []byte) int {
	w := newWriter(buf)
	w.bytes(elfMagic[:])
	w.u8(uint8(h.Class))
	w.u8(uint8(h.Encoding))
	w.u8(h.IdentVersion)
	w.u8(uint8(h.TargetABI))
	w.u8(h.ABIVersion)
	w.zero(7)
	w.u16(uint16(h.ObjectFileType))
	w.u16(uint16(h.TargetArchitecture))
	w.u32(h.ObjectFileVersion)
	w.u64(h.EntryPoint)
	w.u64(h.ProgramHeaderTableFileOffset)
	w.u64(h.SectionHeaderTableFileOffset)
	w.u32(h.ProcessorSpecificFlags)
	w.u16(h.HeaderSize)
	w.u16(h.ProgramHeaderTableEntrySize)
	w.u16(h.ProgramHeaderTableEntryCount)
	w.u16(h.SectionHeaderTableEntrySize)
	w.u16(h.SectionHeaderTableEntryCount)
	w.u16(h.SectionHeaderStringTableIndex)
	return w.pos
}

func parseHeader(r *reader) (*HeaderChunk, error) {
	const op = "parse header"
	magic, err := r.bytes(4, op)
	if err != nil {
		return nil, err
	}
	if magic[0] != elfMagic[0] || magic[1] != elfMagic[1] || magic[2] != elfMagic[2] || magic[3] != elfMagic[3] {
		return nil, newErr(KindCorrupted, op, "bad magic: % x", magic)
	}
	class, err := r.u8(op)
	if err != nil {
		return nil, err
	}
	encoding, err := r.u8(op)
	if err != nil {
		return nil, err
	}
	if Class(class) != Class64 {
		return nil, newErr(KindUnsupported, op, "class %d is not ELFCLASS64", class)
	}
	if Endian(encoding) != LittleEndian {
		return nil, newErr(KindUnsupported, op, "encoding %d is not ELFDATA2LSB", encoding)
	}
	identVersion, err := r.u8(op)
	if err != nil {
		return nil, err
	}
	abi, err := r.u8(op)
	if err != nil {
		return nil, err
	}
	abiVersion, err := r.u8(op)
	if err != nil {
		return nil, err
	}
	if err := r.skip(7, op); err != nil {
		return nil, err
	}

	h := &HeaderChunk{
		Class:        Class(class),
		Encoding:     Endian(encoding),
		IdentVersion: identVersion,
		TargetABI:    ABI(abi),
		ABIVersion:   abiVersion,
	}

	fileType, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	machine, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	version, err := r.u32(op)
	if err != nil {
		return nil, err
	}
	entry, err := r.u64(op)
	if err != nil {
		return nil, err
	}
	phOff, err := r.u64(op)
	if err != nil {
		return nil, err
	}
	shOff, err := r.u64(op)
	if err != nil {
		return nil, err
	}
	flags, err := r.u32(op)
	if err != nil {
		return nil, err
	}
	headerSize, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	phEntSize, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	phCount, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	shEntSize, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	shCount, err := r.u16(op)
	if err != nil {
		return nil, err
	}
	shStrIdx, err := r.u16(op)
	if err != nil {
		return nil, err
	}

	h.ObjectFileType = FileType(fileType)
	h.TargetArchitecture = MachineType(machine)
	h.ObjectFileVersion = version
	h.EntryPoint = entry
	h.ProgramHeaderTableFileOffset = phOff
	h.SectionHeaderTableFileOffset = shOff
	h.ProcessorSpecificFlags = flags
	h.HeaderSize = headerSize
	h.ProgramHeaderTableEntrySize = phEntSize
	h.ProgramHeaderTableEntryCount = phCount
	h.SectionHeaderTableEntrySize = shEntSize
	h.SectionHeaderTableEntryCount = shCount
	h.SectionHeaderStringTableIndex = shStrIdx

	return h, nil
}
