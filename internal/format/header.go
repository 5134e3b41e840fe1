package format

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/buf"
)

// Header captures the fixed FDT blob header. The diagram below shows the
// layout; every field is a big-endian uint32.
//
//	Offset  Description
//	------  ----------------------------------------------------------
//	 0x00   Magic (0xd00dfeed)
//	 0x04   Total size of the blob
//	 0x08   Offset of the structure block
//	 0x0C   Offset of the strings block
//	 0x10   Offset of the memory reservation map
//	 0x14   Format version
//	 0x18   Last compatible version
//	 0x1C   Physical CPU id of the booting CPU
//	 0x20   Size of the strings block
//	 0x24   Size of the structure block (v17+)
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCpuidPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// ParseHeader validates and extracts the header from b. It is the only place
// a blob can be rejected outright; every downstream scan assumes the block
// extents validated here. Checks run in the order the spec for the format
// implies: length, magic, total size, version window, then block extents.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("fdt header: %w", ErrTruncated)
	}
	h := Header{
		Magic:           buf.U32BE(b[MagicOffset:]),
		TotalSize:       buf.U32BE(b[TotalSizeOffset:]),
		OffDtStruct:     buf.U32BE(b[OffDtStructOffset:]),
		OffDtStrings:    buf.U32BE(b[OffDtStringsOffset:]),
		OffMemRsvmap:    buf.U32BE(b[OffMemRsvmapOffset:]),
		Version:         buf.U32BE(b[VersionOffset:]),
		LastCompVersion: buf.U32BE(b[LastCompVersionOffset:]),
		BootCpuidPhys:   buf.U32BE(b[BootCpuidPhysOffset:]),
		SizeDtStrings:   buf.U32BE(b[SizeDtStringsOffset:]),
	}
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("fdt header: magic %#08x: %w", h.Magic, ErrBadMagic)
	}
	if int64(h.TotalSize) > int64(len(b)) {
		return Header{}, fmt.Errorf("fdt header: totalsize %d exceeds buffer %d: %w", h.TotalSize, len(b), ErrTruncated)
	}
	if h.TotalSize < HeaderSize {
		return Header{}, fmt.Errorf("fdt header: totalsize %d below header size: %w", h.TotalSize, ErrOutOfBounds)
	}
	if h.LastCompVersion > SupportedVersion {
		return Header{}, fmt.Errorf("fdt header: last_comp_version %d: %w", h.LastCompVersion, ErrUnsupportedVersion)
	}
	if h.Version < MinVersion {
		return Header{}, fmt.Errorf("fdt header: version %d: %w", h.Version, ErrUnsupportedVersion)
	}

	if h.Version >= SupportedVersion {
		h.SizeDtStruct = buf.U32BE(b[SizeDtStructOffset:])
	} else {
		// v16 lacks size_dt_struct; the structure block runs up to the
		// strings block (dtc has always laid them out in that order).
		if h.OffDtStrings < h.OffDtStruct {
			return Header{}, fmt.Errorf("fdt header: v16 block order: %w", ErrOutOfBounds)
		}
		h.SizeDtStruct = h.OffDtStrings - h.OffDtStruct
	}

	total := uint64(h.TotalSize)
	if uint64(h.OffDtStruct)+uint64(h.SizeDtStruct) > total {
		return Header{}, fmt.Errorf("fdt header: off_dt_struct+size_dt_struct: %w", ErrOutOfBounds)
	}
	if uint64(h.OffDtStrings)+uint64(h.SizeDtStrings) > total {
		return Header{}, fmt.Errorf("fdt header: off_dt_strings+size_dt_strings: %w", ErrOutOfBounds)
	}
	if uint64(h.OffMemRsvmap) >= total {
		return Header{}, fmt.Errorf("fdt header: off_mem_rsvmap: %w", ErrOutOfBounds)
	}
	if h.OffDtStruct%TokenSize != 0 {
		return Header{}, fmt.Errorf("fdt header: off_dt_struct not 4-byte aligned: %w", ErrMalformedStructure)
	}
	return h, nil
}

// StructBlock returns the structure block slice of blob for a validated header.
func (h Header) StructBlock(blob []byte) []byte {
	return blob[h.OffDtStruct : uint64(h.OffDtStruct)+uint64(h.SizeDtStruct)]
}

// StringsBlock returns the strings block slice of blob for a validated header.
func (h Header) StringsBlock(blob []byte) []byte {
	return blob[h.OffDtStrings : uint64(h.OffDtStrings)+uint64(h.SizeDtStrings)]
}
