// Package format decodes the on-disk structures of the Flattened Device Tree
// (FDT/DTB) binary encoding: the fixed header, the memory reservation map,
// the tokenized structure block, and the strings block. Everything here is
// pure and operates on borrowed byte slices; nothing is copied or cached.
package format

// Magic is the big-endian signature at offset 0 of every FDT blob.
const Magic = 0xd00dfeed

// Header field offsets. All header fields are big-endian uint32.
const (
	MagicOffset           = 0x00
	TotalSizeOffset       = 0x04
	OffDtStructOffset     = 0x08
	OffDtStringsOffset    = 0x0c
	OffMemRsvmapOffset    = 0x10
	VersionOffset         = 0x14
	LastCompVersionOffset = 0x18
	BootCpuidPhysOffset   = 0x1c
	SizeDtStringsOffset   = 0x20
	SizeDtStructOffset    = 0x24

	// HeaderSize is the size of the fixed v17 header.
	HeaderSize = 0x28
)

// Version support window. Every blob emitted by dtc since 2005 declares
// last_comp_version 16 and version 17; version 16 blobs merely lack the
// size_dt_struct field, which ParseHeader derives instead.
const (
	MinVersion       = 16
	SupportedVersion = 17
)

// Token values of the structure block. Each token is a big-endian uint32 at
// a 4-byte-aligned offset.
const (
	TokenBeginNode uint32 = 0x1
	TokenEndNode   uint32 = 0x2
	TokenProp      uint32 = 0x3
	TokenNop       uint32 = 0x4
	TokenEnd       uint32 = 0x9
)

// TokenSize is the size of one token word.
const TokenSize = 4

// PropHeaderSize is the fixed prefix of an FDT_PROP payload: value length
// followed by the name offset into the strings block.
const PropHeaderSize = 8

// ReserveEntrySize is the size of one memory reservation record: a 64-bit
// physical address followed by a 64-bit size.
const ReserveEntrySize = 16

// CellSize is the size of one cell, the 32-bit unit address and size values
// are built from.
const CellSize = 4

// MaxDepth bounds tree nesting for traversals that keep per-level context on
// a fixed stack. Real trees nest well under 16 levels; anything deeper is
// rejected rather than allocated for.
const MaxDepth = 64

// Well-known property names.
const (
	PropAddressCells    = "#address-cells"
	PropSizeCells       = "#size-cells"
	PropCompatible      = "compatible"
	PropPhandle         = "phandle"
	PropPhandleLegacy   = "linux,phandle"
	PropReg             = "reg"
	PropRanges          = "ranges"
	PropInterruptParent = "interrupt-parent"
	PropClockFrequency  = "clock-frequency"
)

// Cell count defaults mandated by the devicetree specification when a node's
// parent declares no #address-cells / #size-cells.
const (
	DefaultAddressCells = 2
	DefaultSizeCells    = 1
)
