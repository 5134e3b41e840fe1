package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // header rejection (bad magic, version window)
	ErrKindCorrupt                    // structural corruption (bad offsets, token violations)
	ErrKindUnsupported                // valid feature we don't support (e.g., >2 address cells)
	ErrKindNotFound                   // missing node/property/phandle — expected outcome, not corruption
	ErrKindType                       // requested decode doesn't match the property encoding
	ErrKindState                      // invalid operation for current state (e.g., closed tree)
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations.
var (
	// ErrNotFDT indicates the buffer lacks a valid FDT header.
	ErrNotFDT = &Error{Kind: ErrKindFormat, Msg: "not a flattened device tree (bad header)"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt device tree structure"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported device tree feature"}
	// ErrNotFound indicates a missing node, property, alias, or phandle.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTypeMismatch indicates the requested decode doesn't fit the value bytes.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "property value has different shape"}
	// ErrClosed indicates use of a tree after Close released its mapping.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "tree is closed"}
)

// -----------------------------------------------------------------------------
// Core metadata
// -----------------------------------------------------------------------------

// Header reports the validated FDT blob header.
type Header struct {
	TotalSize       uint32
	Version         uint32
	LastCompVersion uint32
	BootCpuidPhys   uint32
	StructOffset    uint32
	StructSize      uint32
	StringsOffset   uint32
	StringsSize     uint32
	MemRsvmapOffset uint32
}

// ReserveEntry is one memory reservation: a physical region the OS must keep
// out of its allocator.
type ReserveEntry struct {
	Address uint64
	Size    uint64
}

// CellSpec is a (#address-cells, #size-cells) pair governing how a subtree
// encodes reg-style values.
type CellSpec struct {
	Address uint32
	Size    uint32
}

// RegEntry is one decoded entry of a reg property. Address is the entry's
// address translated through the parent's ranges property onto the parent
// bus; when no ranges applies it equals ChildBusAddress. Size is absent when
// the governing #size-cells is zero.
type RegEntry struct {
	Address         uint64
	ChildBusAddress uint64
	Size            uint64
	HasSize         bool
}

// Range is one decoded entry of a ranges property, mapping a child bus
// region onto the parent bus.
type Range struct {
	ChildBusAddress  uint64
	ParentBusAddress uint64
	Size             uint64
}

// Chosen carries the standard /chosen boot parameters.
type Chosen struct {
	Bootargs   string
	StdoutPath string
}
