package fdt

import (
	"errors"

	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/internal/mmfile"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// Tree is a read-only view over one FDT blob. All navigation re-scans the
// structure block lazily; the Tree itself holds nothing but the validated
// header and the block slices, so independent traversals (including from
// multiple goroutines) never coordinate.
type Tree struct {
	blob    []byte
	head    format.Header
	strukt  []byte
	strings []byte
	opts    types.OpenOptions
	unmap   func() error
	closed  bool
}

// Open validates the blob header and returns a Tree over buf. This is the
// sole fallible entry point for a buffer: everything downstream assumes the
// block extents validated here. The buffer must stay alive and unmodified
// for the lifetime of the Tree and every view derived from it.
func Open(buf []byte, opts *types.OpenOptions) (*Tree, error) {
	return newTree(buf, nil, opts)
}

// OpenFile maps the blob at path read-only and opens it. The hosted-platform
// convenience path; bare-metal callers hand their firmware-provided region
// straight to Open.
func OpenFile(path string, opts *types.OpenOptions) (*Tree, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindState, Msg: "open fdt: " + err.Error(), Err: err}
	}
	t, err := newTree(data, unmap, opts)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	return t, nil
}

func newTree(buf []byte, unmap func() error, opts *types.OpenOptions) (*Tree, error) {
	head, err := format.ParseHeader(buf)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	t := &Tree{
		blob:    buf,
		head:    head,
		strukt:  head.StructBlock(buf),
		strings: head.StringsBlock(buf),
		unmap:   unmap,
	}
	if opts != nil {
		t.opts = *opts
	}
	return t, nil
}

// Close releases resources (unmaps the file if the tree came from OpenFile).
// Views handed out before Close must not be used afterwards.
func (t *Tree) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.unmap != nil {
		return t.unmap()
	}
	return nil
}

func (t *Tree) ensureOpen() error {
	if t.closed {
		return types.ErrClosed
	}
	return nil
}

// Header returns the validated blob header.
func (t *Tree) Header() types.Header {
	return types.Header{
		TotalSize:       t.head.TotalSize,
		Version:         t.head.Version,
		LastCompVersion: t.head.LastCompVersion,
		BootCpuidPhys:   t.head.BootCpuidPhys,
		StructOffset:    t.head.OffDtStruct,
		StructSize:      t.head.SizeDtStruct,
		StringsOffset:   t.head.OffDtStrings,
		StringsSize:     t.head.SizeDtStrings,
		MemRsvmapOffset: t.head.OffMemRsvmap,
	}
}

// Validate walks the entire structure block and the reservation map,
// resolving every property name, and reports the first structural violation.
// Open deliberately validates the header only; Validate is the exhaustive
// pass for callers that want "tree is sound" up front.
func (t *Tree) Validate() error {
	if err := t.ensureOpen(); err != nil {
		return err
	}
	it := t.Walk()
	for it.Next() {
		props := it.Node().Properties()
		for props.Next() {
		}
		if err := props.Err(); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	rs := t.Reservations()
	for rs.Next() {
	}
	return rs.Err()
}

// Error helpers --------------------------------------------------------------

func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrBadMagic):
		return types.ErrNotFDT
	case errors.Is(err, format.ErrUnsupportedVersion):
		return &types.Error{Kind: types.ErrKindUnsupported, Msg: "unsupported fdt version", Err: err}
	case errors.Is(err, format.ErrNotFound):
		return &types.Error{Kind: types.ErrKindNotFound, Msg: "not found", Err: err}
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}
