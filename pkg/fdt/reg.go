package fdt

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// RegCells returns the cell counts governing this node's own reg property.
// Per the devicetree standard these come from the node's *parent*: a node's
// self-declared #address-cells/#size-cells describe its children, never
// itself.
func (n Node) RegCells() types.CellSpec { return n.parentCells }

// ChildCells returns the cell counts governing the reg properties of this
// node's children: its own #address-cells/#size-cells, with the standard
// defaults (2, 1) where absent.
func (n Node) ChildCells() (types.CellSpec, error) {
	cells := defaultCells()
	it := n.Properties()
	for it.Next() {
		p := it.Property()
		switch p.Name() {
		case format.PropAddressCells:
			v, err := p.U32()
			if err != nil {
				return types.CellSpec{}, err
			}
			cells.Address = v
		case format.PropSizeCells:
			v, err := p.U32()
			if err != nil {
				return types.CellSpec{}, err
			}
			cells.Size = v
		}
	}
	if err := it.Err(); err != nil {
		return types.CellSpec{}, err
	}
	return cells, nil
}

// RegEntries decodes the node's reg property into (address, size) entries
// using the parent-derived cell context, translating each address onto the
// parent bus through the parent's ranges property when one applies.
// Returns ErrNotFound when the node has no reg property.
func (n Node) RegEntries() (*RegIter, error) {
	p, err := n.Property(format.PropReg)
	if err != nil {
		return nil, err
	}
	cells := n.parentCells
	if cells.Address > 2 || cells.Size > 2 {
		return nil, cellWidthErr(cells)
	}
	entry := int(cells.Address+cells.Size) * format.CellSize
	if entry == 0 || len(p.value)%entry != 0 {
		return nil, &types.Error{
			Kind: types.ErrKindType,
			Msg:  fmt.Sprintf("reg value of %d bytes does not divide into (%d+%d)-cell entries", len(p.value), cells.Address, cells.Size),
			Err:  types.ErrTypeMismatch,
		}
	}
	ranges, err := n.parentRanges()
	if err != nil {
		return nil, err
	}
	if ranges != nil && n.grandCells.Address > 2 {
		return nil, cellWidthErr(n.grandCells)
	}
	return &RegIter{
		value:      p.value,
		cells:      cells,
		ranges:     ranges,
		parentBus:  n.grandCells.Address,
		rangeEntry: int(cells.Address+n.grandCells.Address+cells.Size) * format.CellSize,
	}, nil
}

// parentRanges returns the raw value of the parent's ranges property, nil
// when the parent declares none (or n is the root).
func (n Node) parentRanges() ([]byte, error) {
	if n.parentBody < 0 {
		return nil, nil
	}
	it := &PropIter{t: n.t, s: format.NewScanner(n.t.strukt, n.parentBody)}
	for it.Next() {
		if it.Property().Name() == format.PropRanges {
			return it.Property().value, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// RegIter steps through the entries of a reg property.
type RegIter struct {
	value []byte
	cells types.CellSpec

	ranges     []byte // parent's ranges value; nil = no translation declared
	parentBus  uint32 // address cells on the parent's own bus
	rangeEntry int

	cur types.RegEntry
	err error
}

// Next advances to the next reg entry.
func (it *RegIter) Next() bool {
	if it.err != nil || len(it.value) == 0 {
		return false
	}
	addr, rest, err := takeCells(it.value, it.cells.Address)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = types.RegEntry{ChildBusAddress: addr, Address: addr}
	if it.cells.Size > 0 {
		size, after, err := takeCells(rest, it.cells.Size)
		if err != nil {
			it.err = err
			return false
		}
		it.cur.Size = size
		it.cur.HasSize = true
		rest = after
	}
	it.value = rest
	translated, err := it.translate(addr)
	if err != nil {
		it.err = err
		return false
	}
	it.cur.Address = translated
	return true
}

// translate maps a child-bus address onto the parent bus. An absent or empty
// ranges property leaves the address untouched (identity mapping).
func (it *RegIter) translate(addr uint64) (uint64, error) {
	if len(it.ranges) == 0 {
		return addr, nil
	}
	if it.rangeEntry == 0 || len(it.ranges)%it.rangeEntry != 0 {
		return 0, &types.Error{
			Kind: types.ErrKindType,
			Msg:  fmt.Sprintf("ranges value of %d bytes does not divide into %d-byte entries", len(it.ranges), it.rangeEntry),
			Err:  types.ErrTypeMismatch,
		}
	}
	rest := it.ranges
	for len(rest) > 0 {
		var childBus, parentBus, size uint64
		var err error
		childBus, rest, err = takeCells(rest, it.cells.Address)
		if err != nil {
			return 0, err
		}
		parentBus, rest, err = takeCells(rest, it.parentBus)
		if err != nil {
			return 0, err
		}
		size, rest, err = takeCells(rest, it.cells.Size)
		if err != nil {
			return 0, err
		}
		if addr >= childBus && addr-childBus < size {
			return addr - childBus + parentBus, nil
		}
	}
	return addr, nil
}

// Entry returns the reg entry yielded by the last successful Next.
func (it *RegIter) Entry() types.RegEntry { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *RegIter) Err() error { return it.err }

// Ranges decodes the node's own ranges property: the mapping of its
// children's bus onto its own. Returns ErrNotFound when the node declares
// none; an empty iterator when the property is present but empty (the
// identity mapping).
func (n Node) Ranges() (*RangeIter, error) {
	p, err := n.Property(format.PropRanges)
	if err != nil {
		return nil, err
	}
	child, err := n.ChildCells()
	if err != nil {
		return nil, err
	}
	if child.Address > 2 || child.Size > 2 || n.parentCells.Address > 2 {
		return nil, cellWidthErr(child)
	}
	entry := int(child.Address+n.parentCells.Address+child.Size) * format.CellSize
	if len(p.value) > 0 && (entry == 0 || len(p.value)%entry != 0) {
		return nil, &types.Error{
			Kind: types.ErrKindType,
			Msg:  fmt.Sprintf("ranges value of %d bytes does not divide into %d-byte entries", len(p.value), entry),
			Err:  types.ErrTypeMismatch,
		}
	}
	return &RangeIter{value: p.value, child: child, parentBus: n.parentCells.Address}, nil
}

// RangeIter steps through the entries of a ranges property.
type RangeIter struct {
	value     []byte
	child     types.CellSpec
	parentBus uint32
	cur       types.Range
	err       error
}

// Next advances to the next range entry.
func (it *RangeIter) Next() bool {
	if it.err != nil || len(it.value) == 0 {
		return false
	}
	var err error
	it.cur.ChildBusAddress, it.value, err = takeCells(it.value, it.child.Address)
	if err == nil {
		it.cur.ParentBusAddress, it.value, err = takeCells(it.value, it.parentBus)
	}
	if err == nil {
		it.cur.Size, it.value, err = takeCells(it.value, it.child.Size)
	}
	if err != nil {
		it.err = err
		return false
	}
	return true
}

// Range returns the entry yielded by the last successful Next.
func (it *RangeIter) Range() types.Range { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *RangeIter) Err() error { return it.err }

func cellWidthErr(cells types.CellSpec) error {
	return &types.Error{
		Kind: types.ErrKindUnsupported,
		Msg:  fmt.Sprintf("cell widths (%d, %d) exceed 64-bit decoding; read the raw cells instead", cells.Address, cells.Size),
		Err:  types.ErrUnsupported,
	}
}
