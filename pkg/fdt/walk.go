package fdt

import (
	"errors"
	"fmt"

	"github.com/fdtkit/fdtkit/internal/buf"
	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// walkFrame is the per-level context a depth-first walk keeps on its fixed
// stack: enough to hand every visited node the same ancestry-derived state
// it would get from explicit Children() descent.
type walkFrame struct {
	body        int
	cells       types.CellSpec // cells this node declares for its children
	parentCells types.CellSpec
	inherited   uint32 // interrupt-parent phandle inherited from above
	ownInt      uint32
	hasOwnInt   bool
}

// TreeIter is a depth-first walk over every node of the tree in structure
// block order. It allocates nothing: ancestry context lives in a fixed
// stack bounded by format.MaxDepth.
type TreeIter struct {
	t     *Tree
	s     format.Scanner
	stack [format.MaxDepth + 1]walkFrame
	depth int

	started    bool
	rootClosed bool
	cur        Node
	done       bool
	err        error
}

// Walk returns a fresh depth-first iterator over all nodes, starting at the
// root. Driving it to completion validates the token stream's balance.
func (t *Tree) Walk() *TreeIter {
	it := &TreeIter{t: t, s: format.NewScanner(t.strukt, 0)}
	if err := t.ensureOpen(); err != nil {
		it.err = err
		it.done = true
	}
	return it
}

// Next advances to the next node in document order.
func (it *TreeIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.started {
		return it.begin()
	}
	for {
		ev, err := it.s.Next()
		if err != nil {
			it.fail(err)
			return false
		}
		switch ev.Token {
		case format.TokenProp:
			if it.rootClosed {
				it.fail(fmt.Errorf("property after root closed at %#x: %w", ev.Offset, format.ErrMalformedStructure))
				return false
			}
			if err := it.observeProp(ev); err != nil {
				it.err = err
				return false
			}
		case format.TokenBeginNode:
			if it.rootClosed {
				it.fail(fmt.Errorf("second top-level node at %#x: %w", ev.Offset, format.ErrMalformedStructure))
				return false
			}
			if it.depth+1 >= len(it.stack) {
				it.err = &types.Error{
					Kind: types.ErrKindUnsupported,
					Msg:  fmt.Sprintf("tree deeper than %d levels", format.MaxDepth),
					Err:  types.ErrUnsupported,
				}
				return false
			}
			top := &it.stack[it.depth]
			intp := top.inherited
			if top.hasOwnInt {
				intp = top.ownInt
			}
			it.cur = Node{
				t:           it.t,
				off:         ev.Offset,
				body:        it.s.Offset(),
				depth:       it.depth + 1,
				name:        ev.Name,
				parentBody:  top.body,
				parentCells: top.cells,
				grandCells:  top.parentCells,
				intParent:   intp,
			}
			it.depth++
			it.stack[it.depth] = walkFrame{
				body:        it.cur.body,
				cells:       defaultCells(),
				parentCells: top.cells,
				inherited:   intp,
			}
			return true
		case format.TokenEndNode:
			if it.rootClosed {
				it.fail(fmt.Errorf("FDT_END_NODE after root closed at %#x: %w", ev.Offset, format.ErrUnbalancedNode))
				return false
			}
			if it.depth == 0 {
				it.rootClosed = true
			} else {
				it.depth--
			}
		case format.TokenEnd:
			if !it.rootClosed {
				it.fail(fmt.Errorf("FDT_END at %#x with node still open: %w", ev.Offset, format.ErrUnbalancedNode))
				return false
			}
			if it.s.Offset() != len(it.t.strukt) {
				it.fail(fmt.Errorf("%d trailing bytes after FDT_END: %w", len(it.t.strukt)-it.s.Offset(), format.ErrMalformedStructure))
				return false
			}
			it.done = true
			return false
		}
	}
}

// begin consumes the root's FDT_BEGIN_NODE and yields the root node.
func (it *TreeIter) begin() bool {
	it.started = true
	root, err := it.t.Root()
	if err != nil {
		it.err = err
		return false
	}
	// Re-position past the root's name the same way Root did.
	it.s = format.NewScanner(it.t.strukt, root.body)
	it.cur = root
	it.depth = 0
	it.stack[0] = walkFrame{body: root.body, cells: defaultCells(), parentCells: root.parentCells}
	return true
}

// Node returns the node yielded by the last successful Next.
func (it *TreeIter) Node() Node { return it.cur }

// Err returns the error that terminated the walk, if any.
func (it *TreeIter) Err() error { return it.err }

func (it *TreeIter) fail(err error) {
	it.err = wrapFormatErr(err)
}

func (it *TreeIter) observeProp(ev format.Event) error {
	name, err := format.LookupString(it.t.strings, ev.NameOff)
	if err != nil {
		return wrapFormatErr(err)
	}
	top := &it.stack[it.depth]
	switch string(name) {
	case format.PropAddressCells, format.PropSizeCells, format.PropInterruptParent:
		if len(ev.Value) != format.CellSize {
			return &types.Error{
				Kind: types.ErrKindType,
				Msg:  fmt.Sprintf("property %s has %d bytes, want %d", name, len(ev.Value), format.CellSize),
				Err:  types.ErrTypeMismatch,
			}
		}
		v := buf.U32BE(ev.Value)
		switch string(name) {
		case format.PropAddressCells:
			top.cells.Address = v
		case format.PropSizeCells:
			top.cells.Size = v
		default:
			top.ownInt = v
			top.hasOwnInt = true
		}
	}
	return nil
}

// CompatibleIter lazily yields every node whose compatible string list
// contains a given match string, in document order.
type CompatibleIter struct {
	walk  *TreeIter
	match string
	err   error
}

// FindByCompatible returns an iterator over all nodes whose compatible
// property lists match. A tree with no matching node yields an empty
// sequence, not an error.
func (t *Tree) FindByCompatible(match string) *CompatibleIter {
	return &CompatibleIter{walk: t.Walk(), match: match}
}

// Next advances to the next matching node.
func (it *CompatibleIter) Next() bool {
	if it.err != nil {
		return false
	}
	for it.walk.Next() {
		p, err := it.walk.Node().Property(format.PropCompatible)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			it.err = err
			return false
		}
		if p.Matches(it.match) {
			return true
		}
	}
	it.err = it.walk.Err()
	return false
}

// Node returns the matching node yielded by the last successful Next.
func (it *CompatibleIter) Node() Node { return it.walk.Node() }

// Err returns the error that terminated the search, if any.
func (it *CompatibleIter) Err() error { return it.err }
