package fdt

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/buf"
	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

func defaultCells() types.CellSpec {
	return types.CellSpec{Address: format.DefaultAddressCells, Size: format.DefaultSizeCells}
}

// Node is a zero-copy view of one device tree node. A Node is identified by
// the offset of its FDT_BEGIN_NODE token; it carries just enough traversal
// context (depth, the cell counts and interrupt parent inherited from its
// ancestry) to decode its own properties without re-walking the tree.
//
// Nodes are small values meant to be passed around by copy. They stay valid
// as long as the Tree (and its backing buffer) is alive.
type Node struct {
	t     *Tree
	off   int // offset of FDT_BEGIN_NODE within the structure block
	body  int // offset just past the name padding
	depth int
	name  []byte

	parentBody  int            // body offset of the parent, -1 for the root
	parentCells types.CellSpec // cells governing this node's reg (declared by the parent)
	grandCells  types.CellSpec // cells governing the parent's reg (parent-bus width for ranges)
	intParent   uint32         // inherited interrupt-parent phandle, 0 when absent
}

// Name returns the node name, empty for the root. The string is a view over
// the blob; it allocates nothing.
func (n Node) Name() string { return buf.String(n.name) }

// Depth returns the nesting level; the root is 0.
func (n Node) Depth() int { return n.depth }

// IsRoot reports whether n is the root node.
func (n Node) IsRoot() bool { return n.parentBody < 0 }

// Offset returns the node's identifying offset within the structure block.
func (n Node) Offset() int { return n.off }

// Root returns the root node. The structure block must open with an
// FDT_BEGIN_NODE (NOPs aside); anything else is malformed.
func (t *Tree) Root() (Node, error) {
	if err := t.ensureOpen(); err != nil {
		return Node{}, err
	}
	s := format.NewScanner(t.strukt, 0)
	ev, err := s.Next()
	if err != nil {
		return Node{}, wrapFormatErr(err)
	}
	if ev.Token != format.TokenBeginNode {
		return Node{}, wrapFormatErr(fmt.Errorf("structure block starts with token %#x: %w", ev.Token, format.ErrMalformedStructure))
	}
	return Node{
		t:           t,
		off:         ev.Offset,
		body:        s.Offset(),
		name:        ev.Name,
		parentBody:  -1,
		parentCells: defaultCells(),
		grandCells:  defaultCells(),
	}, nil
}

// Children returns an iterator over the node's direct children. Each call
// starts a fresh scan of the node body; iterations are independent.
func (n Node) Children() *ChildIter {
	return &ChildIter{
		t:       n.t,
		parent:  n,
		s:       format.NewScanner(n.t.strukt, n.body),
		cells:   defaultCells(),
		skipOff: -1,
	}
}

// Siblings returns an iterator over the other children of n's parent.
// The root has no siblings.
func (n Node) Siblings() *ChildIter {
	if n.parentBody < 0 {
		return &ChildIter{done: true}
	}
	parent := Node{
		t:           n.t,
		body:        n.parentBody,
		depth:       n.depth - 1,
		parentCells: n.grandCells,
		intParent:   n.intParent,
	}
	it := parent.Children()
	it.skipOff = n.off
	return it
}

// Properties returns an iterator over the node's own properties. Properties
// belonging to children are not included; iteration stops at the first child.
func (n Node) Properties() *PropIter {
	return &PropIter{t: n.t, s: format.NewScanner(n.t.strukt, n.body)}
}

// Property returns the named property of n, or ErrNotFound.
func (n Node) Property(name string) (Property, error) {
	it := n.Properties()
	for it.Next() {
		if it.Property().Name() == name {
			return it.Property(), nil
		}
	}
	if err := it.Err(); err != nil {
		return Property{}, err
	}
	return Property{}, &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf("property %q not found", name), Err: types.ErrNotFound}
}

// ChildIter iterates the direct children of one node, skipping each child's
// subtree by depth tracking. While scanning past the parent's own properties
// it records the #address-cells, #size-cells and interrupt-parent values
// that govern the children it yields.
type ChildIter struct {
	t      *Tree
	parent Node
	s      format.Scanner

	cells     types.CellSpec // parent's declared cells, defaults until seen
	ownInt    uint32
	hasOwnInt bool

	skipOff int // offset of a node to suppress (sibling iteration), -1 otherwise

	cur     Node
	inChild bool
	done    bool
	err     error
}

// Next advances to the next child, reporting false at the end of the node
// body or on error.
func (it *ChildIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.inChild {
		if err := it.s.SkipNode(); err != nil {
			it.err = wrapFormatErr(err)
			return false
		}
		it.inChild = false
	}
	for {
		ev, err := it.s.Next()
		if err != nil {
			it.err = wrapFormatErr(err)
			return false
		}
		switch ev.Token {
		case format.TokenProp:
			if err := it.observeProp(ev); err != nil {
				it.err = err
				return false
			}
		case format.TokenBeginNode:
			intp := it.parent.intParent
			if it.hasOwnInt {
				intp = it.ownInt
			}
			it.cur = Node{
				t:           it.t,
				off:         ev.Offset,
				body:        it.s.Offset(),
				depth:       it.parent.depth + 1,
				name:        ev.Name,
				parentBody:  it.parent.body,
				parentCells: it.cells,
				grandCells:  it.parent.parentCells,
				intParent:   intp,
			}
			if it.skipOff == it.cur.off {
				it.skipOff = -1
				if err := it.s.SkipNode(); err != nil {
					it.err = wrapFormatErr(err)
					return false
				}
				continue
			}
			it.inChild = true
			return true
		case format.TokenEndNode:
			it.done = true
			return false
		case format.TokenEnd:
			it.err = wrapFormatErr(fmt.Errorf("FDT_END inside node body at %#x: %w", ev.Offset, format.ErrUnbalancedNode))
			return false
		}
	}
}

// Node returns the child yielded by the last successful Next.
func (it *ChildIter) Node() Node { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *ChildIter) Err() error { return it.err }

func (it *ChildIter) observeProp(ev format.Event) error {
	name, err := format.LookupString(it.t.strings, ev.NameOff)
	if err != nil {
		return wrapFormatErr(err)
	}
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
			it.cells.Address = v
		case format.PropSizeCells:
			it.cells.Size = v
		default:
			it.ownInt = v
			it.hasOwnInt = true
		}
	}
	return nil
}

// PropIter iterates the properties at the start of one node's body.
type PropIter struct {
	t    *Tree
	s    format.Scanner
	cur  Property
	done bool
	err  error
}

// Next advances to the next property, reporting false at the first child,
// the node's end, or on error.
func (it *PropIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	ev, err := it.s.Next()
	if err != nil {
		it.err = wrapFormatErr(err)
		return false
	}
	switch ev.Token {
	case format.TokenProp:
		name, err := format.LookupString(it.t.strings, ev.NameOff)
		if err != nil {
			it.err = wrapFormatErr(err)
			return false
		}
		it.cur = Property{name: name, value: ev.Value}
		return true
	case format.TokenBeginNode, format.TokenEndNode:
		it.done = true
		return false
	default: // FDT_END inside a node body
		it.err = wrapFormatErr(fmt.Errorf("FDT_END at %#x before node closed: %w", ev.Offset, format.ErrUnbalancedNode))
		return false
	}
}

// Property returns the property yielded by the last successful Next.
func (it *PropIter) Property() Property { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *PropIter) Err() error { return it.err }
