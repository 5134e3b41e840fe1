package fdt

import (
	"errors"
	"fmt"

	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// Phandle returns the phandle value the node declares via its phandle (or
// legacy linux,phandle) property, or ErrNotFound when it declares none.
func (n Node) Phandle() (uint32, error) {
	it := n.Properties()
	for it.Next() {
		switch it.Property().Name() {
		case format.PropPhandle, format.PropPhandleLegacy:
			return it.Property().U32()
		}
	}
	if err := it.Err(); err != nil {
		return 0, err
	}
	return 0, notFoundf("node %q declares no phandle", n.Name())
}

// ResolvePhandle returns the node declaring the given phandle value. Two
// nodes declaring the same value is corruption and reported as such, never
// silently resolved to either node. Without a caller-supplied cache every
// call re-scans the tree; with opts.PhandleCache the scan is memoized into
// the caller's fixed-capacity table on first use.
func (t *Tree) ResolvePhandle(value uint32) (Node, error) {
	if err := t.ensureOpen(); err != nil {
		return Node{}, err
	}
	if value == 0 {
		return Node{}, notFoundf("phandle 0 is not a valid reference")
	}
	if c := t.opts.PhandleCache; c != nil {
		if err := t.fillPhandleCache(c); err != nil {
			return Node{}, err
		}
		if c.Complete {
			return t.resolveCached(c, value)
		}
		// Table too small for this tree; fall through to scanning.
	}
	return t.scanPhandle(value)
}

// fillPhandleCache runs the whole-tree scan once and records every declared
// phandle. On overflow the cache is left incomplete and resolution keeps
// scanning; the library never grows caller-owned storage.
func (t *Tree) fillPhandleCache(c *types.PhandleCache) error {
	if c.Complete || c.Count > 0 {
		return nil
	}
	full := true
	it := t.Walk()
	for it.Next() {
		v, ok, err := phandleValue(it.Node())
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if !c.Insert(v, it.Node().Offset()) {
			full = false
			break
		}
	}
	if err := it.Err(); err != nil {
		c.Reset()
		return err
	}
	c.Complete = full
	return nil
}

func (t *Tree) resolveCached(c *types.PhandleCache, value uint32) (Node, error) {
	off := -1
	for i := 0; i < c.Count; i++ {
		if c.Entries[i].Phandle != value {
			continue
		}
		if off >= 0 {
			return Node{}, duplicatePhandleErr(value)
		}
		off = c.Entries[i].Offset
	}
	if off < 0 {
		return Node{}, notFoundf("phandle %d not declared", value)
	}
	return t.nodeAt(off)
}

// nodeAt rebuilds the full node view for a structure-block offset. A linear
// walk without property scans; the cache spares the per-node phandle
// property lookups, not the token pass.
func (t *Tree) nodeAt(off int) (Node, error) {
	it := t.Walk()
	for it.Next() {
		if it.Node().Offset() == off {
			return it.Node(), nil
		}
	}
	if err := it.Err(); err != nil {
		return Node{}, err
	}
	return Node{}, notFoundf("no node at offset %#x", off)
}

// scanPhandle is the cacheless path: one full pass, checking every node so
// duplicates are detected rather than first-match-wins.
func (t *Tree) scanPhandle(value uint32) (Node, error) {
	var found Node
	matches := 0
	it := t.Walk()
	for it.Next() {
		v, ok, err := phandleValue(it.Node())
		if err != nil {
			return Node{}, err
		}
		if !ok || v != value {
			continue
		}
		matches++
		if matches > 1 {
			return Node{}, duplicatePhandleErr(value)
		}
		found = it.Node()
	}
	if err := it.Err(); err != nil {
		return Node{}, err
	}
	if matches == 0 {
		return Node{}, notFoundf("phandle %d not declared", value)
	}
	return found, nil
}

func phandleValue(n Node) (uint32, bool, error) {
	v, err := n.Phandle()
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return v, true, nil
}

func duplicatePhandleErr(value uint32) error {
	return wrapFormatErr(fmt.Errorf("phandle %d declared by multiple nodes: %w", value, format.ErrDuplicatePhandle))
}

// InterruptParent resolves the node's effective interrupt parent: its own
// interrupt-parent property when declared, otherwise the nearest ancestor's,
// looked up through the phandle index.
func (n Node) InterruptParent() (Node, error) {
	phandle := n.intParent
	p, err := n.Property(format.PropInterruptParent)
	switch {
	case err == nil:
		v, err := p.U32()
		if err != nil {
			return Node{}, err
		}
		phandle = v
	case !errors.Is(err, types.ErrNotFound):
		return Node{}, err
	}
	if phandle == 0 {
		return Node{}, notFoundf("node %q has no interrupt parent", n.Name())
	}
	return n.t.ResolvePhandle(phandle)
}
