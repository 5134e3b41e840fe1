package fdt

import (
	"errors"
	"strings"

	"github.com/fdtkit/fdtkit/pkg/types"
)

// Chosen returns the standard /chosen boot parameters. Missing individual
// properties leave their fields empty; a tree without a /chosen node at all
// is ErrNotFound.
func (t *Tree) Chosen() (types.Chosen, error) {
	node, err := t.FindNode("/chosen")
	if err != nil {
		return types.Chosen{}, err
	}
	var c types.Chosen
	c.Bootargs, err = strProp(node, "bootargs")
	if err != nil {
		return types.Chosen{}, err
	}
	s, err := strProp(node, "stdout-path")
	if err != nil {
		return types.Chosen{}, err
	}
	if s == "" {
		// Older blobs use the linux,stdout-path spelling.
		if s, err = strProp(node, "linux,stdout-path"); err != nil {
			return types.Chosen{}, err
		}
	}
	c.StdoutPath = s
	return c, nil
}

// strProp reads an optional string property, mapping absence to "".
func strProp(n Node, name string) (string, error) {
	p, err := n.Property(name)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.Str()
}

// Memory returns the reg entries of the /memory node(s): the physical RAM
// regions the tree describes. The result slice is allocated; it is a hosted
// convenience over walking the nodes directly.
func (t *Tree) Memory() ([]types.RegEntry, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	var out []types.RegEntry
	it := root.Children()
	for it.Next() {
		name := it.Node().Name()
		if base, _, _ := strings.Cut(name, "@"); base != "memory" {
			continue
		}
		regs, err := it.Node().RegEntries()
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for regs.Next() {
			out = append(out, regs.Entry())
		}
		if err := regs.Err(); err != nil {
			return nil, err
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
