package fdt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// FindNode resolves a path like "/soc/serial@10000000" to a node. Each
// component matches a child either by full name or, when the component
// carries no unit address, by the name part before '@'. A path that does not
// start with '/' is resolved through the /aliases node first ("serial0" or
// "serial0/child"), the way device tree consumers conventionally accept
// alias shorthands.
func (t *Tree) FindNode(path string) (Node, error) {
	if err := t.ensureOpen(); err != nil {
		return Node{}, err
	}
	if path == "" {
		return Node{}, notFoundf("empty path")
	}
	if !strings.HasPrefix(path, "/") {
		resolved, err := t.resolveAlias(path)
		if err != nil {
			return Node{}, err
		}
		path = resolved
	}
	cur, err := t.Root()
	if err != nil {
		return Node{}, err
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		child, err := findChild(cur, seg)
		if err != nil {
			return Node{}, err
		}
		cur = child
	}
	return cur, nil
}

// resolveAlias rewrites an alias-prefixed path into an absolute one using
// the /aliases node.
func (t *Tree) resolveAlias(path string) (string, error) {
	alias, rest, _ := strings.Cut(path, "/")
	aliases, err := t.FindNode("/aliases")
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", notFoundf("alias %q: tree has no /aliases node", alias)
		}
		return "", err
	}
	p, err := aliases.Property(alias)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", notFoundf("alias %q not declared", alias)
		}
		return "", err
	}
	target, err := p.Str()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(target, "/") {
		return "", wrapFormatErr(fmt.Errorf("alias %q resolves to relative path %q: %w", alias, target, format.ErrInvalidString))
	}
	if rest == "" {
		return target, nil
	}
	return target + "/" + rest, nil
}

// findChild matches one path component against a node's children.
func findChild(n Node, seg string) (Node, error) {
	bare := !strings.ContainsRune(seg, '@')
	it := n.Children()
	for it.Next() {
		name := it.Node().Name()
		if name == seg {
			return it.Node(), nil
		}
		if bare {
			if base, _, ok := strings.Cut(name, "@"); ok && base == seg {
				return it.Node(), nil
			}
		}
	}
	if err := it.Err(); err != nil {
		return Node{}, err
	}
	return Node{}, notFoundf("node %q has no child %q", n.Name(), seg)
}

// Path reconstructs the node's absolute path by re-walking the tree to the
// node's offset. It allocates the returned string; handle-only callers key
// on Offset instead.
func (n Node) Path() (string, error) {
	if n.IsRoot() {
		return "/", nil
	}
	var names [format.MaxDepth + 1][]byte
	it := n.t.Walk()
	for it.Next() {
		cur := it.Node()
		names[cur.depth] = cur.name
		if cur.off == n.off {
			var b strings.Builder
			for d := 1; d <= cur.depth; d++ {
				b.WriteByte('/')
				b.Write(names[d])
			}
			return b.String(), nil
		}
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	return "", notFoundf("node at offset %#x not in tree", n.off)
}

func notFoundf(formatStr string, args ...any) error {
	return &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf(formatStr, args...),
		Err:  types.ErrNotFound,
	}
}
