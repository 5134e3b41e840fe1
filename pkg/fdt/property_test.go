package fdt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdtkit/fdtkit/internal/testutil"
	"github.com/fdtkit/fdtkit/pkg/fdt"
	"github.com/fdtkit/fdtkit/pkg/types"
)

func propNode(t *testing.T) fdt.Node {
	t.Helper()
	blob := testutil.NewBlob().
		BeginNode("").
		PropU32("one-cell", 0xdead_beef).
		PropU64("two-cell", 0x1_0000_0000).
		PropStr("strings", "alpha", "beta").
		Prop("empty", nil).
		Prop("unterminated", []byte{'a', 'b', 'c'}).
		PropCells("cells", 1, 2, 3).
		EndNode().
		Build()
	tree, err := fdt.Open(blob, nil)
	require.NoError(t, err)
	root, err := tree.Root()
	require.NoError(t, err)
	return root
}

func TestPropertyU32(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("one-cell")
	require.NoError(t, err)
	v, err := p.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdead_beef), v)

	// Wrong width is a type error, not corruption.
	_, err = p.U64()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTypeMismatch))
}

func TestPropertyU64(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("two-cell")
	require.NoError(t, err)
	v, err := p.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1_0000_0000), v)
}

func TestPropertyStr(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("strings")
	require.NoError(t, err)

	// Str yields the first list entry.
	s, err := p.Str()
	require.NoError(t, err)
	assert.Equal(t, "alpha", s)

	list, err := p.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, list)

	assert.True(t, p.Matches("beta"))
	assert.False(t, p.Matches("alph"))
}

func TestPropertyStrUnterminated(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("unterminated")
	require.NoError(t, err)
	_, err = p.Str()
	require.Error(t, err)
	_, err = p.Strings()
	require.Error(t, err)
	assert.False(t, p.Matches("abc"))
}

func TestPropertyEmpty(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("empty")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Raw())

	// Empty string-list decodes as no entries.
	list, err := p.Strings()
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, root.HasProperty("empty"))
}

func TestPropertyCells(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("cells")
	require.NoError(t, err)

	it, err := p.Cells()
	require.NoError(t, err)
	assert.Equal(t, 3, it.Remaining())
	var got []uint32
	for it.Next() {
		got = append(got, it.Cell())
	}
	assert.Equal(t, []uint32{1, 2, 3}, got)
	assert.Equal(t, 0, it.Remaining())

	// A ragged value cannot be read as cells.
	ragged, err := root.Property("unterminated")
	require.NoError(t, err)
	_, err = ragged.Cells()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTypeMismatch))
}

func TestPropertyEachStringEarlyStop(t *testing.T) {
	root := propNode(t)
	p, err := root.Property("strings")
	require.NoError(t, err)
	n := 0
	err = p.EachString(func(string) bool {
		n++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
