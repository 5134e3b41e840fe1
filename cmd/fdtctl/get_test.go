package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdtkit/fdtkit/internal/testutil"
	"github.com/fdtkit/fdtkit/pkg/fdt"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.dtb")
	require.NoError(t, os.WriteFile(path, testutil.Simple(), 0o644))
	return path
}

func TestRunInfo(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	require.NoError(t, runInfo([]string{writeFixture(t)}))
}

func TestRunInfoMissingFile(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	err := runInfo([]string{filepath.Join(t.TempDir(), "nope.dtb")})
	require.Error(t, err)
}

func TestRunGet(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	path := writeFixture(t)
	require.NoError(t, runGet([]string{path, "/chosen", "bootargs"}))
	require.NoError(t, runGet([]string{path, "/chosen"}))

	err := runGet([]string{path, "/chosen", "nope"})
	require.Error(t, err)
	assert.True(t, fdt.IsNotFound(err))
}

func TestRunTree(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	path := writeFixture(t)
	require.NoError(t, runTree([]string{path}))
	require.NoError(t, runTree([]string{path, "/memory@80000000"}))

	err := runTree([]string{path, "/does-not-exist"})
	require.Error(t, err)
	assert.True(t, fdt.IsNotFound(err))
}

func TestRunReserve(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	require.NoError(t, runReserve([]string{writeFixture(t)}))
}

func TestRunCompatible(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()
	path := writeFixture(t)
	require.NoError(t, runCompatible([]string{path, "vendor,board"}))
	require.NoError(t, runCompatible([]string{path, "no-such-compatible"}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "(empty)", formatValue(nil))
	assert.Equal(t, `"hello"`, formatValue([]byte("hello\x00")))
	assert.Equal(t, `"a", "b"`, formatValue([]byte("a\x00b\x00")))
	assert.Equal(t, "<0x00000001 0x00000002>", formatValue([]byte{0, 0, 0, 1, 0, 0, 0, 2}))
	assert.Equal(t, "[01 02 03]", formatValue([]byte{1, 2, 3}))
}
