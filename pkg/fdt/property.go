package fdt

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/fdtkit/fdtkit/internal/buf"
	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// Property is a zero-copy view of one property: its name resolved from the
// strings block and its raw value bytes. Typed decoding happens on demand;
// the value is never interpreted until asked for.
type Property struct {
	name  []byte
	value []byte
}

// Name returns the property name as a view over the blob.
func (p Property) Name() string { return buf.String(p.name) }

// Raw returns the undecoded value bytes, borrowed from the blob. May be
// empty (boolean-style properties carry no value).
func (p Property) Raw() []byte { return p.value }

// Len returns the value length in bytes.
func (p Property) Len() int { return len(p.value) }

// U32 decodes the value as a single big-endian uint32.
func (p Property) U32() (uint32, error) {
	if len(p.value) != 4 {
		return 0, p.shapeErr("u32", 4)
	}
	return buf.U32BE(p.value), nil
}

// U64 decodes the value as a single big-endian uint64.
func (p Property) U64() (uint64, error) {
	if len(p.value) != 8 {
		return 0, p.shapeErr("u64", 8)
	}
	return buf.U64BE(p.value), nil
}

// Str decodes the value as a null-terminated string. For string-list values
// this yields the first entry, which is what single-string consumers expect.
// The returned string is a view over the blob.
func (p Property) Str() (string, error) {
	end := bytes.IndexByte(p.value, 0)
	if end < 0 {
		return "", p.invalidStr("unterminated")
	}
	s := p.value[:end]
	if !utf8.Valid(s) {
		return "", p.invalidStr("not valid text")
	}
	return buf.String(s), nil
}

// Strings decodes the value as a list of null-terminated strings packed back
// to back. The slice is allocated; zero-allocation callers iterate with
// EachString instead.
func (p Property) Strings() ([]string, error) {
	var out []string
	err := p.EachString(func(s string) bool {
		out = append(out, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EachString calls fn for every entry of a string-list value without
// allocating. fn returns false to stop early.
func (p Property) EachString(fn func(s string) bool) error {
	rest := p.value
	for len(rest) > 0 {
		end := bytes.IndexByte(rest, 0)
		if end < 0 {
			return p.invalidStr("unterminated")
		}
		s := rest[:end]
		if !utf8.Valid(s) {
			return p.invalidStr("not valid text")
		}
		if !fn(buf.String(s)) {
			return nil
		}
		rest = rest[end+1:]
	}
	return nil
}

// Matches reports whether any entry of a string-list value equals s.
// Malformed list bytes simply do not match; use Strings for strictness.
func (p Property) Matches(s string) bool {
	found := false
	_ = p.EachString(func(entry string) bool {
		if entry == s {
			found = true
			return false
		}
		return true
	})
	return found
}

// Cells returns an iterator over the value as raw 32-bit cells, the unit
// reg/interrupt-style encodings are built from. The value length must be a
// multiple of the cell size.
func (p Property) Cells() (*CellIter, error) {
	if len(p.value)%format.CellSize != 0 {
		return nil, p.shapeErr("cell array", format.CellSize)
	}
	return &CellIter{value: p.value}, nil
}

// CellIter steps through a property value one 32-bit cell at a time.
type CellIter struct {
	value []byte
	off   int
}

// Next reports whether another cell is available.
func (it *CellIter) Next() bool { return it.off < len(it.value) }

// Cell returns the next cell and advances.
func (it *CellIter) Cell() uint32 {
	v := buf.U32BE(it.value[it.off:])
	it.off += format.CellSize
	return v
}

// Remaining returns the number of cells left.
func (it *CellIter) Remaining() int { return (len(it.value) - it.off) / format.CellSize }

// takeCells folds n cells into a uint64. n must be 0, 1, or 2; wider
// encodings exceed what a uint64 can carry.
func takeCells(value []byte, n uint32) (uint64, []byte, error) {
	if n > 2 {
		return 0, nil, &types.Error{
			Kind: types.ErrKindUnsupported,
			Msg:  fmt.Sprintf("%d-cell values exceed 64 bits", n),
			Err:  types.ErrUnsupported,
		}
	}
	need := int(n) * format.CellSize
	if len(value) < need {
		return 0, nil, &types.Error{
			Kind: types.ErrKindType,
			Msg:  fmt.Sprintf("cell array truncated: want %d bytes, have %d", need, len(value)),
			Err:  types.ErrTypeMismatch,
		}
	}
	var v uint64
	for i := 0; i < need; i += format.CellSize {
		v = v<<32 | uint64(buf.U32BE(value[i:]))
	}
	return v, value[need:], nil
}

func (p Property) shapeErr(want string, unit int) error {
	return &types.Error{
		Kind: types.ErrKindType,
		Msg:  fmt.Sprintf("property %s: %d bytes cannot decode as %s (unit %d)", p.Name(), len(p.value), want, unit),
		Err:  types.ErrTypeMismatch,
	}
}

func (p Property) invalidStr(reason string) error {
	return wrapFormatErr(fmt.Errorf("property %s: %s: %w", p.Name(), reason, format.ErrInvalidString))
}
