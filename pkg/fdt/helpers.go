package fdt

import (
	"errors"

	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// Compatibles returns the node's compatible string list, most-specific
// first. The slice is allocated; zero-allocation callers use IsCompatible
// or iterate the property with EachString.
func (n Node) Compatibles() ([]string, error) {
	p, err := n.Property(format.PropCompatible)
	if err != nil {
		return nil, err
	}
	return p.Strings()
}

// IsCompatible reports whether the node's compatible list contains match.
// Nodes without a compatible property are simply not compatible.
func (n Node) IsCompatible(match string) bool {
	p, err := n.Property(format.PropCompatible)
	if err != nil {
		return false
	}
	return p.Matches(match)
}

// ClockFrequency returns the node's clock-frequency property. The encoding
// is a single u32 in almost every tree, but a u64 spelling exists and is
// accepted.
func (n Node) ClockFrequency() (uint64, error) {
	p, err := n.Property(format.PropClockFrequency)
	if err != nil {
		return 0, err
	}
	if v, err := p.U32(); err == nil {
		return uint64(v), nil
	}
	return p.U64()
}

// PropertyU32 reads a named u32 property in one step.
func (n Node) PropertyU32(name string) (uint32, error) {
	p, err := n.Property(name)
	if err != nil {
		return 0, err
	}
	return p.U32()
}

// PropertyStr reads a named string property in one step.
func (n Node) PropertyStr(name string) (string, error) {
	p, err := n.Property(name)
	if err != nil {
		return "", err
	}
	return p.Str()
}

// HasProperty reports whether the node carries the named property, treating
// lookup errors as absence.
func (n Node) HasProperty(name string) bool {
	_, err := n.Property(name)
	return err == nil
}

// IsNotFound reports whether err is a lookup miss rather than corruption.
// Misses are expected outcomes; everything else from this package signals a
// damaged or unsupported blob.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
