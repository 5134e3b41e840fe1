package format

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/buf"
)

// ReserveEntry is one record of the memory reservation map: a region of
// physical memory the kernel must not hand to its allocator.
type ReserveEntry struct {
	Address uint64
	Size    uint64
}

// Zero reports whether the entry is the (0, 0) terminator.
func (e ReserveEntry) Zero() bool { return e.Address == 0 && e.Size == 0 }

// ReadReserveEntry decodes the 16-byte reservation record at off within blob.
// The map is not length-prefixed; callers read records until the terminator,
// so a record running off the end of the blob means the terminator is missing.
func ReadReserveEntry(blob []byte, off int) (ReserveEntry, error) {
	addr, ok := buf.U64BEAt(blob, off)
	if !ok {
		return ReserveEntry{}, fmt.Errorf("reserve entry at %#x: %w", off, ErrTruncated)
	}
	size, ok := buf.U64BEAt(blob, off+8)
	if !ok {
		return ReserveEntry{}, fmt.Errorf("reserve entry at %#x: %w", off, ErrTruncated)
	}
	return ReserveEntry{Address: addr, Size: size}, nil
}
