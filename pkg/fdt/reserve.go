package fdt

import (
	"github.com/fdtkit/fdtkit/internal/format"
	"github.com/fdtkit/fdtkit/pkg/types"
)

// Reservations returns a fresh iterator over the memory reservation map.
// The sequence ends at the (0, 0) terminator; a map that runs off the end
// of the blob without one is truncated.
func (t *Tree) Reservations() *ReserveIter {
	it := &ReserveIter{
		blob: t.blob[:t.head.TotalSize],
		off:  int(t.head.OffMemRsvmap),
	}
	if err := t.ensureOpen(); err != nil {
		it.err = err
		it.done = true
	}
	return it
}

// ReserveIter is a lazy, restartable walk of the reservation records.
// Restart by calling Tree.Reservations again.
type ReserveIter struct {
	blob []byte
	off  int
	cur  types.ReserveEntry
	done bool
	err  error
}

// Next advances to the next reservation, reporting false at the terminator
// or on error.
func (it *ReserveIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	e, err := format.ReadReserveEntry(it.blob, it.off)
	if err != nil {
		it.err = wrapFormatErr(err)
		return false
	}
	if e.Zero() {
		it.done = true
		return false
	}
	it.cur = types.ReserveEntry{Address: e.Address, Size: e.Size}
	it.off += format.ReserveEntrySize
	return true
}

// Entry returns the reservation yielded by the last successful Next.
func (it *ReserveIter) Entry() types.ReserveEntry { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *ReserveIter) Err() error { return it.err }
