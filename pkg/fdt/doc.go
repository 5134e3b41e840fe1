/*
Package fdt parses Flattened Device Tree (FDT/DTB) blobs into a navigable,
read-only view without allocating or copying.

The blob handed over by firmware may be the only memory available when it is
parsed, so the package works entirely in place: nodes and properties are
lightweight views into the caller's buffer, traversal re-scans the token
stream lazily, and nothing is cached unless the caller supplies storage.
The same code runs hosted (open a .dtb file) or bare-metal (wrap the region
the bootloader handed you).

# Quick Start

	tree, err := fdt.Open(blob, nil)
	if err != nil {
	    return err
	}
	uart, err := tree.FindNode("/soc/serial@10000000")
	if err != nil {
	    return err
	}
	regs, err := uart.RegEntries()
	if err != nil {
	    return err
	}
	for regs.Next() {
	    e := regs.Entry()
	    fmt.Printf("%#x +%#x\n", e.Address, e.Size)
	}

# Untrusted input

The buffer is treated as adversarial. Every read is bounds-checked, every
scan is bounded by the block extents validated at Open, and malformed bytes
surface as typed errors (never panics). Open validates the header only;
Validate performs the exhaustive structural pass.

# Concurrency

A Tree and its views are immutable. Any number of goroutines may traverse
the same Tree concurrently without coordination; iterators themselves are
single-goroutine values.
*/
package fdt
