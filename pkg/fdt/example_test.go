package fdt_test

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/testutil"
	"github.com/fdtkit/fdtkit/pkg/fdt"
)

func Example() {
	tree, err := fdt.Open(testutil.Simple(), nil)
	if err != nil {
		panic(err)
	}
	defer tree.Close()

	node, err := tree.FindNode("/memory@80000000")
	if err != nil {
		panic(err)
	}
	regs, err := node.RegEntries()
	if err != nil {
		panic(err)
	}
	for regs.Next() {
		e := regs.Entry()
		fmt.Printf("%#x +%#x\n", e.Address, e.Size)
	}
	// Output: 0x80000000 +0x10000000
}
