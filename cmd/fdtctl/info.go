package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fdtkit/fdtkit/pkg/fdt"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dtb>",
		Short: "Validate a DTB and report its header metadata",
		Long: `The info command validates a flattened device tree blob and displays
header metadata: format version, block offsets and sizes, and the number of
nodes and memory reservations.

Example:
  fdtctl info board.dtb
  fdtctl info board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening blob: %s\n", path)

	tree, err := fdt.OpenFile(path, nil)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tree.Close()

	if err := tree.Validate(); err != nil {
		return fmt.Errorf("%s is corrupt: %w", path, err)
	}

	nodes := 0
	it := tree.Walk()
	for it.Next() {
		nodes++
	}
	if err := it.Err(); err != nil {
		return err
	}

	reservations := 0
	rs := tree.Reservations()
	for rs.Next() {
		reservations++
	}
	if err := rs.Err(); err != nil {
		return err
	}

	h := tree.Header()
	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":              path,
			"total_size":        h.TotalSize,
			"version":           h.Version,
			"last_comp_version": h.LastCompVersion,
			"boot_cpuid_phys":   h.BootCpuidPhys,
			"struct_offset":     h.StructOffset,
			"struct_size":       h.StructSize,
			"strings_offset":    h.StringsOffset,
			"strings_size":      h.StringsSize,
			"nodes":             nodes,
			"reservations":      reservations,
		})
	}

	printInfo("\nDevice Tree Information:\n")
	printInfo("  File: %s\n", path)
	printInfo("  Total size: %d bytes\n", h.TotalSize)
	printInfo("  Version: %d (last compatible: %d)\n", h.Version, h.LastCompVersion)
	printInfo("  Boot CPU: %d\n", h.BootCpuidPhys)
	printInfo("  Structure block: %d bytes at %#x\n", h.StructSize, h.StructOffset)
	printInfo("  Strings block: %d bytes at %#x\n", h.StringsSize, h.StringsOffset)
	printInfo("  Nodes: %d\n", nodes)
	printInfo("  Memory reservations: %d\n", reservations)

	printInfo("\nValidation:\n")
	printInfo("  Structure valid\n")

	return nil
}
