package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fdtkit/fdtkit/pkg/fdt"
	"github.com/fdtkit/fdtkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newReserveCmd())
}

func newReserveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reserve <dtb>",
		Short: "List memory reservations",
		Long: `The reserve command lists the memory reservation map: physical regions
the blob tells the operating system to keep out of its allocator.

Example:
  fdtctl reserve board.dtb
  fdtctl reserve board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReserve(args)
		},
	}
	return cmd
}

func runReserve(args []string) error {
	tree, err := fdt.OpenFile(args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer tree.Close()

	var entries []types.ReserveEntry
	it := tree.Reservations()
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	if err := it.Err(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		printInfo("No memory reservations\n")
		return nil
	}
	for _, e := range entries {
		printInfo("%#016x - %#016x (%d bytes)\n", e.Address, e.Address+e.Size-1, e.Size)
	}
	return nil
}
