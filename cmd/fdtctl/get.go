package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fdtkit/fdtkit/pkg/fdt"
)

var getRaw bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getRaw, "raw", false, "Write the raw value bytes to stdout")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <dtb> <path> [property]",
		Short: "Read a node or property",
		Long: `The get command reads one property of a node, or lists the node's
properties when no property name is given. Paths may use alias shorthands
declared under /aliases.

Example:
  fdtctl get board.dtb /chosen bootargs
  fdtctl get board.dtb serial0 compatible
  fdtctl get board.dtb /memory@80000000`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	tree, err := fdt.OpenFile(args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer tree.Close()

	node, err := tree.FindNode(args[1])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		it := node.Properties()
		for it.Next() {
			printInfo("%s\n", it.Property().Name())
		}
		return it.Err()
	}

	p, err := node.Property(args[2])
	if err != nil {
		return err
	}
	if getRaw {
		_, err := os.Stdout.Write(p.Raw())
		return err
	}
	if jsonOut {
		return printJSON(map[string]interface{}{
			"name":  p.Name(),
			"bytes": p.Len(),
			"value": formatValue(p.Raw()),
		})
	}
	printInfo("%s\n", formatValue(p.Raw()))
	return nil
}
