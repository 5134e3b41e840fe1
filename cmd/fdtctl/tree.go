package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fdtkit/fdtkit/pkg/fdt"
)

var (
	treeDepth int
	treeProps bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeProps, "props", false, "Show properties too")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <dtb> [path]",
		Short: "Display the node hierarchy",
		Long: `The tree command displays the node hierarchy in dts-like form,
optionally starting from a path and limited to a depth.

Example:
  fdtctl tree board.dtb
  fdtctl tree board.dtb /soc --depth 2
  fdtctl tree board.dtb --props`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

func runTree(args []string) error {
	tree, err := fdt.OpenFile(args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer tree.Close()

	start := "/"
	if len(args) == 2 {
		start = args[1]
	}
	node, err := tree.FindNode(start)
	if err != nil {
		return err
	}
	return printNode(node, 0)
}

func printNode(node fdt.Node, level int) error {
	indent := strings.Repeat("    ", level)
	name := node.Name()
	if name == "" {
		name = "/"
	}
	printInfo("%s%s {\n", indent, name)

	if treeProps {
		props := node.Properties()
		for props.Next() {
			p := props.Property()
			if p.Len() == 0 {
				printInfo("%s    %s;\n", indent, p.Name())
				continue
			}
			printInfo("%s    %s = %s;\n", indent, p.Name(), formatValue(p.Raw()))
		}
		if err := props.Err(); err != nil {
			return err
		}
	}

	if treeDepth == 0 || level+1 < treeDepth {
		children := node.Children()
		for children.Next() {
			if err := printNode(children.Node(), level+1); err != nil {
				return err
			}
		}
		if err := children.Err(); err != nil {
			return err
		}
	}

	printInfo("%s};\n", indent)
	return nil
}
