package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fdtkit/fdtkit/pkg/fdt"
)

func init() {
	rootCmd.AddCommand(newCompatibleCmd())
}

func newCompatibleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compatible <dtb> <match>",
		Short: "Find nodes by compatible string",
		Long: `The compatible command lists the paths of every node whose compatible
property contains the given match string, in document order.

Example:
  fdtctl compatible board.dtb ns16550a
  fdtctl compatible board.dtb simple-bus --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompatible(args)
		},
	}
	return cmd
}

func runCompatible(args []string) error {
	tree, err := fdt.OpenFile(args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer tree.Close()

	var paths []string
	it := tree.FindByCompatible(args[1])
	for it.Next() {
		path, err := it.Node().Path()
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	if err := it.Err(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(paths)
	}
	if len(paths) == 0 {
		printInfo("No nodes compatible with %q\n", args[1])
		return nil
	}
	for _, p := range paths {
		printInfo("%s\n", p)
	}
	return nil
}
