package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "fdtctl",
	Short: "Inspect flattened device tree (DTB) files",
	Long: `fdtctl is a tool for inspecting flattened device tree blobs: the
binary .dtb files firmware hands to operating systems. It validates blob
structure and prints headers, memory reservations, nodes, and properties.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatValue renders a property value the way dtc would: quoted strings
// when the bytes look like text, cell lists otherwise, raw hex as the
// fallback for ragged lengths.
func formatValue(value []byte) string {
	if len(value) == 0 {
		return "(empty)"
	}
	if s, ok := asStringList(value); ok {
		return s
	}
	if len(value)%4 == 0 {
		var b strings.Builder
		b.WriteByte('<')
		for i := 0; i < len(value); i += 4 {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "0x%02x%02x%02x%02x", value[i], value[i+1], value[i+2], value[i+3])
		}
		b.WriteByte('>')
		return b.String()
	}
	return fmt.Sprintf("[% x]", value)
}

// asStringList reports the dtc-style rendering of a value that parses as
// one or more printable null-terminated strings.
func asStringList(value []byte) (string, bool) {
	if value[len(value)-1] != 0 {
		return "", false
	}
	var parts []string
	rest := value
	for len(rest) > 0 {
		end := 0
		for end < len(rest) && rest[end] != 0 {
			end++
		}
		s := string(rest[:end])
		if end == 0 && len(parts) == 0 {
			return "", false
		}
		if !utf8.ValidString(s) || strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
			return "", false
		}
		parts = append(parts, fmt.Sprintf("%q", s))
		rest = rest[end+1:]
	}
	return strings.Join(parts, ", "), true
}
