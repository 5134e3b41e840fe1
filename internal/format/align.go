package format

// Alignment utilities for the FDT structure block. Every token starts on a
// 4-byte boundary; variable-length payloads (node names, property values)
// are followed by padding up to the next boundary.

// Align4 returns n aligned up to the next 4-byte boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + TokenSize - 1) &^ (TokenSize - 1)
}
