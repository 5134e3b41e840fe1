package format

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// LookupString resolves a property-name offset into the strings block,
// returning the name bytes without the terminator. Every lookup is a fresh
// bounded scan; no table is built, so resolution costs nothing when a blob's
// properties are never visited.
func LookupString(strings []byte, off uint32) ([]byte, error) {
	if int64(off) >= int64(len(strings)) {
		return nil, fmt.Errorf("string offset %d beyond strings block (%d bytes): %w", off, len(strings), ErrBadStringOffset)
	}
	tail := strings[off:]
	end := bytes.IndexByte(tail, 0)
	if end < 0 {
		return nil, fmt.Errorf("string at offset %d: %w", off, ErrInvalidString)
	}
	name := tail[:end]
	if !utf8.Valid(name) {
		return nil, fmt.Errorf("string at offset %d not valid text: %w", off, ErrInvalidString)
	}
	return name, nil
}
