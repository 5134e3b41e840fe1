package format

import "errors"

var (
	// ErrBadMagic indicates the blob does not start with the FDT signature.
	ErrBadMagic = errors.New("format: bad magic")
	// ErrUnsupportedVersion indicates the blob declares a version outside the supported window.
	ErrUnsupportedVersion = errors.New("format: unsupported version")
	// ErrOutOfBounds indicates a declared offset or size leaves the blob or its containing block.
	ErrOutOfBounds = errors.New("format: out of bounds")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure or terminator.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMalformedStructure indicates a token-stream violation (missing FDT_END, token after FDT_END).
	ErrMalformedStructure = errors.New("format: malformed structure block")
	// ErrUnknownToken indicates a token word outside the defined set.
	ErrUnknownToken = errors.New("format: unknown token")
	// ErrUnbalancedNode indicates mismatched begin/end node tokens.
	ErrUnbalancedNode = errors.New("format: unbalanced node")
	// ErrBadStringOffset indicates a property name offset that does not resolve in the strings block.
	ErrBadStringOffset = errors.New("format: bad string offset")
	// ErrInvalidString indicates non-terminated or non-text bytes where text is required.
	ErrInvalidString = errors.New("format: invalid string")
	// ErrDuplicatePhandle indicates two nodes declare the same phandle value.
	ErrDuplicatePhandle = errors.New("format: duplicate phandle")
	// ErrNotFound indicates a requested node, property, or phandle was missing.
	ErrNotFound = errors.New("format: not found")
)
