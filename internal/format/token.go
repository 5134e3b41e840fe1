package format

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/fdtkit/fdtkit/internal/buf"
)

// Event is one decoded token of the structure block.
type Event struct {
	Token  uint32
	Offset int // offset of the token word within the structure block

	// Name is the node name for TokenBeginNode (without the terminator,
	// empty for the root node). Borrowed from the blob.
	Name []byte

	// NameOff and Value are set for TokenProp. Value is borrowed from the
	// blob and may be empty.
	NameOff uint32
	Value   []byte
}

// Scanner steps through the structure block one token at a time. It is a
// value type; copying a Scanner snapshots the position, which is how
// traversals restart iteration without any shared state.
//
// The scanner is purely lexical: it decodes token payloads and advances
// across alignment padding, but leaves depth accounting and post-FDT_END
// policy to the caller, since property iteration, child iteration, and full
// validation each track depth differently.
type Scanner struct {
	data []byte
	off  int
}

// NewScanner returns a Scanner over the structure block, positioned at off.
func NewScanner(structBlock []byte, off int) Scanner {
	return Scanner{data: structBlock, off: off}
}

// Offset returns the offset of the next token word.
func (s *Scanner) Offset() int { return s.off }

// Next decodes the token at the current position and advances past it,
// including alignment padding. FDT_NOP tokens are skipped transparently.
// Reaching the end of the block without FDT_END is a malformed structure.
func (s *Scanner) Next() (Event, error) {
	for {
		if s.off >= len(s.data) {
			return Event{}, fmt.Errorf("structure block ended without FDT_END: %w", ErrMalformedStructure)
		}
		tok, ok := buf.U32BEAt(s.data, s.off)
		if !ok {
			return Event{}, fmt.Errorf("token at %#x: %w", s.off, ErrMalformedStructure)
		}
		ev := Event{Token: tok, Offset: s.off}
		switch tok {
		case TokenNop:
			s.off += TokenSize
			continue
		case TokenBeginNode:
			name, err := s.nodeName(s.off + TokenSize)
			if err != nil {
				return Event{}, err
			}
			ev.Name = name
			s.off = Align4(s.off + TokenSize + len(name) + 1)
			return ev, nil
		case TokenProp:
			length, ok := buf.U32BEAt(s.data, s.off+TokenSize)
			if !ok {
				return Event{}, fmt.Errorf("prop header at %#x: %w", s.off, ErrTruncated)
			}
			nameOff, _ := buf.U32BEAt(s.data, s.off+TokenSize+4)
			value, ok := buf.Slice(s.data, s.off+TokenSize+PropHeaderSize, int(length))
			if !ok {
				return Event{}, fmt.Errorf("prop value at %#x (%d bytes): %w", s.off, length, ErrTruncated)
			}
			ev.NameOff = nameOff
			ev.Value = value
			s.off = Align4(s.off + TokenSize + PropHeaderSize + int(length))
			return ev, nil
		case TokenEndNode, TokenEnd:
			s.off += TokenSize
			return ev, nil
		default:
			return Event{}, fmt.Errorf("token %#x at offset %#x: %w", tok, s.off, ErrUnknownToken)
		}
	}
}

// nodeName reads the null-terminated node name starting at off.
func (s *Scanner) nodeName(off int) ([]byte, error) {
	if off > len(s.data) {
		return nil, fmt.Errorf("node name at %#x: %w", off, ErrTruncated)
	}
	end := bytes.IndexByte(s.data[off:], 0)
	if end < 0 {
		return nil, fmt.Errorf("node name at %#x unterminated: %w", off, ErrInvalidString)
	}
	name := s.data[off : off+end]
	if !utf8.Valid(name) {
		return nil, fmt.Errorf("node name at %#x not valid text: %w", off, ErrInvalidString)
	}
	return name, nil
}

// SkipNode advances the scanner past the remainder of the current node's
// body, assuming the matching FDT_BEGIN_NODE has already been consumed.
// On return the scanner sits just after the node's FDT_END_NODE.
func (s *Scanner) SkipNode() error {
	depth := 1
	for depth > 0 {
		ev, err := s.Next()
		if err != nil {
			return err
		}
		switch ev.Token {
		case TokenBeginNode:
			depth++
		case TokenEndNode:
			depth--
		case TokenEnd:
			return fmt.Errorf("FDT_END inside node body at %#x: %w", ev.Offset, ErrUnbalancedNode)
		}
	}
	return nil
}
