package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

// sb builds a structure block from token words and raw payload chunks.
type sb struct {
	b []byte
}

func (s *sb) word(v uint32) *sb {
	var w [4]byte
	binary.BigEndian.PutUint32(w[:], v)
	s.b = append(s.b, w[:]...)
	return s
}

func (s *sb) begin(name string) *sb {
	s.word(TokenBeginNode)
	s.b = append(s.b, name...)
	s.b = append(s.b, 0)
	for len(s.b)%4 != 0 {
		s.b = append(s.b, 0)
	}
	return s
}

func (s *sb) prop(nameOff uint32, value []byte) *sb {
	s.word(TokenProp).word(uint32(len(value))).word(nameOff)
	s.b = append(s.b, value...)
	for len(s.b)%4 != 0 {
		s.b = append(s.b, 0)
	}
	return s
}

func (s *sb) end() *sb { return s.word(TokenEndNode) }
func (s *sb) fin() *sb { return s.word(TokenEnd) }
func (s *sb) nop() *sb { return s.word(TokenNop) }

func TestScannerMinimalTree(t *testing.T) {
	var b sb
	b.begin("").prop(0, []byte("hello\x00")).begin("child@0").end().end().fin()

	s := NewScanner(b.b, 0)
	ev, err := s.Next()
	if err != nil || ev.Token != TokenBeginNode || len(ev.Name) != 0 {
		t.Fatalf("root begin: %+v %v", ev, err)
	}
	ev, err = s.Next()
	if err != nil || ev.Token != TokenProp || string(ev.Value) != "hello\x00" {
		t.Fatalf("prop: %+v %v", ev, err)
	}
	ev, err = s.Next()
	if err != nil || ev.Token != TokenBeginNode || string(ev.Name) != "child@0" {
		t.Fatalf("child begin: %+v %v", ev, err)
	}
	for _, want := range []uint32{TokenEndNode, TokenEndNode, TokenEnd} {
		ev, err = s.Next()
		if err != nil || ev.Token != want {
			t.Fatalf("want token %#x, got %+v %v", want, ev, err)
		}
	}
	if s.Offset() != len(b.b) {
		t.Fatalf("scanner did not consume block: %d != %d", s.Offset(), len(b.b))
	}
}

func TestScannerSkipsNops(t *testing.T) {
	var b sb
	b.nop().nop().begin("").nop().end().fin()
	s := NewScanner(b.b, 0)
	ev, err := s.Next()
	if err != nil || ev.Token != TokenBeginNode {
		t.Fatalf("expected begin after nops: %+v %v", ev, err)
	}
	ev, err = s.Next()
	if err != nil || ev.Token != TokenEndNode {
		t.Fatalf("expected end after nop: %+v %v", ev, err)
	}
}

func TestScannerUnknownToken(t *testing.T) {
	var b sb
	b.word(0x7)
	s := NewScanner(b.b, 0)
	if _, err := s.Next(); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestScannerMissingEnd(t *testing.T) {
	var b sb
	b.begin("").end()
	s := NewScanner(b.b, 0)
	s.Next() // begin
	s.Next() // end node
	if _, err := s.Next(); !errors.Is(err, ErrMalformedStructure) {
		t.Fatalf("expected ErrMalformedStructure, got %v", err)
	}
}

func TestScannerTruncatedProp(t *testing.T) {
	var b sb
	b.word(TokenProp).word(64).word(0) // claims 64 value bytes, has none
	s := NewScanner(b.b, 0)
	if _, err := s.Next(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestScannerUnterminatedName(t *testing.T) {
	var b sb
	b.word(TokenBeginNode)
	b.b = append(b.b, 'c', 'p', 'u', 's') // no NUL before block end
	s := NewScanner(b.b, 0)
	if _, err := s.Next(); !errors.Is(err, ErrInvalidString) {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}

func TestScannerInvalidUTF8Name(t *testing.T) {
	var b sb
	b.word(TokenBeginNode)
	b.b = append(b.b, 0xff, 0xfe, 0x00, 0x00)
	s := NewScanner(b.b, 0)
	if _, err := s.Next(); !errors.Is(err, ErrInvalidString) {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}

func TestSkipNode(t *testing.T) {
	var b sb
	b.begin("a").begin("b").prop(0, nil).end().begin("c").end().end().begin("sib").end().fin()
	s := NewScanner(b.b, 0)
	if _, err := s.Next(); err != nil { // consume begin "a"
		t.Fatal(err)
	}
	if err := s.SkipNode(); err != nil {
		t.Fatalf("SkipNode: %v", err)
	}
	ev, err := s.Next()
	if err != nil || ev.Token != TokenBeginNode || string(ev.Name) != "sib" {
		t.Fatalf("expected sibling after skip, got %+v %v", ev, err)
	}
}

func TestSkipNodeUnbalanced(t *testing.T) {
	var b sb
	b.begin("a").fin() // FDT_END before the node closes
	s := NewScanner(b.b, 0)
	s.Next() // begin "a"
	if err := s.SkipNode(); !errors.Is(err, ErrUnbalancedNode) {
		t.Fatalf("expected ErrUnbalancedNode, got %v", err)
	}
}
