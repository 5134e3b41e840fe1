package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestReadReserveEntry(t *testing.T) {
	b := make([]byte, 32)
	binary.BigEndian.PutUint64(b[0:], 0x4000_0000)
	binary.BigEndian.PutUint64(b[8:], 0x1_0000)
	e, err := ReadReserveEntry(b, 0)
	if err != nil {
		t.Fatalf("ReadReserveEntry: %v", err)
	}
	if e.Address != 0x4000_0000 || e.Size != 0x1_0000 || e.Zero() {
		t.Fatalf("unexpected entry: %+v", e)
	}
	term, err := ReadReserveEntry(b, 16)
	if err != nil || !term.Zero() {
		t.Fatalf("expected terminator, got %+v %v", term, err)
	}
}

func TestReadReserveEntryTruncated(t *testing.T) {
	b := make([]byte, 20)
	if _, err := ReadReserveEntry(b, 8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
