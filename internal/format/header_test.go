package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

// putHeader writes a header describing an empty-but-plausible blob layout:
// reservation map at 0x28, structure block at 0x38, strings block at 0x40.
func putHeader(buf []byte, totalSize uint32) {
	be := binary.BigEndian
	be.PutUint32(buf[MagicOffset:], Magic)
	be.PutUint32(buf[TotalSizeOffset:], totalSize)
	be.PutUint32(buf[OffDtStructOffset:], 0x38)
	be.PutUint32(buf[OffDtStringsOffset:], 0x40)
	be.PutUint32(buf[OffMemRsvmapOffset:], 0x28)
	be.PutUint32(buf[VersionOffset:], 17)
	be.PutUint32(buf[LastCompVersionOffset:], 16)
	be.PutUint32(buf[BootCpuidPhysOffset:], 0)
	be.PutUint32(buf[SizeDtStringsOffset:], 0x8)
	be.PutUint32(buf[SizeDtStructOffset:], 0x8)
}

func TestParseHeader(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x48)
	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.OffDtStruct != 0x38 || h.SizeDtStruct != 0x8 || h.OffDtStrings != 0x40 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if len(h.StructBlock(buf)) != 8 || len(h.StringsBlock(buf)) != 8 {
		t.Fatalf("block slices wrong: %+v", h)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x48)
	buf[0] = 0xde
	if _, err := ParseHeader(buf); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, err := ParseHeader(make([]byte, HeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated")
	}
}

func TestParseHeaderTotalSizeExceedsBuffer(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x100)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short buffer, got %v", err)
	}
}

func TestParseHeaderUnsupportedVersion(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x48)
	binary.BigEndian.PutUint32(buf[LastCompVersionOffset:], SupportedVersion+1)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	putHeader(buf, 0x48)
	binary.BigEndian.PutUint32(buf[VersionOffset:], MinVersion-1)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion for old version, got %v", err)
	}
}

func TestParseHeaderBlockOutOfBounds(t *testing.T) {
	cases := []struct {
		name string
		off  int
		val  uint32
	}{
		{"struct size", SizeDtStructOffset, 0x1000},
		{"strings size", SizeDtStringsOffset, 0x1000},
		{"rsvmap offset", OffMemRsvmapOffset, 0x48},
	}
	for _, c := range cases {
		buf := make([]byte, 0x48)
		putHeader(buf, 0x48)
		binary.BigEndian.PutUint32(buf[c.off:], c.val)
		if _, err := ParseHeader(buf); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds, got %v", c.name, err)
		}
	}
}

func TestParseHeaderV16DerivesStructSize(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x48)
	binary.BigEndian.PutUint32(buf[VersionOffset:], 16)
	// size_dt_struct garbage must be ignored for v16
	binary.BigEndian.PutUint32(buf[SizeDtStructOffset:], 0xffffffff)
	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader v16: %v", err)
	}
	if h.SizeDtStruct != 0x40-0x38 {
		t.Fatalf("derived size_dt_struct = %d", h.SizeDtStruct)
	}
}

func TestParseHeaderMisalignedStruct(t *testing.T) {
	buf := make([]byte, 0x48)
	putHeader(buf, 0x48)
	binary.BigEndian.PutUint32(buf[OffDtStructOffset:], 0x3a)
	binary.BigEndian.PutUint32(buf[SizeDtStructOffset:], 0x4)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrMalformedStructure) {
		t.Fatalf("expected ErrMalformedStructure, got %v", err)
	}
}
