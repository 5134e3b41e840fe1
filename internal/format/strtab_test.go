package format

import (
	"errors"
	"testing"
)

func TestLookupString(t *testing.T) {
	strs := []byte("compatible\x00#address-cells\x00")
	name, err := LookupString(strs, 0)
	if err != nil || string(name) != "compatible" {
		t.Fatalf("LookupString(0) = %q, %v", name, err)
	}
	name, err = LookupString(strs, 11)
	if err != nil || string(name) != "#address-cells" {
		t.Fatalf("LookupString(11) = %q, %v", name, err)
	}
}

func TestLookupStringBadOffset(t *testing.T) {
	strs := []byte("reg\x00")
	if _, err := LookupString(strs, 4); !errors.Is(err, ErrBadStringOffset) {
		t.Fatalf("expected ErrBadStringOffset, got %v", err)
	}
	if _, err := LookupString(nil, 0); !errors.Is(err, ErrBadStringOffset) {
		t.Fatalf("expected ErrBadStringOffset for empty block, got %v", err)
	}
}

func TestLookupStringUnterminated(t *testing.T) {
	strs := []byte("reg") // no NUL in range
	if _, err := LookupString(strs, 0); !errors.Is(err, ErrInvalidString) {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}

func TestLookupStringNonText(t *testing.T) {
	strs := []byte{0xff, 0xfe, 0x00}
	if _, err := LookupString(strs, 0); !errors.Is(err, ErrInvalidString) {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}
