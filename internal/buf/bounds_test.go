package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	cases := []struct {
		a, b int
		want int
		ok   bool
	}{
		{1, 2, 3, true},
		{0, 0, 0, true},
		{math.MaxInt, 1, 0, false},
		{math.MinInt, -1, 0, false},
		{math.MaxInt - 1, 1, math.MaxInt, true},
	}
	for _, c := range cases {
		got, ok := AddOverflowSafe(c.a, c.b)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("AddOverflowSafe(%d, %d) = (%d, %v), want (%d, %v)", c.a, c.b, got, ok, c.want, c.ok)
		}
	}
}

func TestSlice(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	if s, ok := Slice(b, 1, 2); !ok || len(s) != 2 || s[0] != 2 {
		t.Fatalf("Slice(1,2) = %v, %v", s, ok)
	}
	if _, ok := Slice(b, 3, 2); ok {
		t.Fatalf("expected out-of-bounds slice to fail")
	}
	if _, ok := Slice(b, -1, 1); ok {
		t.Fatalf("expected negative offset to fail")
	}
	if _, ok := Slice(b, 0, math.MaxInt); ok {
		t.Fatalf("expected oversized length to fail")
	}
	if s, ok := Slice(b, 4, 0); !ok || len(s) != 0 {
		t.Fatalf("empty tail slice should be valid")
	}
}
