package format

import "testing"

func TestAlign4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 8: 8}
	for in, want := range cases {
		if got := Align4(in); got != want {
			t.Errorf("Align4(%d) = %d, want %d", in, got, want)
		}
	}
}
