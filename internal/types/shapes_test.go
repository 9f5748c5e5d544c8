package types

import (
	"errors"
	"testing"
)

func TestIsBroadcastable(t *testing.T) {
	cases := []struct {
		a, b []uint32
		want bool
	}{
		{[]uint32{8, 1, 32}, []uint32{1, 16, 32}, true},
		{[]uint32{7, 16, 33}, []uint32{8, 16, 32}, false},
		{[]uint32{16, 32}, []uint32{8, 16, 32}, true},
		{[]uint32{}, []uint32{4, 4}, true},
		{[]uint32{3}, []uint32{4}, false},
	}
	for _, c := range cases {
		if got := IsBroadcastable(c.a, c.b); got != c.want {
			t.Fatalf("IsBroadcastable(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestBroadcastShape(t *testing.T) {
	got, err := BroadcastShape([]uint32{8, 1, 32}, []uint32{1, 16, 32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ShapesEqual(got, []uint32{8, 16, 32}) {
		t.Fatalf("broadcast result mismatch: %v", got)
	}

	if _, err := BroadcastShape([]uint32{7, 16, 33}, []uint32{8, 16, 32}); !errors.Is(err, ErrIncompatibleShapes) {
		t.Fatalf("expected ErrIncompatibleShapes, got %v", err)
	}
}

func TestBroadcastShapeDifferentRanks(t *testing.T) {
	got, err := BroadcastShape([]uint32{16, 1}, []uint32{8, 1, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ShapesEqual(got, []uint32{8, 16, 4}) {
		t.Fatalf("rank extension mismatch: %v", got)
	}
}

func TestShapeDivisibleBy(t *testing.T) {
	ok, err := ShapeDivisibleBy([]uint32{8, 16}, []uint32{4, 4})
	if err != nil || !ok {
		t.Fatalf("8x16 must tile by 4x4: ok=%v err=%v", ok, err)
	}
	ok, err = ShapeDivisibleBy([]uint32{8, 18}, []uint32{4, 4})
	if err != nil || ok {
		t.Fatalf("18 is not divisible by 4: ok=%v err=%v", ok, err)
	}
	if _, err := ShapeDivisibleBy([]uint32{8}, []uint32{0}); err == nil {
		t.Fatalf("zero tile must error, not divide")
	}
	if _, err := ShapeDivisibleBy([]uint32{8, 8}, []uint32{4}); err == nil {
		t.Fatalf("rank mismatch must error")
	}
}
