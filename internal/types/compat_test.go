package types

import "testing"

func TestNumericWideningIsOneWay(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	forward := [][2]TypeID{
		{b.I32, b.I64},
		{b.I32, b.F64},
		{b.I64, b.F64},
		{b.F32, b.F64},
	}
	for _, pair := range forward {
		if !in.Compatible(pair[0], pair[1]) {
			t.Fatalf("%v -> %v must widen", in.Kind(pair[0]), in.Kind(pair[1]))
		}
		if in.Compatible(pair[1], pair[0]) {
			t.Fatalf("%v -> %v must not narrow", in.Kind(pair[1]), in.Kind(pair[0]))
		}
	}
	if in.Compatible(b.Bool, b.I32) || in.Compatible(b.I32, b.Bool) {
		t.Fatalf("bool is incompatible with numerics")
	}
}

func TestArrayToSliceCovariance(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	arr := in.MakeArray(b.I32, 4)
	slice := in.MakeSlice(b.I32)
	if !in.Compatible(arr, slice) {
		t.Fatalf("array must decay to slice of same element")
	}
	wide := in.MakeSlice(b.I64)
	if !in.Compatible(arr, wide) {
		t.Fatalf("array-to-slice is covariant in the element type")
	}
	if in.Compatible(slice, arr) {
		t.Fatalf("slice must not silently become an array")
	}
}

func TestOptionalAndErrorUnionAcceptPayload(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	opt := in.MakeOptional(b.I64)
	if !in.Compatible(b.I32, opt) {
		t.Fatalf("i32 must flow into ?i64 via widening")
	}
	eu := in.MakeErrorUnion(b.String)
	if !in.Compatible(b.String, eu) {
		t.Fatalf("string must flow into !string")
	}
}

func TestTensorCompatibility(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	t1 := in.MakeTensor(b.F32, []uint32{8, 16}, SpaceDevice)
	t2 := in.MakeTensor(b.F64, []uint32{8, 16}, SpaceDevice)
	if !in.Compatible(t1, t2) {
		t.Fatalf("tensor element widening with equal dims/space must hold")
	}
	t3 := in.MakeTensor(b.F32, []uint32{8, 16}, SpaceHost)
	if in.Compatible(t1, t3) {
		t.Fatalf("different memory spaces are incompatible")
	}
	t4 := in.MakeTensor(b.F32, []uint32{16, 8}, SpaceDevice)
	if in.Compatible(t1, t4) {
		t.Fatalf("different dims are incompatible")
	}
}

func TestNeverFlowsAnywhere(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.Compatible(b.Never, b.I32) || !in.Compatible(b.Never, b.String) {
		t.Fatalf("never must coerce to any type")
	}
}
