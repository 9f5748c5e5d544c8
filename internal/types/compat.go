package types

// Compatible reports whether a value of type src can be used where dst is
// expected. Identity is the fast path; everything else is kind-specific.
// Numeric widening is one-directional: i32→i64, i32→f64, i64→f64, f32→f64.
func (in *Interner) Compatible(src, dst TypeID) bool {
	if src == dst {
		return src != NoTypeID
	}
	st, okS := in.Lookup(src)
	dt, okD := in.Lookup(dst)
	if !okS || !okD {
		return false
	}

	// never coerces to anything: it has no values.
	if st.Kind == KindNever {
		return true
	}

	if st.Kind.IsNumeric() && dt.Kind.IsNumeric() {
		return canWiden(st.Kind, dt.Kind)
	}

	switch dt.Kind {
	case KindSlice:
		// Array-to-slice decay, covariant in the element type.
		if st.Kind == KindArray || st.Kind == KindSlice {
			return in.Compatible(st.Elem, dt.Elem)
		}
	case KindOptional:
		// T flows into ?T.
		return in.Compatible(src, dt.Elem)
	case KindErrorUnion:
		// T flows into !T.
		return in.Compatible(src, dt.Elem)
	case KindTensor:
		if st.Kind != KindTensor {
			return false
		}
		si, okSI := in.TensorInfo(src)
		di, okDI := in.TensorInfo(dst)
		if !okSI || !okDI {
			return false
		}
		return si.Space == di.Space &&
			dimsEqual(si.Dims, di.Dims) &&
			in.Compatible(si.Elem, di.Elem)
	case KindCtxBound:
		if st.Kind == KindCtxBound {
			return in.Compatible(st.Elem, dt.Elem)
		}
	}
	return false
}

// canWiden encodes the strict numeric preorder.
func canWiden(src, dst Kind) bool {
	switch src {
	case KindI32:
		return dst == KindI64 || dst == KindF64
	case KindI64:
		return dst == KindF64
	case KindF32:
		return dst == KindF64
	}
	return false
}

// Numeric reports whether id is an arithmetic type.
func (in *Interner) Numeric(id TypeID) bool {
	return in.Kind(id).IsNumeric()
}

// Comparable reports whether id supports comparison operators.
func (in *Interner) Comparable(id TypeID) bool {
	return in.Kind(id).IsComparable()
}
