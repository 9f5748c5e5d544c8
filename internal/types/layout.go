package types

// Size and alignment are derived from structure at commit time. Targets are
// 64-bit; the backend re-checks layout during lowering, these values feed
// compatibility rules and diagnostics only.

const (
	wordSize  = 8
	wordAlign = 8
)

func (in *Interner) layoutOf(c candidate) (size, align uint32) {
	t := c.t
	switch t.Kind {
	case KindI32, KindF32:
		return 4, 4
	case KindI64, KindF64:
		return 8, 8
	case KindBool:
		return 1, 1
	case KindString, KindSlice:
		// pointer + length
		return 2 * wordSize, wordAlign
	case KindVoid, KindNever, KindInferVar:
		return 0, 1
	case KindPointer, KindFunction, KindGeneric:
		return wordSize, wordAlign
	case KindArray:
		es, ea := in.layoutOfID(t.Elem)
		return es * t.Count, ea
	case KindRange:
		es, ea := in.layoutOfID(t.Elem)
		return 2 * es, ea
	case KindOptional:
		es, ea := in.layoutOfID(t.Elem)
		return roundUp(es+1, ea), ea
	case KindErrorUnion:
		es, ea := in.layoutOfID(t.Elem)
		if ea < 4 {
			ea = 4
		}
		// payload + u32 error code
		return roundUp(es+4, ea), ea
	case KindStruct:
		return in.structLayout(c.st)
	case KindEnum:
		return 4, 4
	case KindTensor:
		// data pointer + rank + dim table pointer
		return 3 * wordSize, wordAlign
	case KindAllocator:
		// vtable + state
		return 2 * wordSize, wordAlign
	case KindCtxBound:
		return in.layoutOfID(t.Elem)
	default:
		return 0, 1
	}
}

func (in *Interner) layoutOfID(id TypeID) (size, align uint32) {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0, 1
	}
	return tt.Size, tt.Align
}

func (in *Interner) structLayout(info *StructInfo) (size, align uint32) {
	if info == nil {
		return 0, 1
	}
	var offset, maxAlign uint32 = 0, 1
	for _, f := range info.Fields {
		fs, fa := in.layoutOfID(f.Type)
		if fa > maxAlign {
			maxAlign = fa
		}
		offset = roundUp(offset, fa) + fs
	}
	return roundUp(offset, maxAlign), maxAlign
}

func roundUp(n, align uint32) uint32 {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}
