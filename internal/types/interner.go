package types

import (
	"fmt"

	"fortio.org/safecast"

	"janus/internal/source"
)

// Builtins stores TypeIDs for the eight primitive types.
type Builtins struct {
	Invalid TypeID
	I32     TypeID
	I64     TypeID
	F32     TypeID
	F64     TypeID
	Bool    TypeID
	String  TypeID
	Void    TypeID
	Never   TypeID
}

// Interner provides stable, canonical TypeIDs by hashing structural
// descriptors. Composite creation is build-then-intern: the caller's
// descriptor and payload are only committed into the arenas after the hash
// probe misses; on a hit the candidate is discarded and the existing ID
// returned. That keeps type creation O(1) amortized even under heavy
// synthetic-type generation, where a linear scan over all registered types
// would degrade to O(n) per lookup.
type Interner struct {
	types   []Type
	buckets map[uint64][]TypeID

	builtins Builtins
	prims    [8]TypeID

	fns      []FnInfo
	structs  []StructInfo
	enums    []EnumInfo
	tensors  []TensorInfo
	generics []GenericInfo

	inferCount uint32
}

// NewInterner constructs an interner seeded with the primitive cache.
func NewInterner() *Interner {
	in := &Interner{
		types:   make([]Type, 1, 128), // index 0 reserved for NoTypeID
		buckets: make(map[uint64][]TypeID, 128),
	}
	in.builtins.Invalid = NoTypeID
	in.builtins.I32 = in.internPrim(KindI32)
	in.builtins.I64 = in.internPrim(KindI64)
	in.builtins.F32 = in.internPrim(KindF32)
	in.builtins.F64 = in.internPrim(KindF64)
	in.builtins.Bool = in.internPrim(KindBool)
	in.builtins.String = in.internPrim(KindString)
	in.builtins.Void = in.internPrim(KindVoid)
	in.builtins.Never = in.internPrim(KindNever)
	return in
}

// Builtins returns TypeIDs for the primitive types.
func (in *Interner) Builtins() Builtins { return in.builtins }

// Primitive returns the cached TypeID for a primitive kind in O(1).
func (in *Interner) Primitive(kind Kind) TypeID {
	if !kind.IsPrimitive() {
		return NoTypeID
	}
	return in.prims[kind-KindI32]
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind for id, KindInvalid for the sentinel.
func (in *Interner) Kind(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// Len reports registered types excluding the sentinel.
func (in *Interner) Len() int { return len(in.types) - 1 }

// Composite constructors ------------------------------------------------------

// MakePointer creates or finds *T.
func (in *Interner) MakePointer(elem TypeID) TypeID {
	return in.intern(candidate{t: Type{Kind: KindPointer, Elem: elem}})
}

// MakeArray creates or finds [count]T.
func (in *Interner) MakeArray(elem TypeID, count uint32) TypeID {
	return in.intern(candidate{t: Type{Kind: KindArray, Elem: elem, Count: count}})
}

// MakeSlice creates or finds []T.
func (in *Interner) MakeSlice(elem TypeID) TypeID {
	return in.intern(candidate{t: Type{Kind: KindSlice, Elem: elem}})
}

// MakeRange creates or finds a range over elem. Count holds the inclusivity
// bit so `..` and `..=` ranges stay distinct types.
func (in *Interner) MakeRange(elem TypeID, inclusive bool) TypeID {
	count := uint32(0)
	if inclusive {
		count = 1
	}
	return in.intern(candidate{t: Type{Kind: KindRange, Elem: elem, Count: count}})
}

// MakeOptional creates or finds ?T.
func (in *Interner) MakeOptional(elem TypeID) TypeID {
	return in.intern(candidate{t: Type{Kind: KindOptional, Elem: elem}})
}

// MakeErrorUnion creates or finds !T.
func (in *Interner) MakeErrorUnion(elem TypeID) TypeID {
	return in.intern(candidate{t: Type{Kind: KindErrorUnion, Elem: elem}})
}

// MakeAllocator creates or finds the allocator handle type.
func (in *Interner) MakeAllocator() TypeID {
	return in.intern(candidate{t: Type{Kind: KindAllocator}})
}

// MakeCtxBound creates or finds a context-bound wrapper over inner.
func (in *Interner) MakeCtxBound(inner TypeID) TypeID {
	return in.intern(candidate{t: Type{Kind: KindCtxBound, Elem: inner}})
}

// MakeFunction creates or finds fn(params) -> result.
func (in *Interner) MakeFunction(params []TypeID, result TypeID) TypeID {
	return in.intern(candidate{
		t:  Type{Kind: KindFunction},
		fn: &FnInfo{Params: params, Result: result},
	})
}

// MakeStruct creates or finds a struct type with the given name and fields.
func (in *Interner) MakeStruct(name source.StringID, fields []StructField) TypeID {
	return in.intern(candidate{
		t:  Type{Kind: KindStruct},
		st: &StructInfo{Name: name, Fields: fields},
	})
}

// MakeEnum creates or finds an enum type.
func (in *Interner) MakeEnum(name source.StringID, variants []source.StringID) TypeID {
	return in.intern(candidate{
		t:  Type{Kind: KindEnum},
		en: &EnumInfo{Name: name, Variants: variants},
	})
}

// MakeTensor creates or finds tensor<elem, dims> in the given memory space.
func (in *Interner) MakeTensor(elem TypeID, dims []uint32, space MemorySpace) TypeID {
	return in.intern(candidate{
		t:  Type{Kind: KindTensor},
		tn: &TensorInfo{Elem: elem, Dims: dims, Space: space},
	})
}

// MakeGeneric creates or finds an instantiated generic Name<Args>.
func (in *Interner) MakeGeneric(name source.StringID, args []TypeID) TypeID {
	return in.intern(candidate{
		t:   Type{Kind: KindGeneric},
		gen: &GenericInfo{Name: name, Args: args},
	})
}

// NewInferVar allocates a fresh inference variable. Variables are never
// deduplicated: each carries a unique index so two placeholders stay
// distinguishable until solving binds them.
func (in *Interner) NewInferVar() TypeID {
	in.inferCount++
	return in.commit(candidate{t: Type{Kind: KindInferVar, Count: in.inferCount}})
}

// IsInferVar reports whether id is an unsolved placeholder descriptor.
func (in *Interner) IsInferVar(id TypeID) bool {
	return in.Kind(id) == KindInferVar
}

// Payload accessors -----------------------------------------------------------

// FnInfo retrieves function type metadata.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction || int(tt.Extra) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Extra], true
}

// StructInfo retrieves struct type metadata.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || int(tt.Extra) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Extra], true
}

// EnumInfo retrieves enum type metadata.
func (in *Interner) EnumInfo(id TypeID) (*EnumInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindEnum || int(tt.Extra) >= len(in.enums) {
		return nil, false
	}
	return &in.enums[tt.Extra], true
}

// TensorInfo retrieves tensor type metadata.
func (in *Interner) TensorInfo(id TypeID) (*TensorInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTensor || int(tt.Extra) >= len(in.tensors) {
		return nil, false
	}
	return &in.tensors[tt.Extra], true
}

// GenericInfo retrieves generic instantiation metadata.
func (in *Interner) GenericInfo(id TypeID) (*GenericInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGeneric || int(tt.Extra) >= len(in.generics) {
		return nil, false
	}
	return &in.generics[tt.Extra], true
}

// Canonicalization core -------------------------------------------------------

// candidate is a not-yet-committed type description. Payload pointers refer
// to caller-owned data; commit clones them into the arenas, a probe hit
// drops them.
type candidate struct {
	t   Type
	fn  *FnInfo
	st  *StructInfo
	en  *EnumInfo
	tn  *TensorInfo
	gen *GenericInfo
}

func (in *Interner) intern(c candidate) TypeID {
	if c.t.Kind != KindAllocator && c.t.Kind != KindInferVar {
		// Composite over a missing element is itself invalid.
		switch c.t.Kind {
		case KindPointer, KindArray, KindSlice, KindRange, KindOptional, KindErrorUnion, KindCtxBound:
			if c.t.Elem == NoTypeID {
				return NoTypeID
			}
		}
	}
	h := in.hashCandidate(c)
	for _, id := range in.buckets[h] {
		if in.matches(id, c) {
			return id
		}
	}
	id := in.commit(c)
	in.buckets[h] = append(in.buckets[h], id)
	return id
}

func (in *Interner) internPrim(kind Kind) TypeID {
	c := candidate{t: Type{Kind: kind}}
	id := in.commit(c)
	h := in.hashCandidate(c)
	in.buckets[h] = append(in.buckets[h], id)
	in.prims[kind-KindI32] = id
	return id
}

// commit registers the candidate unconditionally: payload first (assigning
// the Extra slot), then the descriptor with its computed layout.
func (in *Interner) commit(c candidate) TypeID {
	switch {
	case c.fn != nil:
		c.t.Extra = in.appendSlot(len(in.fns))
		in.fns = append(in.fns, FnInfo{
			Params: append([]TypeID(nil), c.fn.Params...),
			Result: c.fn.Result,
		})
	case c.st != nil:
		c.t.Extra = in.appendSlot(len(in.structs))
		in.structs = append(in.structs, StructInfo{
			Name:   c.st.Name,
			Fields: append([]StructField(nil), c.st.Fields...),
		})
	case c.en != nil:
		c.t.Extra = in.appendSlot(len(in.enums))
		in.enums = append(in.enums, EnumInfo{
			Name:     c.en.Name,
			Variants: append([]source.StringID(nil), c.en.Variants...),
		})
	case c.tn != nil:
		c.t.Extra = in.appendSlot(len(in.tensors))
		in.tensors = append(in.tensors, TensorInfo{
			Elem:  c.tn.Elem,
			Dims:  append([]uint32(nil), c.tn.Dims...),
			Space: c.tn.Space,
		})
	case c.gen != nil:
		c.t.Extra = in.appendSlot(len(in.generics))
		in.generics = append(in.generics, GenericInfo{
			Name: c.gen.Name,
			Args: append([]TypeID(nil), c.gen.Args...),
		})
	}
	c.t.Size, c.t.Align = in.layoutOf(c)

	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, c.t)
	return id
}

func (in *Interner) appendSlot(n int) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("type payload overflow: %w", err))
	}
	return slot
}

// matches compares an existing type against a candidate structurally. Extra,
// Size and Align are derived and excluded.
func (in *Interner) matches(id TypeID, c candidate) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	if tt.Kind != c.t.Kind || tt.Elem != c.t.Elem || tt.Count != c.t.Count {
		return false
	}
	switch {
	case c.fn != nil:
		info, ok := in.FnInfo(id)
		return ok && info.Result == c.fn.Result && typeIDsEqual(info.Params, c.fn.Params)
	case c.st != nil:
		info, ok := in.StructInfo(id)
		return ok && info.Name == c.st.Name && structFieldsEqual(info.Fields, c.st.Fields)
	case c.en != nil:
		info, ok := in.EnumInfo(id)
		return ok && info.Name == c.en.Name && stringIDsEqual(info.Variants, c.en.Variants)
	case c.tn != nil:
		info, ok := in.TensorInfo(id)
		return ok && info.Elem == c.tn.Elem && info.Space == c.tn.Space && dimsEqual(info.Dims, c.tn.Dims)
	case c.gen != nil:
		info, ok := in.GenericInfo(id)
		return ok && info.Name == c.gen.Name && typeIDsEqual(info.Args, c.gen.Args)
	}
	return true
}

func typeIDsEqual(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func structFieldsEqual(a, b []StructField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringIDsEqual(a, b []source.StringID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dimsEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
