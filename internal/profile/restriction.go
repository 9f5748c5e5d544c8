package profile

import "janus/internal/types"

// TypeRestriction is the per-profile envelope enforced independently of the
// feature table, as defense in depth: even if a feature check is missed, a
// restricted primitive or an oversized parameter list still gets flagged.
type TypeRestriction struct {
	Primitives map[types.Kind]bool
	MaxParams  int
	Generics   bool
	Effects    bool
	Actors     bool
}

// AllowsPrimitive reports whether the primitive kind is inside the envelope.
func (tr TypeRestriction) AllowsPrimitive(k types.Kind) bool {
	return tr.Primitives[k]
}

func primitiveSet(kinds ...types.Kind) map[types.Kind]bool {
	m := make(map[types.Kind]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

var restrictions = map[Profile]TypeRestriction{
	Core: {
		Primitives: primitiveSet(types.KindI32, types.KindI64, types.KindF64,
			types.KindBool, types.KindString, types.KindVoid),
		MaxParams: 4,
	},
	Service: {
		Primitives: primitiveSet(types.KindI32, types.KindI64, types.KindF32, types.KindF64,
			types.KindBool, types.KindString, types.KindVoid, types.KindNever),
		MaxParams: 8,
	},
	Cluster: {
		Primitives: primitiveSet(types.KindI32, types.KindI64, types.KindF32, types.KindF64,
			types.KindBool, types.KindString, types.KindVoid, types.KindNever),
		MaxParams: 16,
		Generics:  true,
	},
	Compute: {
		Primitives: primitiveSet(types.KindI32, types.KindI64, types.KindF32, types.KindF64,
			types.KindBool, types.KindString, types.KindVoid, types.KindNever),
		MaxParams: 16,
		Generics:  true,
	},
	Sovereign: {
		Primitives: primitiveSet(types.KindI32, types.KindI64, types.KindF32, types.KindF64,
			types.KindBool, types.KindString, types.KindVoid, types.KindNever),
		MaxParams: 32,
		Generics:  true,
		Effects:   true,
		Actors:    true,
	},
}

// Restriction returns the envelope for p.
func Restriction(p Profile) TypeRestriction {
	if r, ok := restrictions[p]; ok {
		return r
	}
	return restrictions[Sovereign]
}
