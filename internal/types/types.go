package types

import "fmt"

// TypeID uniquely identifies a canonical type inside the interner. Two
// structurally identical descriptors always resolve to the same TypeID.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota

	// primitives
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindString
	KindVoid
	KindNever

	// composites
	KindPointer
	KindArray
	KindSlice
	KindRange
	KindFunction
	KindStruct
	KindEnum
	KindOptional
	KindErrorUnion
	KindGeneric
	KindTensor
	KindAllocator
	KindCtxBound

	// KindInferVar is a placeholder resolved during constraint solving.
	KindInferVar
)

func (k Kind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindNever:
		return "never"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindRange:
		return "range"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindErrorUnion:
		return "error_union"
	case KindGeneric:
		return "generic"
	case KindTensor:
		return "tensor"
	case KindAllocator:
		return "allocator"
	case KindCtxBound:
		return "ctx_bound"
	case KindInferVar:
		return "infer_var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether the kind is one of the eight builtins.
func (k Kind) IsPrimitive() bool {
	return k >= KindI32 && k <= KindNever
}

// IsNumeric reports whether the kind participates in arithmetic.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindI32, KindI64, KindF32, KindF64:
		return true
	}
	return false
}

// IsComparable reports whether the kind supports ordering comparisons.
func (k Kind) IsComparable() bool {
	return k.IsNumeric() || k == KindString || k == KindBool
}

// Type is a compact descriptor for any supported type.
//
// Elem and Count carry the kind-specific scalar shape (element type, array
// length, inference-variable index, range inclusivity). Extra indexes the
// kind's side arena (FnInfo, StructInfo, EnumInfo, TensorInfo, GenericInfo)
// and never participates in structural identity; the payload it points at
// does.
type Type struct {
	Kind  Kind
	Size  uint32
	Align uint32
	Elem  TypeID
	Count uint32
	Extra uint32
}
