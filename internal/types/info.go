package types

import "janus/internal/source"

// Side arenas for payloads that do not fit the compact Type descriptor. The
// interner owns them; callers get pointers that stay valid for the interner's
// lifetime. Payloads are committed only after the canonical probe misses, so
// a duplicate descriptor never leaks a half-registered buffer.

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// StructField describes a single field inside a struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   source.StringID
	Fields []StructField
}

// FieldType returns the type of the named field, or NoTypeID.
func (si *StructInfo) FieldType(name source.StringID) TypeID {
	for _, f := range si.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return NoTypeID
}

// EnumInfo stores metadata for an enum type.
type EnumInfo struct {
	Name     source.StringID
	Variants []source.StringID
}

// MemorySpace places a tensor in a device memory domain.
type MemorySpace uint8

const (
	SpaceHost MemorySpace = iota
	SpaceDevice
	SpaceShared
)

func (s MemorySpace) String() string {
	switch s {
	case SpaceHost:
		return "host"
	case SpaceDevice:
		return "device"
	case SpaceShared:
		return "shared"
	default:
		return "unknown"
	}
}

// TensorInfo stores metadata for a tensor type.
type TensorInfo struct {
	Elem  TypeID
	Dims  []uint32
	Space MemorySpace
}

// Rank reports the number of tensor dimensions.
func (ti *TensorInfo) Rank() int { return len(ti.Dims) }

// GenericInfo stores metadata for an instantiated generic type.
type GenericInfo struct {
	Name source.StringID
	Args []TypeID
}
