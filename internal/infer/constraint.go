// Package infer implements constraint-based type inference: a single
// recursive descent over a unit generates constraints, a fixpoint solver
// consumes them destructively, and an assignment phase writes resolved types
// back onto nodes and symbols.
package infer

import (
	"janus/internal/source"
	"janus/internal/types"
)

// ConstraintKind discriminates the constraint variant.
type ConstraintKind uint8

const (
	ConInvalid ConstraintKind = iota
	// ConEquality requires both sides to unify.
	ConEquality
	// ConSubtype requires Left to be usable where Right is expected.
	ConSubtype
	// ConCall destructures Left as a function type: Args against parameters,
	// Result against the declared result.
	ConCall
	// ConIndex destructures Left as an indexable type; Args[0] is the index,
	// Result the element.
	ConIndex
	// ConField projects the named field out of Left into Result.
	ConField
	// ConNumeric requires Left to be an arithmetic type.
	ConNumeric
	// ConComparable requires Left to support ordering.
	ConComparable
	// ConIterable destructures Left as something a for loop can walk,
	// unifying the element type into Result.
	ConIterable
)

func (k ConstraintKind) String() string {
	switch k {
	case ConEquality:
		return "equality"
	case ConSubtype:
		return "subtype"
	case ConCall:
		return "call"
	case ConIndex:
		return "index"
	case ConField:
		return "field"
	case ConNumeric:
		return "numeric"
	case ConComparable:
		return "comparable"
	case ConIterable:
		return "iterable"
	default:
		return "invalid"
	}
}

// Constraint is one obligation produced during generation. Left is the
// principal type; the other fields are kind-specific. Constraints are
// transient: the solver removes them as they resolve or fail.
type Constraint struct {
	Kind   ConstraintKind
	Left   types.TypeID
	Right  types.TypeID
	Args   []types.TypeID
	Result types.TypeID
	Name   source.StringID
	Span   source.Span
	// Exact forbids widening between two concrete sides; range bounds use it.
	Exact bool
}
