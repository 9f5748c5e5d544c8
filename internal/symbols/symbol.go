package symbols

import (
	"janus/internal/ast"
	"janus/internal/source"
	"janus/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolParam
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "variable"
	case SymbolParam:
		return "parameter"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagPublic SymbolFlags = 1 << iota
	SymbolFlagMutable
	// SymbolFlagInitialized is seeded at declaration time (an initializer was
	// present) and flipped by assignments during definite-assignment analysis.
	SymbolFlagInitialized
)

// Strings returns textual flag labels for debug output.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&SymbolFlagMutable != 0 {
		labels = append(labels, "mutable")
	}
	if f&SymbolFlagInitialized != 0 {
		labels = append(labels, "initialized")
	}
	return labels
}

// Visibility renders the human-facing visibility label.
func (f SymbolFlags) Visibility() string {
	if f&SymbolFlagPublic != 0 {
		return "public"
	}
	return "private"
}

// Symbol describes a named entity available in a scope. Type starts as
// NoTypeID (or one shared inference variable) and is filled in once
// inference concludes.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Type  types.TypeID
	Decl  ast.NodeID
}

// Initialized reports the definite-assignment state.
func (s *Symbol) Initialized() bool {
	return s.Flags&SymbolFlagInitialized != 0
}

// MarkInitialized flips the definite-assignment flag.
func (s *Symbol) MarkInitialized() {
	s.Flags |= SymbolFlagInitialized
}

// Mutable reports whether the symbol can be reassigned.
func (s *Symbol) Mutable() bool {
	return s.Flags&SymbolFlagMutable != 0
}
