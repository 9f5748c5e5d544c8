package symbols

import (
	"janus/internal/ast"
	"janus/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeUnit               // root scope of a compilation unit
	ScopeFunction           // function body scope
	ScopeBlock              // generic block scope
	ScopeMatchArm           // bindings introduced by a match arm pattern
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUnit:
		return "unit"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeMatchArm:
		return "match_arm"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope in a parent-linked tree. Names are unique
// within one scope; nested scopes may shadow outer ones.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ast.NodeID
	Span      source.Span
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
