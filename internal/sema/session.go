// Package sema drives semantic analysis for one unit: symbol resolution and
// type inference first, then the validation passes over the typed tree. Each
// session owns its symbol table, type interner and diagnostic bag; nothing is
// shared between units, so sessions are safe to run in parallel.
package sema

import (
	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/infer"
	"janus/internal/profile"
	"janus/internal/source"
	"janus/internal/symbols"
	"janus/internal/types"
)

// Config selects the feature envelope and diagnostic limits for a session.
type Config struct {
	Profile profile.Profile
	NPU     bool
	// MaxDiagnostics caps the bag; 0 takes the default.
	MaxDiagnostics int
}

// Session analyzes exactly one unit and is single-use.
type Session struct {
	unit  *ast.Unit
	names *source.Interner
	cfg   Config

	types *types.Interner
	table *symbols.Table
	bag   *diag.Bag
	res   *infer.Result

	analyzed bool
}

// NewSession prepares a session. names must be the interner the unit's
// tokens were built against.
func NewSession(unit *ast.Unit, names *source.Interner, cfg Config) *Session {
	return &Session{
		unit:  unit,
		names: names,
		cfg:   cfg,
		types: types.NewInterner(),
		table: symbols.NewTable(symbols.Hints{}, names),
		bag:   diag.NewBag(cfg.MaxDiagnostics),
	}
}

// Analyze runs the full pipeline: inference, profile compliance, definite
// assignment, control-flow termination and the residual structural rules.
// Calling it twice is a no-op.
func (s *Session) Analyze() {
	if s.analyzed {
		return
	}
	s.analyzed = true

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: s.bag})

	root := s.table.UnitRoot(s.unit.Root, s.unit.Span(s.unit.Root))
	resolver := symbols.NewResolver(s.table, root)
	s.res = infer.New(s.unit, s.names, s.types, resolver, reporter).Run()

	s.checkProfile(reporter)
	s.checkDefiniteAssignment(reporter)
	s.checkControlFlow(reporter)
	s.checkResidual(reporter)
}

// HasErrors reports whether analysis produced at least one error.
func (s *Session) HasErrors() bool { return s.bag.HasErrors() }

// ErrorCount counts error-severity diagnostics.
func (s *Session) ErrorCount() int { return s.bag.ErrorCount() }

// TakeDiagnostics returns an independently owned, sorted snapshot. Mutating
// the returned slice or its notes never affects the session.
func (s *Session) TakeDiagnostics() []diag.Diagnostic {
	s.bag.Sort()
	return s.bag.Clone()
}

// Types exposes the session's interner for formatting.
func (s *Session) Types() *types.Interner { return s.types }

// Table exposes the symbol table.
func (s *Session) Table() *symbols.Table { return s.table }

// TypeOf returns the resolved type of a node after Analyze.
func (s *Session) TypeOf(id ast.NodeID) types.TypeID {
	if s.res == nil {
		return types.NoTypeID
	}
	return s.res.TypeOf(id)
}

// SymbolOf returns the symbol an identifier or declaration node maps to.
func (s *Session) SymbolOf(id ast.NodeID) symbols.SymbolID {
	if s.res == nil {
		return symbols.NoSymbolID
	}
	return s.res.SymbolOf(id)
}

// Inference exposes the raw inference result for tooling.
func (s *Session) Inference() *infer.Result { return s.res }
