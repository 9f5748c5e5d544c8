package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"janus/internal/ast"
	"janus/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas plus the shared string
// interner. One table serves exactly one analysis session.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	root    ScopeID
}

// NewTable builds a fresh table. A nil interner allocates a private one.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
	}
}

// UnitRoot returns (creating on first call) the unit-level root scope.
func (t *Table) UnitRoot(owner ast.NodeID, span source.Span) ScopeID {
	if t.root.IsValid() {
		return t.root
	}
	t.root = t.Scopes.New(ScopeUnit, NoScopeID, owner, span)
	return t.root
}

// LookupLocal checks only the given scope, used to detect duplicates at
// declaration time.
func (t *Table) LookupLocal(scope ScopeID, name source.StringID) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID
	}
	return sc.NameIndex[name]
}

// Resolve walks outward through parent scopes until the name is found or the
// chain is exhausted. A miss returns NoSymbolID; error policy belongs to the
// caller so it can attach suggestions.
func (t *Table) Resolve(scope ScopeID, name source.StringID) SymbolID {
	for scope.IsValid() {
		sc := t.Scopes.Get(scope)
		if sc == nil {
			return NoSymbolID
		}
		if id, ok := sc.NameIndex[name]; ok {
			return id
		}
		scope = sc.Parent
	}
	return NoSymbolID
}

// Validate checks structural invariants: the scope graph must stay a tree
// with consistent parent/child links and acyclic parent chains.
func (t *Table) Validate() error {
	for id := ScopeID(1); int(id) <= t.Scopes.Len(); id++ {
		sc := t.Scopes.Get(id)
		if sc == nil {
			return fmt.Errorf("scope %d missing", id)
		}
		// Parent chains are strictly decreasing because children are always
		// allocated after their parent; anything else is a cycle.
		if sc.Parent.IsValid() && sc.Parent >= id {
			return fmt.Errorf("scope %d has forward parent %d", id, sc.Parent)
		}
		for _, sym := range sc.Symbols {
			rec := t.Symbols.Get(sym)
			if rec == nil {
				return fmt.Errorf("scope %d references missing symbol %d", id, sym)
			}
			if rec.Scope != id {
				return fmt.Errorf("symbol %d back-reference mismatch: %d != %d", sym, rec.Scope, id)
			}
		}
	}
	return nil
}
