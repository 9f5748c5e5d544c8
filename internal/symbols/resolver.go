package symbols

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/source"
)

// Resolver drives scope management and declaration during the analysis walk.
// Enter and Leave must stay balanced; a mismatch is an internal invariant
// violation and panics rather than producing silently wrong scoping.
type Resolver struct {
	table *Table
	stack []ScopeID
}

// NewResolver wires a resolver to the table's root scope.
func NewResolver(table *Table, root ScopeID) *Resolver {
	r := &Resolver{
		table: table,
		stack: make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// Table returns the underlying table.
func (r *Resolver) Table() *Table { return r.table }

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope, pushes it and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner ast.NodeID, span source.Span) ScopeID {
	scope := r.table.Scopes.New(kind, r.CurrentScope(), owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope, validating against the expected one.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		panic("symbols: Leave on empty scope stack")
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		panic(fmt.Sprintf("symbols: unbalanced Leave: expected scope %d, top is %d", expected, top))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a symbol into the current scope. A name already present
// in the same scope is rejected (shadowing an outer scope is legal and goes
// through without a remark). On conflict the existing symbol is returned so
// the caller can attach its declaration span to the diagnostic.
func (r *Resolver) Declare(sym Symbol) (SymbolID, SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, NoSymbolID, false
	}
	if existing, ok := scope.NameIndex[sym.Name]; ok {
		return NoSymbolID, existing, false
	}
	sym.Scope = scopeID
	id := r.table.Symbols.New(&sym)
	scope.NameIndex[sym.Name] = id
	scope.Symbols = append(scope.Symbols, id)
	return id, NoSymbolID, true
}

// LookupLocal checks only the current scope.
func (r *Resolver) LookupLocal(name source.StringID) SymbolID {
	return r.table.LookupLocal(r.CurrentScope(), name)
}

// Resolve walks outward from the current scope.
func (r *Resolver) Resolve(name source.StringID) SymbolID {
	return r.table.Resolve(r.CurrentScope(), name)
}

// Depth reports the current nesting depth (root included).
func (r *Resolver) Depth() int { return len(r.stack) }
