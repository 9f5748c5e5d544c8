package sema

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/symbols"
)

// initState tracks which symbols are definitely initialized at the current
// program point. States fork at branches and merge by intersection, so a
// variable assigned in only one arm of an if stays uninitialized afterwards.
type initState map[symbols.SymbolID]struct{}

func (st initState) clone() initState {
	out := make(initState, len(st))
	for k := range st {
		out[k] = struct{}{}
	}
	return out
}

func (st initState) mark(id symbols.SymbolID) {
	if id.IsValid() {
		st[id] = struct{}{}
	}
}

func (st initState) has(id symbols.SymbolID) bool {
	_, ok := st[id]
	return ok
}

// intersect keeps only the symbols initialized on both paths.
func (st initState) intersect(other initState) initState {
	out := make(initState)
	for k := range st {
		if _, ok := other[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// checkDefiniteAssignment reports every read of a variable that is not
// definitely initialized on all paths reaching the read.
func (s *Session) checkDefiniteAssignment(reporter diag.Reporter) {
	d := &definitePass{s: s, reporter: reporter, reported: make(map[ast.NodeID]struct{})}
	d.walk(s.unit.Root, make(initState))
}

type definitePass struct {
	s        *Session
	reporter diag.Reporter
	reported map[ast.NodeID]struct{}
}

// walk analyzes one node, mutating state in place for straight-line code and
// forking it at branches. Returns the state after the node.
func (d *definitePass) walk(id ast.NodeID, state initState) initState {
	u := d.s.unit
	n := u.Node(id)
	if n == nil {
		return state
	}
	switch n.Kind {
	case ast.NodeIdent:
		d.checkRead(id, state)
		return state

	case ast.NodeLet:
		if init := u.Child(id, 1); init.IsValid() {
			state = d.walk(init, state)
			state.mark(d.s.SymbolOf(id))
		}
		return state

	case ast.NodeAssign:
		target, value := u.Child(id, 0), u.Child(id, 1)
		state = d.walk(value, state)
		// a plain identifier target is a write, not a read; compound
		// targets read their base first
		if tn := u.Node(target); tn != nil && tn.Kind == ast.NodeIdent {
			state.mark(d.s.SymbolOf(target))
		} else {
			state = d.walk(target, state)
		}
		return state

	case ast.NodeIf:
		state = d.walk(u.Child(id, 0), state)
		thenState := d.walk(u.Child(id, 1), state.clone())
		if alt := u.Child(id, 2); alt.IsValid() {
			elseState := d.walk(alt, state.clone())
			return thenState.intersect(elseState)
		}
		// without an else the then-arm contributes nothing definite
		return state

	case ast.NodeWhile:
		state = d.walk(u.Child(id, 0), state)
		d.walk(u.Child(id, 1), state.clone())
		return state

	case ast.NodeFor:
		state = d.walk(u.Child(id, 0), state)
		body := state.clone()
		body.mark(d.s.SymbolOf(id)) // the loop binding
		d.walk(u.Child(id, 1), body)
		return state

	case ast.NodeMatch:
		children := u.Children(id)
		if len(children) == 0 {
			return state
		}
		state = d.walk(children[0], state)
		var merged initState
		for _, armID := range children[1:] {
			armState := state.clone()
			if pat := u.Child(armID, 0); pat.IsValid() {
				d.markPatternBindings(pat, armState)
			}
			armState = d.walk(u.Child(armID, 1), armState)
			if merged == nil {
				merged = armState
			} else {
				merged = merged.intersect(armState)
			}
		}
		if merged == nil {
			return state
		}
		return merged

	case ast.NodeFunc:
		// parameters are initialized by the caller
		body := make(initState)
		if params := u.Child(id, 0); params.IsValid() {
			for _, p := range u.Children(params) {
				body.mark(d.s.SymbolOf(p))
			}
		}
		d.walk(u.Child(id, 2), body)
		return state

	default:
		for _, c := range u.Children(id) {
			state = d.walk(c, state)
		}
		return state
	}
}

func (d *definitePass) markPatternBindings(patID ast.NodeID, state initState) {
	n := d.s.unit.Node(patID)
	if n == nil {
		return
	}
	if n.Kind == ast.NodeBindingPat {
		// binding symbols carry their declaring pattern node
		if sym := d.findBindingSymbol(patID); sym.IsValid() {
			state.mark(sym)
		}
		return
	}
	for _, c := range d.s.unit.Children(patID) {
		d.markPatternBindings(c, state)
	}
}

func (d *definitePass) findBindingSymbol(patID ast.NodeID) symbols.SymbolID {
	for i := 1; i <= d.s.table.Symbols.Len(); i++ {
		id := symbols.SymbolID(i)
		if sym := d.s.table.Symbols.Get(id); sym != nil && sym.Decl == patID {
			return id
		}
	}
	return symbols.NoSymbolID
}

func (d *definitePass) checkRead(id ast.NodeID, state initState) {
	symID := d.s.SymbolOf(id)
	if !symID.IsValid() {
		return
	}
	sym := d.s.table.Symbols.Get(symID)
	if sym == nil || sym.Kind != symbols.SymbolVar {
		return
	}
	if sym.Flags&symbols.SymbolFlagInitialized != 0 || state.has(symID) {
		return
	}
	if _, dup := d.reported[id]; dup {
		return
	}
	d.reported[id] = struct{}{}
	name, _ := d.s.names.Lookup(sym.Name)
	diag.ReportError(d.reporter, diag.UseBeforeDefinition, d.s.unit.Span(id),
		fmt.Sprintf("`%s` may be used before it is assigned", name)).
		WithNote(sym.Span, fmt.Sprintf("`%s` is declared here without an initializer", name)).
		Emit()
}
