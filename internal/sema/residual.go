package sema

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/symbols"
)

// checkResidual enforces the structural rules that fit no other pass:
// assignment targets must be mutable lvalues, and address-of needs an
// addressable operand.
func (s *Session) checkResidual(reporter diag.Reporter) {
	r := &residualPass{
		s:        s,
		reporter: reporter,
		assigned: make(map[symbols.SymbolID]int),
	}
	r.walk(s.unit.Root)
}

type residualPass struct {
	s        *Session
	reporter diag.Reporter
	// assigned counts writes per symbol; an immutable binding declared
	// without an initializer still gets its one defining assignment.
	assigned map[symbols.SymbolID]int
}

func (r *residualPass) walk(id ast.NodeID) {
	u := r.s.unit
	n := u.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.NodeAssign:
		r.checkAssign(id)
	case ast.NodeUnary:
		if tok := u.Token(n.Token); tok != nil && tok.Kind == ast.TokAmp {
			r.checkAddressOf(id)
		}
	}
	for _, c := range u.Children(id) {
		r.walk(c)
	}
}

func isLvalue(kind ast.NodeKind) bool {
	switch kind {
	case ast.NodeIdent, ast.NodeIndex, ast.NodeField:
		return true
	default:
		return false
	}
}

// derefTarget reports whether the node is `*expr`, which is also writable.
func (r *residualPass) derefTarget(id ast.NodeID) bool {
	n := r.s.unit.Node(id)
	if n == nil || n.Kind != ast.NodeUnary {
		return false
	}
	tok := r.s.unit.Token(n.Token)
	return tok != nil && tok.Kind == ast.TokStar
}

func (r *residualPass) checkAssign(id ast.NodeID) {
	u := r.s.unit
	targetID := u.Child(id, 0)
	target := u.Node(targetID)
	if target == nil {
		return
	}
	if !isLvalue(target.Kind) && !r.derefTarget(targetID) {
		diag.ReportError(r.reporter, diag.InvalidAssignTarget, u.Span(targetID),
			"this expression cannot be assigned to").Emit()
		return
	}
	if target.Kind != ast.NodeIdent {
		return
	}
	symID := r.s.SymbolOf(targetID)
	if !symID.IsValid() {
		return
	}
	sym := r.s.table.Symbols.Get(symID)
	if sym == nil || sym.Kind == symbols.SymbolFunction {
		return
	}
	r.assigned[symID]++
	if sym.Flags&symbols.SymbolFlagMutable != 0 {
		return
	}
	// an immutable binding without an initializer may be assigned exactly
	// once; everything past that is a reassignment
	defining := sym.Flags&symbols.SymbolFlagInitialized == 0 && r.assigned[symID] == 1
	if defining {
		return
	}
	name, _ := r.s.names.Lookup(sym.Name)
	diag.ReportError(r.reporter, diag.AssignToImmutable, u.Span(targetID),
		fmt.Sprintf("cannot assign to `%s`: it is not declared mutable", name)).
		WithNote(sym.Span, fmt.Sprintf("consider declaring `%s` as mutable", name)).
		Emit()
}

func (r *residualPass) checkAddressOf(id ast.NodeID) {
	u := r.s.unit
	operandID := u.Child(id, 0)
	operand := u.Node(operandID)
	if operand == nil {
		return
	}
	if !isLvalue(operand.Kind) {
		diag.ReportError(r.reporter, diag.InvalidAddressOf, u.Span(operandID),
			"cannot take the address of this expression").Emit()
	}
}
