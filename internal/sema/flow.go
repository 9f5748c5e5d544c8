package sema

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/types"
)

// termination is the control-flow lattice for one statement: flowContinues
// when execution always falls through, flowMay when at least one path
// terminates, flowAlways when no path falls through.
type termination uint8

const (
	flowContinues termination = iota
	flowMay
	flowAlways
)

// join merges the two arms of a branch.
func (a termination) join(b termination) termination {
	if a == flowAlways && b == flowAlways {
		return flowAlways
	}
	if a == flowContinues && b == flowContinues {
		return flowContinues
	}
	return flowMay
}

// sequence accumulates termination along straight-line statements.
func (a termination) sequence(b termination) termination {
	if a == flowAlways {
		return flowAlways
	}
	if b == flowAlways {
		return flowAlways
	}
	if a == flowMay || b == flowMay {
		return flowMay
	}
	return flowContinues
}

// checkControlFlow computes termination for every function body, warning on
// statements that follow a terminating one and erroring when a non-void
// function can fall off the end.
func (s *Session) checkControlFlow(reporter diag.Reporter) {
	f := &flowPass{s: s, reporter: reporter}
	f.walkDecls(s.unit.Root)
}

type flowPass struct {
	s        *Session
	reporter diag.Reporter
}

func (f *flowPass) walkDecls(id ast.NodeID) {
	n := f.s.unit.Node(id)
	if n == nil {
		return
	}
	if n.Kind == ast.NodeFunc {
		f.checkFunc(id)
	}
	for _, c := range f.s.unit.Children(id) {
		f.walkDecls(c)
	}
}

func (f *flowPass) checkFunc(id ast.NodeID) {
	u := f.s.unit
	children := u.Children(id)
	if len(children) < 3 {
		return
	}
	retAnnot, body := children[1], children[2]
	term := f.termOf(body)
	if term == flowAlways || !retAnnot.IsValid() {
		return
	}
	// a declared void result may fall through
	if rn := u.Node(retAnnot); rn != nil && rn.Kind == ast.NodePrimType {
		tok := u.Token(rn.Token)
		if tok != nil {
			if text, _ := f.s.names.Lookup(tok.Text); text == "void" {
				return
			}
		}
	}
	name := "function"
	if tok := u.Token(u.Node(id).Token); tok != nil {
		if text, _ := f.s.names.Lookup(tok.Text); text != "" {
			name = fmt.Sprintf("`%s`", text)
		}
	}
	diag.ReportError(f.reporter, diag.MissingReturn, u.Span(id),
		fmt.Sprintf("%s does not return a value on every path", name)).
		WithSecondary(u.Span(retAnnot)).
		Emit()
}

// termOf computes the termination state of one statement and flags
// unreachable statements inside blocks.
func (f *flowPass) termOf(id ast.NodeID) termination {
	u := f.s.unit
	n := u.Node(id)
	if n == nil {
		return flowContinues
	}
	switch n.Kind {
	case ast.NodeReturn, ast.NodeBreak, ast.NodeContinue:
		return flowAlways

	case ast.NodeBlock:
		term := flowContinues
		for _, stmt := range u.Children(id) {
			if term == flowAlways {
				diag.ReportWarning(f.reporter, diag.UnreachableCode, u.Span(stmt),
					"unreachable code").Emit()
			}
			term = term.sequence(f.termOf(stmt))
		}
		return term

	case ast.NodeIf:
		thenT := f.termOf(u.Child(id, 1))
		if alt := u.Child(id, 2); alt.IsValid() {
			return thenT.join(f.termOf(alt))
		}
		return thenT.join(flowContinues)

	case ast.NodeWhile, ast.NodeFor:
		// the body may never run; the loop itself falls through
		if f.termOf(u.Child(id, 1)) != flowContinues {
			return flowMay
		}
		return flowContinues

	case ast.NodeMatch:
		children := u.Children(id)
		if len(children) < 2 {
			return flowContinues
		}
		term := flowAlways
		for _, armID := range children[1:] {
			term = term.join(f.termOf(u.Child(armID, 1)))
		}
		// joining only the arms is sound: inference already reports a
		// hard error for any match that could fall through unmatched
		return term

	case ast.NodeExprStmt:
		return f.termOf(u.Child(id, 0))

	case ast.NodeCall:
		// calls returning never do not come back
		if f.s.types.Kind(f.s.TypeOf(id)) == types.KindNever {
			return flowAlways
		}
		return flowContinues

	default:
		return flowContinues
	}
}
