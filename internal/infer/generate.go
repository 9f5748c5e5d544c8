package infer

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/match"
	"janus/internal/symbols"
	"janus/internal/types"
)

// genNode walks one node, records its type and emits constraints. Statements
// yield void; expressions yield either a concrete type or a fresh inference
// variable tied down by constraints.
func (e *Engine) genNode(id ast.NodeID) types.TypeID {
	n := e.unit.Node(id)
	if n == nil {
		return types.NoTypeID
	}
	b := e.types.Builtins()
	var t types.TypeID
	switch n.Kind {
	case ast.NodeUnit:
		for _, c := range e.unit.Children(id) {
			e.genNode(c)
		}
		t = b.Void

	case ast.NodeIntLit:
		t = b.I32
	case ast.NodeFloatLit:
		t = b.F64
	case ast.NodeBoolLit:
		t = b.Bool
	case ast.NodeStringLit:
		t = b.String

	case ast.NodeIdent:
		t = e.genIdent(id, n)
	case ast.NodeBinary:
		t = e.genBinary(id, n)
	case ast.NodeUnary:
		t = e.genUnary(id, n)
	case ast.NodeCall:
		t = e.genCall(id)
	case ast.NodeIndex:
		t = e.genIndex(id)
	case ast.NodeField:
		t = e.genField(id, n)
	case ast.NodeArrayLit:
		t = e.genArrayLit(id)
	case ast.NodeRange:
		t = e.genRange(id, n)

	case ast.NodeLet:
		e.genLet(id, n)
		t = b.Void
	case ast.NodeAssign:
		e.genAssign(id)
		t = b.Void
	case ast.NodeBlock:
		scope := e.res.Enter(symbols.ScopeBlock, id, e.span(id))
		for _, c := range e.unit.Children(id) {
			e.genNode(c)
		}
		e.res.Leave(scope)
		t = b.Void
	case ast.NodeIf:
		cond := e.genNode(e.unit.Child(id, 0))
		e.add(Constraint{Kind: ConEquality, Left: cond, Right: b.Bool, Span: e.span(e.unit.Child(id, 0))})
		e.genNode(e.unit.Child(id, 1))
		if alt := e.unit.Child(id, 2); alt.IsValid() {
			e.genNode(alt)
		}
		t = b.Void
	case ast.NodeWhile:
		cond := e.genNode(e.unit.Child(id, 0))
		e.add(Constraint{Kind: ConEquality, Left: cond, Right: b.Bool, Span: e.span(e.unit.Child(id, 0))})
		e.genNode(e.unit.Child(id, 1))
		t = b.Void
	case ast.NodeFor:
		e.genFor(id, n)
		t = b.Void
	case ast.NodeReturn:
		e.genReturn(id)
		t = b.Void
	case ast.NodeBreak, ast.NodeContinue:
		t = b.Void
	case ast.NodeExprStmt:
		e.genNode(e.unit.Child(id, 0))
		t = b.Void

	case ast.NodeFunc:
		e.genFunc(id, n)
		t = b.Void
	case ast.NodeMatch:
		t = e.genMatch(id)

	default:
		// type annotations and patterns are consumed by their parents
		t = types.NoTypeID
	}
	if t != types.NoTypeID {
		e.nodeTypes[id] = t
	}
	return t
}

func (e *Engine) genIdent(id ast.NodeID, n *ast.Node) types.TypeID {
	name, text := e.nameOf(n.Token)
	symID := e.res.Resolve(name)
	if !symID.IsValid() {
		e.reportUnresolved(id, text)
		return e.types.NewInferVar()
	}
	e.symOfNode[id] = symID
	sym := e.res.Table().Symbols.Get(symID)
	if sym.Type == types.NoTypeID {
		// first mention before any constraint pinned the symbol down: give
		// it one shared variable so every use refines the same type
		sym.Type = e.types.NewInferVar()
	}
	return sym.Type
}

func (e *Engine) reportUnresolved(id ast.NodeID, text string) {
	b := diag.ReportError(e.reporter, diag.UnresolvedSymbol, e.span(id),
		fmt.Sprintf("cannot find `%s` in this scope", text))
	for _, cand := range e.res.Table().SimilarNames(e.res.CurrentScope(), text, 3) {
		b.WithSuggestion(diag.Suggestion{
			Message:     fmt.Sprintf("did you mean `%s`?", cand.Name),
			Confidence:  cand.Confidence(),
			Replacement: cand.Name,
			Span:        e.span(id),
		})
	}
	b.Emit()
}

func (e *Engine) genBinary(id ast.NodeID, n *ast.Node) types.TypeID {
	lhsID, rhsID := e.unit.Child(id, 0), e.unit.Child(id, 1)
	lhs := e.genNode(lhsID)
	rhs := e.genNode(rhsID)
	b := e.types.Builtins()
	op := ast.TokInvalid
	if tok := e.unit.Token(n.Token); tok != nil {
		op = tok.Kind
	}
	sp := e.span(id)
	switch op {
	case ast.TokPlus, ast.TokMinus, ast.TokStar, ast.TokSlash, ast.TokPercent:
		e.add(Constraint{Kind: ConNumeric, Left: lhs, Span: e.span(lhsID)})
		e.add(Constraint{Kind: ConNumeric, Left: rhs, Span: e.span(rhsID)})
		e.add(Constraint{Kind: ConEquality, Left: lhs, Right: rhs, Span: sp})
		return lhs
	case ast.TokEqEq, ast.TokNotEq, ast.TokLt, ast.TokLtEq, ast.TokGt, ast.TokGtEq:
		e.add(Constraint{Kind: ConComparable, Left: lhs, Span: e.span(lhsID)})
		e.add(Constraint{Kind: ConEquality, Left: lhs, Right: rhs, Span: sp})
		return b.Bool
	case ast.TokAndAnd, ast.TokOrOr:
		e.add(Constraint{Kind: ConEquality, Left: lhs, Right: b.Bool, Span: e.span(lhsID)})
		e.add(Constraint{Kind: ConEquality, Left: rhs, Right: b.Bool, Span: e.span(rhsID)})
		return b.Bool
	default:
		diag.ReportError(e.reporter, diag.InvalidOperand, sp,
			fmt.Sprintf("operator `%s` is not a valid binary operator", op)).Emit()
		return e.types.NewInferVar()
	}
}

func (e *Engine) genUnary(id ast.NodeID, n *ast.Node) types.TypeID {
	operandID := e.unit.Child(id, 0)
	operand := e.genNode(operandID)
	b := e.types.Builtins()
	op := ast.TokInvalid
	if tok := e.unit.Token(n.Token); tok != nil {
		op = tok.Kind
	}
	switch op {
	case ast.TokMinus:
		e.add(Constraint{Kind: ConNumeric, Left: operand, Span: e.span(operandID)})
		return operand
	case ast.TokBang:
		e.add(Constraint{Kind: ConEquality, Left: operand, Right: b.Bool, Span: e.span(operandID)})
		return b.Bool
	case ast.TokAmp:
		return e.types.MakePointer(operand)
	case ast.TokStar:
		elem := e.types.NewInferVar()
		e.add(Constraint{Kind: ConEquality, Left: operand, Right: e.types.MakePointer(elem), Span: e.span(id)})
		return elem
	default:
		diag.ReportError(e.reporter, diag.InvalidOperand, e.span(id),
			fmt.Sprintf("operator `%s` is not a valid unary operator", op)).Emit()
		return e.types.NewInferVar()
	}
}

func (e *Engine) genCall(id ast.NodeID) types.TypeID {
	children := e.unit.Children(id)
	if len(children) == 0 {
		return types.NoTypeID
	}
	callee := e.genNode(children[0])
	args := make([]types.TypeID, 0, len(children)-1)
	for _, a := range children[1:] {
		args = append(args, e.genNode(a))
	}
	result := e.types.NewInferVar()
	e.add(Constraint{Kind: ConCall, Left: callee, Args: args, Result: result, Span: e.span(id)})
	return result
}

func (e *Engine) genIndex(id ast.NodeID) types.TypeID {
	base := e.genNode(e.unit.Child(id, 0))
	index := e.genNode(e.unit.Child(id, 1))
	result := e.types.NewInferVar()
	e.add(Constraint{
		Kind:   ConIndex,
		Left:   base,
		Args:   []types.TypeID{index},
		Result: result,
		Span:   e.span(id),
	})
	return result
}

func (e *Engine) genField(id ast.NodeID, n *ast.Node) types.TypeID {
	base := e.genNode(e.unit.Child(id, 0))
	name, _ := e.nameOf(n.Token)
	result := e.types.NewInferVar()
	e.add(Constraint{Kind: ConField, Left: base, Name: name, Result: result, Span: e.span(id)})
	return result
}

// genArrayLit unifies every element into one fresh variable so literals like
// `[1, x, 3]` give the whole array the common element type.
func (e *Engine) genArrayLit(id ast.NodeID) types.TypeID {
	elems := e.unit.Children(id)
	elem := e.types.NewInferVar()
	for _, el := range elems {
		t := e.genNode(el)
		e.add(Constraint{Kind: ConEquality, Left: elem, Right: t, Span: e.span(el)})
	}
	return e.types.MakeArray(elem, uint32(len(elems)))
}

// genRange requires both bounds to share an exact element type; widening
// between bounds is rejected so a range is never half i32 half i64.
func (e *Engine) genRange(id ast.NodeID, n *ast.Node) types.TypeID {
	loID, hiID := e.unit.Child(id, 0), e.unit.Child(id, 1)
	lo := e.genNode(loID)
	hi := e.genNode(hiID)
	e.add(Constraint{Kind: ConNumeric, Left: lo, Span: e.span(loID)})
	e.add(Constraint{Kind: ConEquality, Left: lo, Right: hi, Span: e.span(id), Exact: true})
	inclusive := false
	if tok := e.unit.Token(n.Token); tok != nil {
		inclusive = tok.Kind == ast.TokRangeEq
	}
	return e.types.MakeRange(lo, inclusive)
}

func (e *Engine) genLet(id ast.NodeID, n *ast.Node) {
	annotID, initID := e.unit.Child(id, 0), e.unit.Child(id, 1)
	name, text := e.nameOf(n.Token)

	var declared types.TypeID
	var initT types.TypeID
	if initID.IsValid() {
		initT = e.genNode(initID)
	}
	switch {
	case annotID.IsValid():
		declared = e.typeFromAnnotation(annotID)
		if initID.IsValid() {
			e.add(Constraint{Kind: ConSubtype, Left: initT, Right: declared, Span: e.span(initID)})
		}
	case initID.IsValid():
		declared = initT
	default:
		declared = e.types.NewInferVar()
	}

	flags := symbols.SymbolFlags(0)
	if n.Flags&ast.NodeFlagMutable != 0 {
		flags |= symbols.SymbolFlagMutable
	}
	if initID.IsValid() {
		flags |= symbols.SymbolFlagInitialized
	}
	symID, existing, ok := e.res.Declare(symbols.Symbol{
		Name:  name,
		Kind:  symbols.SymbolVar,
		Span:  e.span(id),
		Flags: flags,
		Type:  declared,
		Decl:  id,
	})
	if !ok {
		e.reportDuplicate(text, e.span(id), existing)
		return
	}
	e.symOfNode[id] = symID
}

func (e *Engine) genAssign(id ast.NodeID) {
	targetID, valueID := e.unit.Child(id, 0), e.unit.Child(id, 1)
	target := e.genNode(targetID)
	value := e.genNode(valueID)
	e.add(Constraint{Kind: ConSubtype, Left: value, Right: target, Span: e.span(id)})
}

func (e *Engine) genFor(id ast.NodeID, n *ast.Node) {
	iterID, bodyID := e.unit.Child(id, 0), e.unit.Child(id, 1)
	iter := e.genNode(iterID)
	elem := e.types.NewInferVar()
	e.add(Constraint{Kind: ConIterable, Left: iter, Result: elem, Span: e.span(iterID)})

	scope := e.res.Enter(symbols.ScopeBlock, id, e.span(id))
	if name, _ := e.nameOf(n.Token); name != 0 {
		symID, _, ok := e.res.Declare(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolVar,
			Span:  e.span(id),
			Flags: symbols.SymbolFlagInitialized,
			Type:  elem,
			Decl:  id,
		})
		if ok {
			e.symOfNode[id] = symID
		}
	}
	e.genNode(bodyID)
	e.res.Leave(scope)
}

func (e *Engine) genReturn(id ast.NodeID) {
	valueID := e.unit.Child(id, 0)
	b := e.types.Builtins()
	var value types.TypeID
	if valueID.IsValid() {
		value = e.genNode(valueID)
	} else {
		value = b.Void
	}
	if len(e.fnReturn) == 0 {
		return
	}
	want := e.fnReturn[len(e.fnReturn)-1]
	e.add(Constraint{Kind: ConSubtype, Left: value, Right: want, Span: e.span(id)})
}

func (e *Engine) genFunc(id ast.NodeID, n *ast.Node) {
	children := e.unit.Children(id)
	if len(children) < 3 {
		return
	}
	paramList, retAnnot, body := children[0], children[1], children[2]

	// nested functions were not pre-declared at the unit root
	if _, declared := e.symOfNode[id]; !declared {
		name, text := e.nameOf(n.Token)
		symID, existing, ok := e.res.Declare(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolFunction,
			Span:  e.span(id),
			Flags: symbols.SymbolFlagInitialized,
			Type:  e.funcSignature(id),
			Decl:  id,
		})
		if !ok {
			e.reportDuplicate(text, e.span(id), existing)
		} else {
			e.symOfNode[id] = symID
		}
	}

	ret := e.types.Builtins().Void
	if retAnnot.IsValid() {
		ret = e.typeFromAnnotation(retAnnot)
	}

	scope := e.res.Enter(symbols.ScopeFunction, id, e.span(id))
	for _, p := range e.unit.Children(paramList) {
		pn := e.unit.Node(p)
		if pn == nil {
			continue
		}
		name, text := e.nameOf(pn.Token)
		symID, existing, ok := e.res.Declare(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolParam,
			Span:  e.span(p),
			Flags: symbols.SymbolFlagInitialized,
			Type:  e.paramType(p),
			Decl:  p,
		})
		if !ok {
			e.reportDuplicate(text, e.span(p), existing)
			continue
		}
		e.symOfNode[p] = symID
	}
	e.fnReturn = append(e.fnReturn, ret)
	e.genNode(body)
	e.fnReturn = e.fnReturn[:len(e.fnReturn)-1]
	e.res.Leave(scope)
}

// genMatch types the scrutinee, checks arm patterns for exhaustiveness and
// unifies every arm body into one common result variable.
func (e *Engine) genMatch(id ast.NodeID) types.TypeID {
	children := e.unit.Children(id)
	if len(children) == 0 {
		return types.NoTypeID
	}
	scrutinee := e.genNode(children[0])

	patterns := make([]match.Pattern, 0, len(children)-1)
	result := e.types.NewInferVar()
	for _, armID := range children[1:] {
		arm := e.unit.Node(armID)
		if arm == nil || arm.Kind != ast.NodeMatchArm {
			continue
		}
		patID, bodyID := e.unit.Child(armID, 0), e.unit.Child(armID, 1)
		patterns = append(patterns, match.FromNode(e.unit, e.names, patID))

		scope := e.res.Enter(symbols.ScopeMatchArm, armID, e.span(armID))
		e.declarePatternBindings(patID, scrutinee)
		bodyT := e.genNode(bodyID)
		e.res.Leave(scope)
		if bodyT != types.NoTypeID {
			e.add(Constraint{Kind: ConEquality, Left: result, Right: bodyT, Span: e.span(bodyID)})
		}
	}

	res := match.Check(e.types, e.bindings.Resolve(scrutinee), patterns)
	if !res.Exhaustive {
		diag.ReportError(e.reporter, diag.NonExhaustiveMatch, e.span(id),
			fmt.Sprintf("match is not exhaustive; missing: %s", res.MissingStrings())).
			WithNote(e.span(children[0]), "add arms for the missing cases or a `_` arm").
			Emit()
	}
	return result
}

// declarePatternBindings introduces pattern-bound names into the arm scope.
// The binding takes the scrutinee's type; nested bindings under tuple or
// struct patterns get fresh variables since their position types are not
// destructured here.
func (e *Engine) declarePatternBindings(patID ast.NodeID, scrutinee types.TypeID) {
	n := e.unit.Node(patID)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.NodeBindingPat:
		name, text := e.nameOf(n.Token)
		if _, existing, ok := e.res.Declare(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolVar,
			Span:  e.span(patID),
			Flags: symbols.SymbolFlagInitialized,
			Type:  scrutinee,
			Decl:  patID,
		}); !ok {
			e.reportDuplicate(text, e.span(patID), existing)
		}
	case ast.NodeTuplePat, ast.NodeStructPat, ast.NodeFieldPat, ast.NodeVariantPat:
		for _, c := range e.unit.Children(patID) {
			e.declarePatternBindings(c, e.types.NewInferVar())
		}
	}
}
