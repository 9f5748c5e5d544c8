package infer

import (
	"fmt"

	"janus/internal/diag"
	"janus/internal/source"
	"janus/internal/types"
)

// outcome is the tri-state result of attempting one constraint.
type outcome uint8

const (
	// outDeferred means the principal type is still an unbound variable;
	// the constraint stays in the live list for the next pass.
	outDeferred outcome = iota
	outSolved
	outFailed
)

// solve runs the fixpoint: rescan the live list until a pass makes no
// progress, removing solved and failed constraints by swapping with the
// last element. Defaulting (Numeric/Comparable on a still-unbound variable
// binds i32) is held back until a pass without it stalls, so an explicit
// binding elsewhere always wins over the default.
func (e *Engine) solve() {
	for {
		if e.pass(false) {
			continue
		}
		if e.pass(true) {
			continue
		}
		return
	}
}

// pass walks the live list once. Returns whether anything was removed.
func (e *Engine) pass(allowDefault bool) bool {
	progress := false
	i := 0
	for i < len(e.constraints) {
		switch e.step(&e.constraints[i], allowDefault) {
		case outSolved, outFailed:
			last := len(e.constraints) - 1
			e.constraints[i] = e.constraints[last]
			e.constraints[last] = Constraint{}
			e.constraints = e.constraints[:last]
			progress = true
		default:
			i++
		}
	}
	return progress
}

func (e *Engine) step(c *Constraint, allowDefault bool) outcome {
	switch c.Kind {
	case ConEquality:
		return e.stepEquality(c)
	case ConSubtype:
		return e.stepSubtype(c)
	case ConCall:
		return e.stepCall(c)
	case ConIndex:
		return e.stepIndex(c)
	case ConField:
		return e.stepField(c)
	case ConNumeric:
		return e.stepClass(c, allowDefault, e.types.Numeric, "arithmetic")
	case ConComparable:
		return e.stepClass(c, allowDefault, e.types.Comparable, "comparison")
	case ConIterable:
		return e.stepIterable(c)
	default:
		return outSolved
	}
}

func (e *Engine) stepEquality(c *Constraint) outcome {
	l := e.bindings.Resolve(c.Left)
	r := e.bindings.Resolve(c.Right)
	if l == r {
		return outSolved
	}
	if e.types.IsInferVar(l) {
		e.bindings.Bind(l, r)
		return outSolved
	}
	if e.types.IsInferVar(r) {
		e.bindings.Bind(r, l)
		return outSolved
	}
	if c.Exact {
		// identical would have hit the fast path above
		diag.ReportError(e.reporter, diag.RangeBoundMismatch, c.Span,
			fmt.Sprintf("range bounds must have the same type, got %s and %s",
				e.format(l), e.format(r))).Emit()
		return outFailed
	}
	if e.unifyStructural(l, r, c.Span) {
		return outSolved
	}
	if e.types.Compatible(l, r) || e.types.Compatible(r, l) {
		return outSolved
	}
	diag.ReportError(e.reporter, diag.TypeMismatch, c.Span,
		fmt.Sprintf("type mismatch: %s vs %s", e.format(l), e.format(r))).Emit()
	return outFailed
}

// unifyStructural decomposes two concrete composites of the same shape into
// element equalities, so `*<var> = *i32` binds the variable.
func (e *Engine) unifyStructural(l, r types.TypeID, span source.Span) bool {
	lt, ok := e.types.Lookup(l)
	if !ok {
		return false
	}
	rt, ok := e.types.Lookup(r)
	if !ok || lt.Kind != rt.Kind {
		return false
	}
	switch lt.Kind {
	case types.KindPointer, types.KindSlice, types.KindOptional, types.KindErrorUnion, types.KindCtxBound:
		e.add(Constraint{Kind: ConEquality, Left: lt.Elem, Right: rt.Elem, Span: span})
		return true
	case types.KindArray:
		if lt.Count != rt.Count {
			return false
		}
		e.add(Constraint{Kind: ConEquality, Left: lt.Elem, Right: rt.Elem, Span: span})
		return true
	case types.KindRange:
		if lt.Count != rt.Count {
			return false
		}
		e.add(Constraint{Kind: ConEquality, Left: lt.Elem, Right: rt.Elem, Span: span, Exact: true})
		return true
	case types.KindFunction:
		li, _ := e.types.FnInfo(l)
		ri, _ := e.types.FnInfo(r)
		if li == nil || ri == nil || len(li.Params) != len(ri.Params) {
			return false
		}
		for i := range li.Params {
			e.add(Constraint{Kind: ConEquality, Left: li.Params[i], Right: ri.Params[i], Span: span})
		}
		e.add(Constraint{Kind: ConEquality, Left: li.Result, Right: ri.Result, Span: span})
		return true
	default:
		return false
	}
}

func (e *Engine) stepSubtype(c *Constraint) outcome {
	sub := e.bindings.Resolve(c.Left)
	super := e.bindings.Resolve(c.Right)
	if sub == super {
		return outSolved
	}
	if e.types.IsInferVar(sub) {
		e.bindings.Bind(sub, super)
		return outSolved
	}
	if e.types.IsInferVar(super) {
		e.bindings.Bind(super, sub)
		return outSolved
	}
	if e.types.Compatible(sub, super) {
		return outSolved
	}
	diag.ReportError(e.reporter, diag.TypeMismatch, c.Span,
		fmt.Sprintf("cannot use %s where %s is expected", e.format(sub), e.format(super))).Emit()
	return outFailed
}

func (e *Engine) stepCall(c *Constraint) outcome {
	f := e.bindings.Resolve(c.Left)
	if e.types.IsInferVar(f) {
		return outDeferred
	}
	info, ok := e.types.FnInfo(f)
	if !ok {
		diag.ReportError(e.reporter, diag.NotAFunction, c.Span,
			fmt.Sprintf("%s is not a function and cannot be called", e.format(f))).Emit()
		return outFailed
	}
	if len(c.Args) != len(info.Params) {
		diag.ReportError(e.reporter, diag.ArgumentCountMismatch, c.Span,
			fmt.Sprintf("call expects %d argument(s), got %d", len(info.Params), len(c.Args))).Emit()
		return outFailed
	}
	for i, arg := range c.Args {
		e.add(Constraint{Kind: ConSubtype, Left: arg, Right: info.Params[i], Span: c.Span})
	}
	e.add(Constraint{Kind: ConEquality, Left: c.Result, Right: info.Result, Span: c.Span})
	return outSolved
}

func (e *Engine) stepIndex(c *Constraint) outcome {
	base := e.bindings.Resolve(c.Left)
	if e.types.IsInferVar(base) {
		return outDeferred
	}
	t, ok := e.types.Lookup(base)
	if !ok {
		return outFailed
	}
	switch t.Kind {
	case types.KindArray, types.KindSlice:
		if len(c.Args) > 0 {
			e.add(Constraint{Kind: ConNumeric, Left: c.Args[0], Span: c.Span})
		}
		e.add(Constraint{Kind: ConEquality, Left: c.Result, Right: t.Elem, Span: c.Span})
		return outSolved
	case types.KindTensor:
		info, ok := e.types.TensorInfo(base)
		if !ok {
			return outFailed
		}
		if len(c.Args) > 0 {
			e.add(Constraint{Kind: ConNumeric, Left: c.Args[0], Span: c.Span})
		}
		e.add(Constraint{Kind: ConEquality, Left: c.Result, Right: info.Elem, Span: c.Span})
		return outSolved
	default:
		diag.ReportError(e.reporter, diag.NotIndexable, c.Span,
			fmt.Sprintf("%s cannot be indexed", e.format(base))).Emit()
		return outFailed
	}
}

func (e *Engine) stepField(c *Constraint) outcome {
	base := e.bindings.Resolve(c.Left)
	if e.types.IsInferVar(base) {
		return outDeferred
	}
	info, ok := e.types.StructInfo(base)
	if !ok {
		diag.ReportError(e.reporter, diag.TypeNotStruct, c.Span,
			fmt.Sprintf("%s is not a struct and has no fields", e.format(base))).Emit()
		return outFailed
	}
	ft := info.FieldType(c.Name)
	if ft == types.NoTypeID {
		field, _ := e.names.Lookup(c.Name)
		diag.ReportError(e.reporter, diag.FieldNotFound, c.Span,
			fmt.Sprintf("%s has no field `%s`", e.format(base), field)).Emit()
		return outFailed
	}
	e.add(Constraint{Kind: ConEquality, Left: c.Result, Right: ft, Span: c.Span})
	return outSolved
}

// stepClass handles the Numeric and Comparable operator classes. An unbound
// variable defers until defaulting is allowed, then binds i32.
func (e *Engine) stepClass(c *Constraint, allowDefault bool, pred func(types.TypeID) bool, class string) outcome {
	t := e.bindings.Resolve(c.Left)
	if e.types.IsInferVar(t) {
		if !allowDefault {
			return outDeferred
		}
		e.bindings.Bind(t, e.types.Builtins().I32)
		return outSolved
	}
	if pred(t) {
		return outSolved
	}
	diag.ReportError(e.reporter, diag.InvalidOperand, c.Span,
		fmt.Sprintf("%s does not support %s operators", e.format(t), class)).Emit()
	return outFailed
}

func (e *Engine) stepIterable(c *Constraint) outcome {
	coll := e.bindings.Resolve(c.Left)
	if e.types.IsInferVar(coll) {
		return outDeferred
	}
	t, ok := e.types.Lookup(coll)
	if !ok {
		return outFailed
	}
	switch t.Kind {
	case types.KindArray, types.KindSlice, types.KindRange:
		e.add(Constraint{Kind: ConEquality, Left: c.Result, Right: t.Elem, Span: c.Span})
		return outSolved
	default:
		diag.ReportError(e.reporter, diag.InvalidOperand, c.Span,
			fmt.Sprintf("%s is not iterable", e.format(coll))).Emit()
		return outFailed
	}
}
