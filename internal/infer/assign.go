package infer

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/symbols"
	"janus/internal/types"
)

// assign writes fully resolved types back onto nodes and symbols. Composite
// types that captured inference variables during generation (array literals,
// pointers to inferred elements) are rebuilt with the variables substituted,
// so no consumer ever sees residual indirection. Anything that stayed
// unresolved reports CannotInferType, once per variable.
func (e *Engine) assign() {
	memo := make(map[types.TypeID]types.TypeID)
	reported := make(map[types.TypeID]struct{})

	syms := e.res.Table().Symbols
	for i := 1; i <= syms.Len(); i++ {
		sym := syms.Get(symbols.SymbolID(i))
		if sym == nil || sym.Type == types.NoTypeID {
			continue
		}
		resolved := e.resolveDeep(sym.Type, memo)
		sym.Type = resolved
		if e.types.IsInferVar(resolved) {
			if _, done := reported[resolved]; !done {
				reported[resolved] = struct{}{}
				name, _ := e.names.Lookup(sym.Name)
				diag.ReportError(e.reporter, diag.CannotInferType, sym.Span,
					fmt.Sprintf("cannot infer the type of `%s`; add a type annotation", name)).Emit()
			}
		}
	}

	for i := 1; i <= e.unit.NumNodes(); i++ {
		id := ast.NodeID(i)
		t, ok := e.nodeTypes[id]
		if !ok {
			continue
		}
		resolved := e.resolveDeep(t, memo)
		e.nodeTypes[id] = resolved
		if e.types.IsInferVar(resolved) {
			if _, done := reported[resolved]; !done {
				reported[resolved] = struct{}{}
				diag.ReportError(e.reporter, diag.CannotInferType, e.span(id),
					"cannot infer the type of this expression").Emit()
			}
		}
	}
}

// resolveDeep follows binding chains and substitutes resolved variables
// inside composite types, interning the rebuilt descriptor. An unresolved
// leaf variable is returned as-is so the caller can detect it.
func (e *Engine) resolveDeep(t types.TypeID, memo map[types.TypeID]types.TypeID) types.TypeID {
	if r, ok := memo[t]; ok {
		return r
	}
	r := e.bindings.Resolve(t)
	if e.types.IsInferVar(r) {
		memo[t] = r
		return r
	}
	desc, ok := e.types.Lookup(r)
	if !ok {
		memo[t] = r
		return r
	}
	out := r
	switch desc.Kind {
	case types.KindPointer:
		out = e.types.MakePointer(e.resolveDeep(desc.Elem, memo))
	case types.KindArray:
		out = e.types.MakeArray(e.resolveDeep(desc.Elem, memo), desc.Count)
	case types.KindSlice:
		out = e.types.MakeSlice(e.resolveDeep(desc.Elem, memo))
	case types.KindRange:
		out = e.types.MakeRange(e.resolveDeep(desc.Elem, memo), desc.Count != 0)
	case types.KindOptional:
		out = e.types.MakeOptional(e.resolveDeep(desc.Elem, memo))
	case types.KindErrorUnion:
		out = e.types.MakeErrorUnion(e.resolveDeep(desc.Elem, memo))
	case types.KindCtxBound:
		out = e.types.MakeCtxBound(e.resolveDeep(desc.Elem, memo))
	case types.KindFunction:
		info, ok := e.types.FnInfo(r)
		if !ok {
			break
		}
		params := make([]types.TypeID, len(info.Params))
		changed := false
		for i, p := range info.Params {
			params[i] = e.resolveDeep(p, memo)
			changed = changed || params[i] != p
		}
		res := e.resolveDeep(info.Result, memo)
		if changed || res != info.Result {
			out = e.types.MakeFunction(params, res)
		}
	case types.KindTensor:
		info, ok := e.types.TensorInfo(r)
		if !ok {
			break
		}
		elem := e.resolveDeep(info.Elem, memo)
		if elem != info.Elem {
			out = e.types.MakeTensor(elem, info.Dims, info.Space)
		}
	}
	memo[t] = out
	return out
}
