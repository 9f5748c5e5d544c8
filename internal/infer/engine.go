package infer

import (
	"fmt"
	"strconv"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/source"
	"janus/internal/symbols"
	"janus/internal/types"
)

// Result carries everything later passes need: the resolved type of every
// expression node, the symbol each identifier resolved to, and the binding
// table for debugging output.
type Result struct {
	NodeTypes map[ast.NodeID]types.TypeID
	SymOfNode map[ast.NodeID]symbols.SymbolID
	Bindings  *Bindings

	// ConstraintsTotal counts constraints generated; ConstraintsLeft counts
	// those the fixpoint could neither solve nor fail.
	ConstraintsTotal int
	ConstraintsLeft  int
}

// TypeOf returns the resolved type of a node, NoTypeID if none was recorded.
func (r *Result) TypeOf(id ast.NodeID) types.TypeID {
	return r.NodeTypes[id]
}

// SymbolOf returns the symbol an identifier node resolved to.
func (r *Result) SymbolOf(id ast.NodeID) symbols.SymbolID {
	return r.SymOfNode[id]
}

// Engine runs generation, solving and assignment for one unit.
type Engine struct {
	unit     *ast.Unit
	names    *source.Interner
	types    *types.Interner
	res      *symbols.Resolver
	reporter diag.Reporter

	bindings    *Bindings
	constraints []Constraint
	nodeTypes   map[ast.NodeID]types.TypeID
	symOfNode   map[ast.NodeID]symbols.SymbolID

	// fnReturn tracks the expected return type of the enclosing function.
	fnReturn []types.TypeID

	generated int
}

// New wires an engine. The resolver's current scope is used as the unit
// root; callers typically pass a resolver freshly positioned at the unit
// scope.
func New(unit *ast.Unit, names *source.Interner, in *types.Interner, res *symbols.Resolver, reporter diag.Reporter) *Engine {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Engine{
		unit:      unit,
		names:     names,
		types:     in,
		res:       res,
		reporter:  reporter,
		bindings:  NewBindings(in),
		nodeTypes: make(map[ast.NodeID]types.TypeID, unit.NumNodes()),
		symOfNode: make(map[ast.NodeID]symbols.SymbolID),
	}
}

// Run performs the full inference pipeline and returns the result. The
// engine is single-use.
func (e *Engine) Run() *Result {
	if root := e.unit.Node(e.unit.Root); root != nil {
		e.declareFunctions(e.unit.Root)
		e.genNode(e.unit.Root)
	}
	e.solve()
	e.assign()
	return &Result{
		NodeTypes:        e.nodeTypes,
		SymOfNode:        e.symOfNode,
		Bindings:         e.bindings,
		ConstraintsTotal: e.generated,
		ConstraintsLeft:  len(e.constraints),
	}
}

func (e *Engine) add(c Constraint) {
	e.generated++
	e.constraints = append(e.constraints, c)
}

func (e *Engine) span(id ast.NodeID) source.Span { return e.unit.Span(id) }

func (e *Engine) nameOf(tok ast.TokenID) (source.StringID, string) {
	t := e.unit.Token(tok)
	if t == nil {
		return source.NoStringID, ""
	}
	text, _ := e.names.Lookup(t.Text)
	return t.Text, text
}

func (e *Engine) format(id types.TypeID) string {
	return e.types.Format(e.bindings.Resolve(id), e.names)
}

// declareFunctions pre-registers top-level functions so calls may appear
// before the definition.
func (e *Engine) declareFunctions(root ast.NodeID) {
	for _, declID := range e.unit.Children(root) {
		decl := e.unit.Node(declID)
		if decl == nil || decl.Kind != ast.NodeFunc {
			continue
		}
		name, text := e.nameOf(decl.Token)
		flags := symbols.SymbolFlagInitialized
		if decl.Flags&ast.NodeFlagPublic != 0 {
			flags |= symbols.SymbolFlagPublic
		}
		id, existing, ok := e.res.Declare(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolFunction,
			Span:  e.span(declID),
			Flags: flags,
			Type:  e.funcSignature(declID),
			Decl:  declID,
		})
		if !ok {
			e.reportDuplicate(text, e.span(declID), existing)
			continue
		}
		e.symOfNode[declID] = id
	}
}

func (e *Engine) reportDuplicate(name string, sp source.Span, existing symbols.SymbolID) {
	b := diag.ReportError(e.reporter, diag.DuplicateDefinition, sp,
		fmt.Sprintf("`%s` is already defined in this scope", name))
	if prev := e.res.Table().Symbols.Get(existing); prev != nil {
		b.WithNote(prev.Span, "previous definition is here")
	}
	b.Emit()
}

// funcSignature builds the function type from annotations alone; missing
// parameter annotations become fresh inference variables shared with the
// parameter symbols declared later.
func (e *Engine) funcSignature(fnID ast.NodeID) types.TypeID {
	children := e.unit.Children(fnID)
	if len(children) < 3 {
		return types.NoTypeID
	}
	paramList, retAnnot := children[0], children[1]
	var params []types.TypeID
	for _, p := range e.unit.Children(paramList) {
		params = append(params, e.paramType(p))
	}
	ret := e.types.Builtins().Void
	if retAnnot.IsValid() {
		ret = e.typeFromAnnotation(retAnnot)
	}
	return e.types.MakeFunction(params, ret)
}

// paramType resolves a parameter's annotation, creating (and caching on the
// param node) a fresh variable when the annotation is absent.
func (e *Engine) paramType(paramID ast.NodeID) types.TypeID {
	if t, ok := e.nodeTypes[paramID]; ok {
		return t
	}
	var t types.TypeID
	if annot := e.unit.Child(paramID, 0); annot.IsValid() {
		t = e.typeFromAnnotation(annot)
	} else {
		t = e.types.NewInferVar()
	}
	e.nodeTypes[paramID] = t
	return t
}

// typeFromAnnotation lowers a type-annotation subtree to a canonical TypeID.
// Malformed annotations degrade to a fresh variable so inference can keep
// going; the parser front end is responsible for the syntax error.
func (e *Engine) typeFromAnnotation(id ast.NodeID) types.TypeID {
	n := e.unit.Node(id)
	if n == nil {
		return e.types.NewInferVar()
	}
	switch n.Kind {
	case ast.NodePrimType:
		_, text := e.nameOf(n.Token)
		if k, ok := primNames[text]; ok {
			return e.types.Primitive(k)
		}
		diag.ReportError(e.reporter, diag.UnresolvedSymbol, e.span(id),
			fmt.Sprintf("unknown type name `%s`", text)).Emit()
		return e.types.NewInferVar()
	case ast.NodePointerType:
		return e.types.MakePointer(e.typeFromAnnotation(e.unit.Child(id, 0)))
	case ast.NodeArrayType:
		elem := e.typeFromAnnotation(e.unit.Child(id, 0))
		count := e.intLiteralValue(e.unit.Child(id, 1))
		return e.types.MakeArray(elem, uint32(count))
	case ast.NodeSliceType:
		return e.types.MakeSlice(e.typeFromAnnotation(e.unit.Child(id, 0)))
	case ast.NodeOptionalType:
		return e.types.MakeOptional(e.typeFromAnnotation(e.unit.Child(id, 0)))
	case ast.NodeTensorType:
		children := e.unit.Children(id)
		elem := e.typeFromAnnotation(children[0])
		dims := make([]uint32, 0, len(children)-1)
		for _, d := range children[1:] {
			dims = append(dims, uint32(e.intLiteralValue(d)))
		}
		return e.types.MakeTensor(elem, dims, types.SpaceHost)
	case ast.NodeAllocType:
		return e.types.MakeAllocator()
	case ast.NodeCtxBoundType:
		return e.types.MakeCtxBound(e.typeFromAnnotation(e.unit.Child(id, 0)))
	default:
		return e.types.NewInferVar()
	}
}

var primNames = map[string]types.Kind{
	"i32":    types.KindI32,
	"i64":    types.KindI64,
	"f32":    types.KindF32,
	"f64":    types.KindF64,
	"bool":   types.KindBool,
	"string": types.KindString,
	"void":   types.KindVoid,
	"never":  types.KindNever,
}

func (e *Engine) intLiteralValue(id ast.NodeID) int64 {
	n := e.unit.Node(id)
	if n == nil {
		return 0
	}
	_, text := e.nameOf(n.Token)
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
