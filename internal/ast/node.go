package ast

// NodeKind enumerates the node shapes the semantic core analyzes.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota

	// NodeUnit is the root; children are top-level declarations.
	NodeUnit

	// literals
	NodeIntLit
	NodeFloatLit
	NodeBoolLit
	NodeStringLit

	// expressions
	NodeIdent    // Token = name
	NodeBinary   // Token = operator; children [lhs, rhs]
	NodeUnary    // Token = operator; children [operand]
	NodeCall     // children [callee, args...]
	NodeIndex    // children [base, index]
	NodeField    // Token = field name; children [base]
	NodeArrayLit // children [elems...]
	NodeRange    // Token = .. or ..=; children [lo, hi]

	// statements
	NodeLet      // Token = name; children [annotation|0, init|0]
	NodeAssign   // children [target, value]
	NodeBlock    // children [stmts...]
	NodeIf       // children [cond, then, else|0]
	NodeWhile    // children [cond, body]
	NodeFor      // Token = binding name; children [iterable, body]
	NodeReturn   // children [value|0]
	NodeBreak
	NodeContinue
	NodeExprStmt // children [expr]

	// declarations
	NodeFunc      // Token = name; children [paramList, returnType|0, body]
	NodeParamList // children [params...]
	NodeParam     // Token = name; children [annotation|0]

	// match
	NodeMatch    // children [scrutinee, arms...]
	NodeMatchArm // children [pattern, body]

	// patterns
	NodeWildcardPat
	NodeLiteralPat // children [literal]
	NodeBindingPat // Token = name
	NodeVariantPat // Token = variant name
	NodeTuplePat   // children [elems...]
	NodeStructPat  // children [field pats...]
	NodeFieldPat   // Token = field name; children [pattern]

	// type annotations
	NodePrimType     // Token = primitive name
	NodePointerType  // children [elem]
	NodeArrayType    // children [elem, len literal]
	NodeSliceType    // children [elem]
	NodeOptionalType // children [elem]
	NodeTensorType   // children [elem, dim literals...]
	NodeAllocType    // allocator handle type
	NodeCtxBoundType // children [inner]
)

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "invalid"
}

var nodeKindNames = [...]string{
	NodeInvalid:      "invalid",
	NodeUnit:         "unit",
	NodeIntLit:       "int_lit",
	NodeFloatLit:     "float_lit",
	NodeBoolLit:      "bool_lit",
	NodeStringLit:    "string_lit",
	NodeIdent:        "ident",
	NodeBinary:       "binary",
	NodeUnary:        "unary",
	NodeCall:         "call",
	NodeIndex:        "index",
	NodeField:        "field",
	NodeArrayLit:     "array_lit",
	NodeRange:        "range",
	NodeLet:          "let",
	NodeAssign:       "assign",
	NodeBlock:        "block",
	NodeIf:           "if",
	NodeWhile:        "while",
	NodeFor:          "for",
	NodeReturn:       "return",
	NodeBreak:        "break",
	NodeContinue:     "continue",
	NodeExprStmt:     "expr_stmt",
	NodeFunc:         "func",
	NodeParamList:    "param_list",
	NodeParam:        "param",
	NodeMatch:        "match",
	NodeMatchArm:     "match_arm",
	NodeWildcardPat:  "wildcard_pat",
	NodeLiteralPat:   "literal_pat",
	NodeBindingPat:   "binding_pat",
	NodeVariantPat:   "variant_pat",
	NodeTuplePat:     "tuple_pat",
	NodeStructPat:    "struct_pat",
	NodeFieldPat:     "field_pat",
	NodePrimType:     "prim_type",
	NodePointerType:  "pointer_type",
	NodeArrayType:    "array_type",
	NodeSliceType:    "slice_type",
	NodeOptionalType: "optional_type",
	NodeTensorType:   "tensor_type",
	NodeAllocType:    "alloc_type",
	NodeCtxBoundType: "ctx_bound_type",
}

// NodeFlags carry per-node modifiers.
type NodeFlags uint8

const (
	NodeFlagMutable NodeFlags = 1 << iota
	NodeFlagPublic
)

// Node is the compact unit-arena record. Token points at the node's principal
// token (name for idents/lets/funcs, operator for binary/unary); FirstToken
// and LastToken delimit the source extent; [ChildStart, ChildEnd) indexes the
// children spine of the unit.
type Node struct {
	Kind       NodeKind
	Flags      NodeFlags
	Token      TokenID
	FirstToken TokenID
	LastToken  TokenID
	ChildStart uint32
	ChildEnd   uint32
}
