// Package testkit synthesizes AST units programmatically. The parser lives
// outside this module, so tests (and the occasional debugging session) build
// units through Synth instead of source text.
package testkit

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/source"
)

// Synth wraps an ast.Builder with cursor-based synthetic spans so every token
// gets a distinct, ordered location inside the virtual file. Node spans cover
// the node's whole subtree, like parser spans do, even though argument
// evaluation allocates child tokens before the parent's own token.
type Synth struct {
	B      *ast.Builder
	file   source.FileID
	cursor uint32
	extent map[ast.NodeID][2]ast.TokenID
}

// NewSynth starts a synthetic unit. A nil interner allocates a private one.
func NewSynth(unit ast.UnitID, file source.FileID, strings *source.Interner) *Synth {
	return &Synth{
		B:      ast.NewBuilder(unit, file, strings),
		file:   file,
		extent: make(map[ast.NodeID][2]ast.TokenID),
	}
}

// Finish seals the unit with the given root.
func (s *Synth) Finish(root ast.NodeID) *ast.Unit {
	return s.B.Finish(root)
}

// Unit wraps decls in a root node and seals the unit.
func (s *Synth) Unit(decls ...ast.NodeID) *ast.Unit {
	root := s.flaggedNode(ast.NodeUnit, 0, ast.NoTokenID, decls...)
	return s.Finish(root)
}

func (s *Synth) tok(kind ast.TokenKind, text string) ast.TokenID {
	width := uint32(len(text))
	if width == 0 {
		width = 1
	}
	span := source.Span{File: s.file, Start: s.cursor, End: s.cursor + width}
	s.cursor += width + 1
	return s.B.AddToken(kind, text, span)
}

func (s *Synth) node(kind ast.NodeKind, tok ast.TokenID, children ...ast.NodeID) ast.NodeID {
	return s.flaggedNode(kind, 0, tok, children...)
}

// flaggedNode folds the children's extents into the node's token range.
// Token IDs grow with the cursor, so min/max over IDs is min/max over spans.
func (s *Synth) flaggedNode(kind ast.NodeKind, flags ast.NodeFlags, tok ast.TokenID, children ...ast.NodeID) ast.NodeID {
	first, last := tok, tok
	for _, c := range children {
		ext, ok := s.extent[c]
		if !ok {
			continue
		}
		if ext[0].IsValid() && (!first.IsValid() || ext[0] < first) {
			first = ext[0]
		}
		if ext[1].IsValid() && (!last.IsValid() || ext[1] > last) {
			last = ext[1]
		}
	}
	id := s.B.AddNode(kind, flags, tok, first, last, children...)
	s.extent[id] = [2]ast.TokenID{first, last}
	return id
}

// Literals --------------------------------------------------------------------

func (s *Synth) Int(v int64) ast.NodeID {
	return s.node(ast.NodeIntLit, s.tok(ast.TokIntLit, fmt.Sprintf("%d", v)))
}

func (s *Synth) Float(text string) ast.NodeID {
	return s.node(ast.NodeFloatLit, s.tok(ast.TokFloatLit, text))
}

func (s *Synth) Bool(v bool) ast.NodeID {
	if v {
		return s.node(ast.NodeBoolLit, s.tok(ast.TokTrue, "true"))
	}
	return s.node(ast.NodeBoolLit, s.tok(ast.TokFalse, "false"))
}

func (s *Synth) Str(text string) ast.NodeID {
	return s.node(ast.NodeStringLit, s.tok(ast.TokStringLit, text))
}

// Expressions -----------------------------------------------------------------

func (s *Synth) Ident(name string) ast.NodeID {
	return s.node(ast.NodeIdent, s.tok(ast.TokIdent, name))
}

func (s *Synth) Bin(op ast.TokenKind, lhs, rhs ast.NodeID) ast.NodeID {
	return s.node(ast.NodeBinary, s.tok(op, op.String()), lhs, rhs)
}

func (s *Synth) Un(op ast.TokenKind, operand ast.NodeID) ast.NodeID {
	return s.node(ast.NodeUnary, s.tok(op, op.String()), operand)
}

func (s *Synth) Call(callee ast.NodeID, args ...ast.NodeID) ast.NodeID {
	children := append([]ast.NodeID{callee}, args...)
	return s.node(ast.NodeCall, ast.NoTokenID, children...)
}

func (s *Synth) Index(base, index ast.NodeID) ast.NodeID {
	return s.node(ast.NodeIndex, ast.NoTokenID, base, index)
}

func (s *Synth) Field(base ast.NodeID, name string) ast.NodeID {
	return s.node(ast.NodeField, s.tok(ast.TokIdent, name), base)
}

func (s *Synth) ArrayLit(elems ...ast.NodeID) ast.NodeID {
	return s.node(ast.NodeArrayLit, ast.NoTokenID, elems...)
}

func (s *Synth) Range(inclusive bool, lo, hi ast.NodeID) ast.NodeID {
	kind := ast.TokRange
	if inclusive {
		kind = ast.TokRangeEq
	}
	return s.node(ast.NodeRange, s.tok(kind, kind.String()), lo, hi)
}

// Statements ------------------------------------------------------------------

// Let declares a variable. Pass ast.NoNodeID for a missing annotation or
// initializer.
func (s *Synth) Let(name string, annotation, init ast.NodeID) ast.NodeID {
	return s.node(ast.NodeLet, s.tok(ast.TokIdent, name), annotation, init)
}

// LetMut is Let with the mutable flag set.
func (s *Synth) LetMut(name string, annotation, init ast.NodeID) ast.NodeID {
	return s.flaggedNode(ast.NodeLet, ast.NodeFlagMutable, s.tok(ast.TokIdent, name), annotation, init)
}

func (s *Synth) Assign(target, value ast.NodeID) ast.NodeID {
	return s.node(ast.NodeAssign, s.tok(ast.TokAssign, "="), target, value)
}

func (s *Synth) Block(stmts ...ast.NodeID) ast.NodeID {
	return s.node(ast.NodeBlock, ast.NoTokenID, stmts...)
}

func (s *Synth) If(cond, then, els ast.NodeID) ast.NodeID {
	return s.node(ast.NodeIf, ast.NoTokenID, cond, then, els)
}

func (s *Synth) While(cond, body ast.NodeID) ast.NodeID {
	return s.node(ast.NodeWhile, ast.NoTokenID, cond, body)
}

func (s *Synth) For(binding string, iterable, body ast.NodeID) ast.NodeID {
	return s.node(ast.NodeFor, s.tok(ast.TokIdent, binding), iterable, body)
}

func (s *Synth) Ret(value ast.NodeID) ast.NodeID {
	return s.node(ast.NodeReturn, ast.NoTokenID, value)
}

func (s *Synth) Break() ast.NodeID {
	return s.node(ast.NodeBreak, ast.NoTokenID)
}

func (s *Synth) Continue() ast.NodeID {
	return s.node(ast.NodeContinue, ast.NoTokenID)
}

func (s *Synth) ExprStmt(expr ast.NodeID) ast.NodeID {
	return s.node(ast.NodeExprStmt, ast.NoTokenID, expr)
}

// Declarations ----------------------------------------------------------------

func (s *Synth) Param(name string, annotation ast.NodeID) ast.NodeID {
	return s.node(ast.NodeParam, s.tok(ast.TokIdent, name), annotation)
}

// Func declares a function. ret may be ast.NoNodeID for void.
func (s *Synth) Func(name string, params []ast.NodeID, ret, body ast.NodeID) ast.NodeID {
	list := s.node(ast.NodeParamList, ast.NoTokenID, params...)
	return s.node(ast.NodeFunc, s.tok(ast.TokIdent, name), list, ret, body)
}

// Match -----------------------------------------------------------------------

func (s *Synth) Match(scrutinee ast.NodeID, arms ...ast.NodeID) ast.NodeID {
	children := append([]ast.NodeID{scrutinee}, arms...)
	return s.node(ast.NodeMatch, ast.NoTokenID, children...)
}

func (s *Synth) Arm(pattern, body ast.NodeID) ast.NodeID {
	return s.node(ast.NodeMatchArm, ast.NoTokenID, pattern, body)
}

func (s *Synth) WildcardPat() ast.NodeID {
	return s.node(ast.NodeWildcardPat, s.tok(ast.TokOther, "_"))
}

func (s *Synth) LitPat(lit ast.NodeID) ast.NodeID {
	return s.node(ast.NodeLiteralPat, ast.NoTokenID, lit)
}

func (s *Synth) BindPat(name string) ast.NodeID {
	return s.node(ast.NodeBindingPat, s.tok(ast.TokIdent, name))
}

func (s *Synth) VariantPat(name string) ast.NodeID {
	return s.node(ast.NodeVariantPat, s.tok(ast.TokIdent, name))
}

func (s *Synth) TuplePat(elems ...ast.NodeID) ast.NodeID {
	return s.node(ast.NodeTuplePat, ast.NoTokenID, elems...)
}

func (s *Synth) FieldPat(name string, pat ast.NodeID) ast.NodeID {
	return s.node(ast.NodeFieldPat, s.tok(ast.TokIdent, name), pat)
}

func (s *Synth) StructPat(fields ...ast.NodeID) ast.NodeID {
	return s.node(ast.NodeStructPat, ast.NoTokenID, fields...)
}

// Type annotations ------------------------------------------------------------

func (s *Synth) PrimType(name string) ast.NodeID {
	return s.node(ast.NodePrimType, s.tok(ast.TokIdent, name))
}

func (s *Synth) PointerType(elem ast.NodeID) ast.NodeID {
	return s.node(ast.NodePointerType, ast.NoTokenID, elem)
}

func (s *Synth) ArrayType(elem ast.NodeID, length int64) ast.NodeID {
	return s.node(ast.NodeArrayType, ast.NoTokenID, elem, s.Int(length))
}

func (s *Synth) SliceType(elem ast.NodeID) ast.NodeID {
	return s.node(ast.NodeSliceType, ast.NoTokenID, elem)
}

func (s *Synth) OptionalType(elem ast.NodeID) ast.NodeID {
	return s.node(ast.NodeOptionalType, ast.NoTokenID, elem)
}

func (s *Synth) TensorType(elem ast.NodeID, dims ...int64) ast.NodeID {
	children := []ast.NodeID{elem}
	for _, d := range dims {
		children = append(children, s.Int(d))
	}
	return s.node(ast.NodeTensorType, ast.NoTokenID, children...)
}
