package sema

import (
	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/profile"
	"janus/internal/source"
	"janus/internal/types"
)

// checkProfile walks the tree once and validates every construct against the
// active profile: gated node kinds, operator classes, primitive type names
// and function arity. Violations accumulate; the walk never stops early.
func (s *Session) checkProfile(reporter diag.Reporter) {
	mgr := profile.NewManager(s.cfg.Profile, s.cfg.NPU, reporter)
	s.profileNode(mgr, s.unit.Root)
}

func (s *Session) profileNode(mgr *profile.Manager, id ast.NodeID) {
	n := s.unit.Node(id)
	if n == nil {
		return
	}
	sp := s.unit.Span(id)
	switch n.Kind {
	case ast.NodeLet:
		mgr.CheckFeature(profile.FeatVariables, sp)
	case ast.NodeFunc:
		mgr.CheckFeature(profile.FeatFunctions, sp)
		if params := s.unit.Child(id, 0); params.IsValid() {
			mgr.CheckParamCount(len(s.unit.Children(params)), sp)
		}
	case ast.NodeIf, ast.NodeWhile, ast.NodeFor:
		mgr.CheckFeature(profile.FeatControlFlow, sp)
	case ast.NodeMatch:
		mgr.CheckFeature(profile.FeatMatch, sp)
	case ast.NodeArrayLit, ast.NodeArrayType:
		mgr.CheckFeature(profile.FeatArrays, sp)
	case ast.NodeRange:
		mgr.CheckFeature(profile.FeatRanges, sp)
		mgr.CheckOperator(profile.OpRange, sp)
	case ast.NodeSliceType:
		mgr.CheckFeature(profile.FeatSlices, sp)
	case ast.NodeOptionalType:
		mgr.CheckFeature(profile.FeatOptionals, sp)
	case ast.NodePointerType:
		mgr.CheckFeature(profile.FeatPointers, sp)
	case ast.NodeAllocType:
		mgr.CheckFeature(profile.FeatAllocators, sp)
	case ast.NodeCtxBoundType:
		mgr.CheckFeature(profile.FeatContextBound, sp)
	case ast.NodeTensorType:
		mgr.CheckFeature(profile.FeatTensors, sp)
		mgr.CheckNPU(sp)
	case ast.NodePrimType:
		if k := s.primKind(n); k != types.KindInvalid {
			mgr.CheckPrimitive(k, sp)
		}
	case ast.NodeBinary:
		s.profileOperator(mgr, n, sp)
	case ast.NodeUnary:
		s.profileUnary(mgr, n, sp)
	}
	for _, c := range s.unit.Children(id) {
		s.profileNode(mgr, c)
	}
}

func (s *Session) profileOperator(mgr *profile.Manager, n *ast.Node, sp source.Span) {
	tok := s.unit.Token(n.Token)
	if tok == nil {
		return
	}
	switch tok.Kind {
	case ast.TokPlus, ast.TokMinus, ast.TokStar, ast.TokSlash, ast.TokPercent:
		mgr.CheckOperator(profile.OpArithmetic, sp)
	case ast.TokEqEq, ast.TokNotEq, ast.TokLt, ast.TokLtEq, ast.TokGt, ast.TokGtEq:
		mgr.CheckOperator(profile.OpComparison, sp)
	case ast.TokAndAnd, ast.TokOrOr:
		mgr.CheckOperator(profile.OpLogical, sp)
	}
}

func (s *Session) profileUnary(mgr *profile.Manager, n *ast.Node, sp source.Span) {
	tok := s.unit.Token(n.Token)
	if tok == nil {
		return
	}
	switch tok.Kind {
	case ast.TokAmp:
		mgr.CheckFeature(profile.FeatPointers, sp)
		mgr.CheckOperator(profile.OpAddressOf, sp)
	case ast.TokStar:
		mgr.CheckFeature(profile.FeatPointers, sp)
		mgr.CheckOperator(profile.OpDereference, sp)
	case ast.TokMinus:
		mgr.CheckOperator(profile.OpArithmetic, sp)
	case ast.TokBang:
		mgr.CheckOperator(profile.OpLogical, sp)
	}
}

func (s *Session) primKind(n *ast.Node) types.Kind {
	tok := s.unit.Token(n.Token)
	if tok == nil {
		return types.KindInvalid
	}
	text, _ := s.names.Lookup(tok.Text)
	switch text {
	case "i32":
		return types.KindI32
	case "i64":
		return types.KindI64
	case "f32":
		return types.KindF32
	case "f64":
		return types.KindF64
	case "bool":
		return types.KindBool
	case "string":
		return types.KindString
	case "void":
		return types.KindVoid
	case "never":
		return types.KindNever
	default:
		return types.KindInvalid
	}
}
