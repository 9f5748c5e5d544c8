package infer

import (
	"strings"
	"testing"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/source"
	"janus/internal/symbols"
	"janus/internal/testkit"
	"janus/internal/types"
)

type fixture struct {
	names *source.Interner
	types *types.Interner
	table *symbols.Table
	bag   *diag.Bag
	res   *Result
	unit  *ast.Unit
}

func run(t *testing.T, build func(s *testkit.Synth) *ast.Unit) *fixture {
	t.Helper()
	names := source.NewInterner()
	s := testkit.NewSynth(1, 1, names)
	u := build(s)
	if err := testkit.CheckUnitInvariants(u); err != nil {
		t.Fatalf("unit invariants: %v", err)
	}
	in := types.NewInterner()
	table := symbols.NewTable(symbols.Hints{}, names)
	root := table.UnitRoot(u.Root, u.Span(u.Root))
	res := symbols.NewResolver(table, root)
	bag := diag.NewBag(0)
	eng := New(u, names, in, res, diag.BagReporter{Bag: bag})
	return &fixture{
		names: names,
		types: in,
		table: table,
		bag:   bag,
		res:   eng.Run(),
		unit:  u,
	}
}

func (f *fixture) symbolNamed(t *testing.T, name string) *symbols.Symbol {
	t.Helper()
	id := f.names.Intern(name)
	for i := 1; i <= f.table.Symbols.Len(); i++ {
		sym := f.table.Symbols.Get(symbols.SymbolID(i))
		if sym != nil && sym.Name == id {
			return sym
		}
	}
	t.Fatalf("no symbol named %q", name)
	return nil
}

func (f *fixture) mustClean(t *testing.T) {
	t.Helper()
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
}

func (f *fixture) mustHave(t *testing.T, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range f.bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("expected diagnostic %s, got %v", code.ID(), f.bag.Items())
	return diag.Diagnostic{}
}

func TestLetInfersFromInitializer(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("x", ast.NoNodeID, s.Int(1)))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "x").Type; got != f.types.Builtins().I32 {
		t.Fatalf("x: got %s, want i32", f.types.Format(got, f.names))
	}
}

func TestAnnotationWidensInitializer(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("x", s.PrimType("i64"), s.Int(1)))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "x").Type; got != f.types.Builtins().I64 {
		t.Fatalf("x: got %s, want i64", f.types.Format(got, f.names))
	}
}

func TestAnnotationRejectsNarrowing(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("x", s.PrimType("i32"), s.Float("1.5")))
	})
	f.mustHave(t, diag.TypeMismatch)
}

func TestIdentifierUsesShareOneVariable(t *testing.T) {
	// let x; let y: i64 = x  -- x's variable binds through the subtype
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("x", ast.NoNodeID, s.Int(7)),
			s.Let("y", s.PrimType("i64"), s.Ident("x")),
		)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "x").Type; got != f.types.Builtins().I32 {
		t.Fatalf("x: got %s", f.types.Format(got, f.names))
	}
}

func TestChainedVariablesResolveFully(t *testing.T) {
	// a, b and the array element variable chain onto each other; the single
	// i64 annotation at the end must propagate back through every hop with
	// no residual indirection in any symbol or node type
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("a", ast.NoNodeID, ast.NoNodeID),
			s.Let("b", ast.NoNodeID, ast.NoNodeID),
			s.Let("xs", ast.NoNodeID, s.ArrayLit(s.Ident("a"), s.Ident("b"))),
			s.Let("last", s.PrimType("i64"), s.Ident("a")),
		)
	})
	f.mustClean(t)
	i64 := f.types.Builtins().I64
	for _, name := range []string{"a", "b", "last"} {
		sym := f.symbolNamed(t, name)
		if sym.Type != i64 {
			t.Fatalf("%s: got %s, want fully resolved i64", name, f.types.Format(sym.Type, f.names))
		}
	}
	if got, want := f.symbolNamed(t, "xs").Type, f.types.MakeArray(i64, 2); got != want {
		t.Fatalf("xs: got %s, want [2]i64", f.types.Format(got, f.names))
	}
}

func TestArithmeticDefaultsToI32(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("n", ast.NoNodeID, ast.NoNodeID),
			s.ExprStmt(s.Bin(ast.TokPlus, s.Ident("n"), s.Ident("n"))),
		)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "n").Type; got != f.types.Builtins().I32 {
		t.Fatalf("n: got %s, want defaulted i32", f.types.Format(got, f.names))
	}
}

func TestExplicitBindingBeatsDefault(t *testing.T) {
	// n participates in arithmetic but is pinned to f64 by an annotation;
	// the i32 default must not fire
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("n", s.PrimType("f64"), ast.NoNodeID),
			s.ExprStmt(s.Bin(ast.TokPlus, s.Ident("n"), s.Ident("n"))),
		)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "n").Type; got != f.types.Builtins().F64 {
		t.Fatalf("n: got %s, want f64", f.types.Format(got, f.names))
	}
}

func TestComparisonYieldsBool(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		cmp := s.Bin(ast.TokLt, s.Int(1), s.Int(2))
		return s.Unit(s.Let("ok", ast.NoNodeID, cmp))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "ok").Type; got != f.types.Builtins().Bool {
		t.Fatalf("ok: got %s, want bool", f.types.Format(got, f.names))
	}
}

func TestLogicalRequiresBool(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.ExprStmt(s.Bin(ast.TokAndAnd, s.Int(1), s.Bool(true))))
	})
	f.mustHave(t, diag.TypeMismatch)
}

func TestArrayLiteralUnifiesElements(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		arr := s.ArrayLit(s.Int(1), s.Int(2), s.Int(3))
		return s.Unit(s.Let("xs", ast.NoNodeID, arr))
	})
	f.mustClean(t)
	got := f.symbolNamed(t, "xs").Type
	want := f.types.MakeArray(f.types.Builtins().I32, 3)
	if got != want {
		t.Fatalf("xs: got %s, want [3]i32", f.types.Format(got, f.names))
	}
}

func TestIndexingArrayYieldsElement(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		arr := s.ArrayLit(s.Int(10), s.Int(20))
		return s.Unit(
			s.Let("xs", ast.NoNodeID, arr),
			s.Let("x", ast.NoNodeID, s.Index(s.Ident("xs"), s.Int(0))),
		)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "x").Type; got != f.types.Builtins().I32 {
		t.Fatalf("x: got %s, want i32", f.types.Format(got, f.names))
	}
}

func TestIndexingNonIndexable(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("b", ast.NoNodeID, s.Bool(true)),
			s.ExprStmt(s.Index(s.Ident("b"), s.Int(0))),
		)
	})
	f.mustHave(t, diag.NotIndexable)
}

func TestCallResolvesThroughSignature(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		body := s.Block(s.Ret(s.Ident("a")))
		fn := s.Func("double", []ast.NodeID{s.Param("a", s.PrimType("i64"))}, s.PrimType("i64"), body)
		call := s.Call(s.Ident("double"), s.Int(2))
		return s.Unit(fn, s.Let("r", ast.NoNodeID, call))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "r").Type; got != f.types.Builtins().I64 {
		t.Fatalf("r: got %s, want i64", f.types.Format(got, f.names))
	}
}

func TestCallBeforeDefinition(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		call := s.Call(s.Ident("late"), s.Int(1))
		body := s.Block(s.Ret(s.Int(0)))
		fn := s.Func("late", []ast.NodeID{s.Param("n", s.PrimType("i32"))}, s.PrimType("i32"), body)
		return s.Unit(s.Let("r", ast.NoNodeID, call), fn)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "r").Type; got != f.types.Builtins().I32 {
		t.Fatalf("r: got %s, want i32", f.types.Format(got, f.names))
	}
}

func TestArgumentCountMismatch(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		body := s.Block(s.Ret(s.Int(0)))
		fn := s.Func("one", []ast.NodeID{s.Param("n", s.PrimType("i32"))}, s.PrimType("i32"), body)
		return s.Unit(fn, s.ExprStmt(s.Call(s.Ident("one"), s.Int(1), s.Int(2))))
	})
	d := f.mustHave(t, diag.ArgumentCountMismatch)
	if !strings.Contains(d.Message, "expects 1") {
		t.Fatalf("message: %q", d.Message)
	}
}

func TestCallingNonFunction(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("n", ast.NoNodeID, s.Int(1)),
			s.ExprStmt(s.Call(s.Ident("n"))),
		)
	})
	f.mustHave(t, diag.NotAFunction)
}

func TestUnresolvedIdentifierSuggests(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("counter", ast.NoNodeID, s.Int(0)),
			s.ExprStmt(s.Ident("countre")),
		)
	})
	d := f.mustHave(t, diag.UnresolvedSymbol)
	if len(d.Suggestions) == 0 {
		t.Fatalf("expected a suggestion for `countre`")
	}
	if d.Suggestions[0].Replacement != "counter" {
		t.Fatalf("suggestion: got %q, want counter", d.Suggestions[0].Replacement)
	}
}

func TestDuplicateLetInScope(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("x", ast.NoNodeID, s.Int(1)),
			s.Let("x", ast.NoNodeID, s.Int(2)),
		)
	})
	d := f.mustHave(t, diag.DuplicateDefinition)
	if len(d.Notes) == 0 {
		t.Fatalf("expected note pointing at the previous definition")
	}
}

func TestShadowingInInnerBlock(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		inner := s.Block(s.Let("x", ast.NoNodeID, s.Str("s")))
		return s.Unit(s.Let("x", ast.NoNodeID, s.Int(1)), inner)
	})
	f.mustClean(t)
}

func TestRangeBoundsMustMatchExactly(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("hi", s.PrimType("i64"), ast.NoNodeID),
			s.ExprStmt(s.Range(false, s.Int(0), s.Ident("hi"))),
		)
	})
	f.mustHave(t, diag.RangeBoundMismatch)
}

func TestForIterationBindsElement(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		body := s.Block(s.ExprStmt(s.Bin(ast.TokPlus, s.Ident("i"), s.Int(1))))
		loop := s.For("i", s.Range(false, s.Int(0), s.Int(10)), body)
		return s.Unit(loop)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "i").Type; got != f.types.Builtins().I32 {
		t.Fatalf("i: got %s, want i32", f.types.Format(got, f.names))
	}
}

func TestIfConditionMustBeBool(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.If(s.Int(1), s.Block(), ast.NoNodeID))
	})
	f.mustHave(t, diag.TypeMismatch)
}

func TestDereferenceDestructuresPointer(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("p", s.PointerType(s.PrimType("i64")), ast.NoNodeID),
			s.Let("v", ast.NoNodeID, s.Un(ast.TokStar, s.Ident("p"))),
		)
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "v").Type; got != f.types.Builtins().I64 {
		t.Fatalf("v: got %s, want i64", f.types.Format(got, f.names))
	}
}

func TestAddressOfSubstitutesElement(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(
			s.Let("x", ast.NoNodeID, s.Int(5)),
			s.Let("p", ast.NoNodeID, s.Un(ast.TokAmp, s.Ident("x"))),
		)
	})
	f.mustClean(t)
	got := f.symbolNamed(t, "p").Type
	want := f.types.MakePointer(f.types.Builtins().I32)
	if got != want {
		t.Fatalf("p: got %s, want *i32", f.types.Format(got, f.names))
	}
}

func TestCannotInferWithoutEvidence(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("mystery", ast.NoNodeID, ast.NoNodeID))
	})
	f.mustHave(t, diag.CannotInferType)
}

func TestNonExhaustiveBoolMatch(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		m := s.Match(s.Bool(true),
			s.Arm(s.LitPat(s.Bool(true)), s.Int(1)),
		)
		return s.Unit(s.ExprStmt(m))
	})
	d := f.mustHave(t, diag.NonExhaustiveMatch)
	if !strings.Contains(d.Message, "false") {
		t.Fatalf("missing case not named: %q", d.Message)
	}
}

func TestExhaustiveMatchUnifiesArms(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		m := s.Match(s.Bool(true),
			s.Arm(s.LitPat(s.Bool(true)), s.Int(1)),
			s.Arm(s.WildcardPat(), s.Int(2)),
		)
		return s.Unit(s.Let("r", ast.NoNodeID, m))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "r").Type; got != f.types.Builtins().I32 {
		t.Fatalf("r: got %s, want i32", f.types.Format(got, f.names))
	}
}

func TestMatchBindingTakesScrutineeType(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		m := s.Match(s.Str("hello"),
			s.Arm(s.BindPat("s"), s.Int(0)),
		)
		return s.Unit(s.ExprStmt(m))
	})
	f.mustClean(t)
	if got := f.symbolNamed(t, "s").Type; got != f.types.Builtins().String {
		t.Fatalf("s: got %s, want string", f.types.Format(got, f.names))
	}
}

func TestBindingChainResolveGuardsCycles(t *testing.T) {
	in := types.NewInterner()
	b := NewBindings(in)
	v1, v2, v3 := in.NewInferVar(), in.NewInferVar(), in.NewInferVar()
	if !b.Bind(v1, v2) || !b.Bind(v2, v3) {
		t.Fatal("chain binds rejected")
	}
	// closing the loop must be refused, and Resolve must terminate
	if b.Bind(v3, v1) {
		t.Fatal("cycle-closing bind accepted")
	}
	if got := b.Resolve(v1); got != v3 {
		t.Fatalf("Resolve(v1) = %v, want terminal v3", got)
	}
	if !b.Bind(v3, in.Builtins().I64) {
		t.Fatal("terminal bind rejected")
	}
	if got := b.Resolve(v1); got != in.Builtins().I64 {
		t.Fatalf("Resolve(v1) = %v, want i64", got)
	}
}

func TestReturnChecksAgainstSignature(t *testing.T) {
	f := run(t, func(s *testkit.Synth) *ast.Unit {
		body := s.Block(s.Ret(s.Str("nope")))
		fn := s.Func("f", nil, s.PrimType("i32"), body)
		return s.Unit(fn)
	})
	f.mustHave(t, diag.TypeMismatch)
}
