package symbols

import (
	"testing"

	"janus/internal/ast"
	"janus/internal/source"
)

func newTestTable() (*Table, *Resolver) {
	table := NewTable(Hints{}, nil)
	root := table.UnitRoot(ast.NoNodeID, source.Span{})
	return table, NewResolver(table, root)
}

func TestDeclareAndResolve(t *testing.T) {
	table, res := newTestTable()
	name := table.Strings.Intern("x")

	id, _, ok := res.Declare(Symbol{Name: name, Kind: SymbolVar})
	if !ok || !id.IsValid() {
		t.Fatalf("declare failed")
	}
	if got := res.Resolve(name); got != id {
		t.Fatalf("resolve returned %v, want %v", got, id)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDuplicateInSameScope(t *testing.T) {
	table, res := newTestTable()
	name := table.Strings.Intern("x")

	first, _, ok := res.Declare(Symbol{Name: name, Kind: SymbolVar})
	if !ok {
		t.Fatalf("first declare failed")
	}
	_, existing, ok := res.Declare(Symbol{Name: name, Kind: SymbolVar})
	if ok {
		t.Fatalf("redeclaration in same scope must fail")
	}
	if existing != first {
		t.Fatalf("conflict must name the original symbol, got %v want %v", existing, first)
	}
}

func TestShadowingInNestedScope(t *testing.T) {
	table, res := newTestTable()
	name := table.Strings.Intern("x")

	outer, _, _ := res.Declare(Symbol{Name: name, Kind: SymbolVar})
	block := res.Enter(ScopeBlock, ast.NoNodeID, source.Span{})
	inner, _, ok := res.Declare(Symbol{Name: name, Kind: SymbolVar})
	if !ok {
		t.Fatalf("shadowing in nested scope must be legal")
	}
	if got := res.Resolve(name); got != inner {
		t.Fatalf("inner scope must see the shadow, got %v", got)
	}
	res.Leave(block)
	if got := res.Resolve(name); got != outer {
		t.Fatalf("outer scope must see the original, got %v", got)
	}
}

func TestResolveMissReturnsSentinel(t *testing.T) {
	table, res := newTestTable()
	if got := res.Resolve(table.Strings.Intern("nope")); got != NoSymbolID {
		t.Fatalf("miss must be NoSymbolID, got %v", got)
	}
}

func TestLookupLocalIgnoresParents(t *testing.T) {
	table, res := newTestTable()
	name := table.Strings.Intern("x")
	res.Declare(Symbol{Name: name, Kind: SymbolVar})

	block := res.Enter(ScopeBlock, ast.NoNodeID, source.Span{})
	if got := res.LookupLocal(name); got != NoSymbolID {
		t.Fatalf("local lookup must not see parent scopes")
	}
	res.Leave(block)
}

func TestUnbalancedLeavePanics(t *testing.T) {
	_, res := newTestTable()
	block := res.Enter(ScopeBlock, ast.NoNodeID, source.Span{})
	defer func() {
		if recover() == nil {
			t.Fatalf("mismatched Leave must panic")
		}
	}()
	res.Leave(block + 100)
}

func TestSimilarNames(t *testing.T) {
	table, res := newTestTable()
	for _, n := range []string{"count", "counter", "total", "Vec"} {
		res.Declare(Symbol{Name: table.Strings.Intern(n), Kind: SymbolVar})
	}

	got := table.SimilarNames(res.CurrentScope(), "coutn", 3)
	if len(got) == 0 || got[0].Name != "count" {
		t.Fatalf("expected `count` as best suggestion, got %+v", got)
	}

	folded := table.SimilarNames(res.CurrentScope(), "vec", 3)
	if len(folded) == 0 || folded[0].Name != "Vec" {
		t.Fatalf("case-folded match expected, got %+v", folded)
	}
	if folded[0].Confidence() < 0.9 {
		t.Fatalf("case-only difference should score high, got %v", folded[0].Confidence())
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"kitten", "sitting", 3},
		{"count", "coutn", 2},
	}
	for _, c := range cases {
		if got := editDistance(c.a, c.b); got != c.want {
			t.Fatalf("editDistance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
