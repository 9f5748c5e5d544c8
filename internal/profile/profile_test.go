package profile

import (
	"strings"
	"testing"

	"janus/internal/diag"
	"janus/internal/source"
	"janus/internal/types"
)

func TestProfileOrdering(t *testing.T) {
	order := []Profile{Core, Service, Cluster, Compute, Sovereign}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Fatalf("profiles must be strictly ordered: %v >= %v", order[i-1], order[i])
		}
	}
	if !Sovereign.Allows(Core) || Core.Allows(Sovereign) {
		t.Fatalf("Allows must follow rank order")
	}
}

func TestParseAliases(t *testing.T) {
	cases := map[string]Profile{
		"core":      Core,
		"teaching":  Core,
		"Edge":      Service,
		"GRID":      Cluster,
		"npu":       Compute,
		"full":      Sovereign,
		"sovereign": Sovereign,
	}
	for name, want := range cases {
		got, ok := Parse(name)
		if !ok || got != want {
			t.Fatalf("Parse(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := Parse("enterprise"); ok {
		t.Fatalf("unknown alias must not parse")
	}
}

func TestSovereignFeatureUnderCore(t *testing.T) {
	bag := diag.NewBag(0)
	m := NewManager(Core, false, diag.BagReporter{Bag: bag})

	if m.CheckFeature(FeatActors, source.Span{}) {
		t.Fatalf("actors must be rejected under core")
	}
	if bag.Len() != 1 {
		t.Fatalf("violation must be recorded, not thrown")
	}
	d := bag.Items()[0]
	if d.Code != diag.ProfileViolation || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if !strings.Contains(d.Message, "actors") ||
		!strings.Contains(d.Message, "sovereign") ||
		!strings.Contains(d.Message, "core") {
		t.Fatalf("message must name the feature and both profiles: %q", d.Message)
	}
}

func TestSovereignFeatureUnderSovereign(t *testing.T) {
	bag := diag.NewBag(0)
	m := NewManager(Sovereign, false, diag.BagReporter{Bag: bag})
	if !m.CheckFeature(FeatActors, source.Span{}) || bag.Len() != 0 {
		t.Fatalf("sovereign must grant its own features without a violation")
	}
}

func TestViolationsAccumulate(t *testing.T) {
	bag := diag.NewBag(0)
	m := NewManager(Core, false, diag.BagReporter{Bag: bag})
	m.CheckFeature(FeatTensors, source.Span{})
	m.CheckFeature(FeatGenerics, source.Span{})
	m.CheckOperator(OpAddressOf, source.Span{})
	if bag.Len() != 3 {
		t.Fatalf("all violations must accumulate in one pass, got %d", bag.Len())
	}
}

func TestPrimitiveRestriction(t *testing.T) {
	bag := diag.NewBag(0)
	m := NewManager(Core, false, diag.BagReporter{Bag: bag})
	if m.CheckPrimitive(types.KindF32, source.Span{}) {
		t.Fatalf("f32 is outside the core envelope")
	}
	if !m.CheckPrimitive(types.KindI32, source.Span{}) {
		t.Fatalf("i32 must pass under core")
	}
	// Non-primitive kinds are out of scope for the envelope check.
	if !m.CheckPrimitive(types.KindTensor, source.Span{}) {
		t.Fatalf("composite kinds are not the envelope's business")
	}
}

func TestParamLimit(t *testing.T) {
	bag := diag.NewBag(0)
	m := NewManager(Core, false, diag.BagReporter{Bag: bag})
	if !m.CheckParamCount(4, source.Span{}) {
		t.Fatalf("4 params fit the core limit")
	}
	if m.CheckParamCount(5, source.Span{}) {
		t.Fatalf("5 params exceed the core limit")
	}
}

func TestNPUGateIsOrthogonal(t *testing.T) {
	bag := diag.NewBag(0)
	// Sovereign rank alone does not open the compute gate.
	m := NewManager(Sovereign, false, diag.BagReporter{Bag: bag})
	if m.CheckNPU(source.Span{}) {
		t.Fatalf("NPU gate must be independent of profile rank")
	}
	granted := NewManager(Core, true, diag.BagReporter{Bag: bag})
	if !granted.CheckNPU(source.Span{}) {
		t.Fatalf("explicit npu grant must pass")
	}
}
