package diag

import (
	"testing"

	"janus/internal/source"
)

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(TypeMismatch, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	if !b.Add(NewError(TypeMismatch, source.Span{}, "b")) {
		t.Fatalf("second add must succeed")
	}
	if b.Add(NewError(TypeMismatch, source.Span{}, "c")) {
		t.Fatalf("add beyond cap must fail")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(UnreachableCode, source.Span{}, "unreachable"))
	if b.HasErrors() {
		t.Fatalf("warning must not count as error")
	}
	b.Add(NewError(TypeMismatch, source.Span{}, "mismatch"))
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("expected exactly one error")
	}
}

func TestBagCloneIsDeep(t *testing.T) {
	b := NewBag(0)
	d := NewError(UnresolvedSymbol, source.Span{File: 1, Start: 2, End: 5}, "unknown `foo`").
		WithNote(source.Span{File: 1}, "in this scope").
		WithSuggestion(Suggestion{Message: "did you mean `for`?", Confidence: 0.8, Replacement: "for"})
	b.Add(d)

	out := b.Clone()
	out[0].Notes[0].Message = "mutated"
	out[0].Suggestions[0].Replacement = "mutated"

	if b.Items()[0].Notes[0].Message != "in this scope" {
		t.Fatalf("clone shares notes with bag")
	}
	if b.Items()[0].Suggestions[0].Replacement != "for" {
		t.Fatalf("clone shares suggestions with bag")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(UnreachableCode, source.Span{File: 1, Start: 9, End: 10}, "late"))
	b.Add(NewError(TypeMismatch, source.Span{File: 1, Start: 3, End: 4}, "early"))
	b.Add(NewError(DuplicateDefinition, source.Span{File: 0, Start: 0, End: 1}, "first"))
	b.Sort()

	items := b.Items()
	if items[0].Code != DuplicateDefinition || items[1].Code != TypeMismatch || items[2].Code != UnreachableCode {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(TypeMismatch, source.Span{File: 1, Start: 1, End: 2}, "same")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("expected dedup to keep one, got %d", bag.Len())
	}
}
