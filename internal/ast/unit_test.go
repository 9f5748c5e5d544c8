package ast

import (
	"bytes"
	"testing"

	"janus/internal/source"
)

func buildSmallUnit(strings *source.Interner) *Unit {
	b := NewBuilder(1, 0, strings)
	nameTok := b.AddToken(TokIdent, "x", source.Span{Start: 4, End: 5})
	litTok := b.AddToken(TokIntLit, "1", source.Span{Start: 8, End: 9})
	lit := b.AddNode(NodeIntLit, 0, litTok, litTok, litTok)
	let := b.AddNode(NodeLet, 0, nameTok, nameTok, litTok, NoNodeID, lit)
	root := b.AddNode(NodeUnit, 0, NoTokenID, nameTok, litTok, let)
	return b.Finish(root)
}

func TestUnitAccessors(t *testing.T) {
	strings := source.NewInterner()
	u := buildSmallUnit(strings)

	if u.NumNodes() != 3 || u.NumTokens() != 2 {
		t.Fatalf("unexpected arena sizes: %d nodes, %d tokens", u.NumNodes(), u.NumTokens())
	}
	root := u.Node(u.Root)
	if root == nil || root.Kind != NodeUnit {
		t.Fatalf("bad root")
	}
	let := u.Child(u.Root, 0)
	kids := u.Children(let)
	if len(kids) != 2 || kids[0] != NoNodeID || !kids[1].IsValid() {
		t.Fatalf("let children mismatch: %v", kids)
	}
	if name, _ := strings.Lookup(u.Token(u.Node(let).Token).Text); name != "x" {
		t.Fatalf("let name not interned: %q", name)
	}
	if sp := u.Span(let); sp.Start != 4 || sp.End != 9 {
		t.Fatalf("let span mismatch: %v", sp)
	}
}

func TestUnitSentinelAccess(t *testing.T) {
	strings := source.NewInterner()
	u := buildSmallUnit(strings)
	if u.Node(NoNodeID) != nil {
		t.Fatalf("sentinel node must resolve to nil")
	}
	if u.Token(NoTokenID) != nil {
		t.Fatalf("sentinel token must resolve to nil")
	}
	if u.Child(u.Root, 5) != NoNodeID {
		t.Fatalf("out-of-range child must be NoNodeID")
	}
}

func TestUnitFileRoundTrip(t *testing.T) {
	strings := source.NewInterner()
	u := buildSmallUnit(strings)
	fs := source.NewFileSet()
	file := &source.File{Path: "demo.jn", Content: []byte("let x = 1")}

	var buf bytes.Buffer
	if err := EncodeUnit(&buf, u, file, strings); err != nil {
		t.Fatalf("encode: %v", err)
	}

	freshStrings := source.NewInterner()
	got, err := DecodeUnit(&buf, 7, fs, freshStrings)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unit id not assigned: %d", got.ID)
	}
	if got.NumNodes() != u.NumNodes() || got.NumTokens() != u.NumTokens() {
		t.Fatalf("arena sizes changed across round trip")
	}
	let := got.Child(got.Root, 0)
	name, _ := freshStrings.Lookup(got.Token(got.Node(let).Token).Text)
	if name != "x" {
		t.Fatalf("token text lost in round trip: %q", name)
	}
	f := fs.Get(got.File)
	if f == nil || f.Path != "demo.jn" {
		t.Fatalf("decoded unit file not registered")
	}
}
