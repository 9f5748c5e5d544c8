package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("value")
	b := in.Intern("value")
	if a != b {
		t.Fatalf("expected same ID for same string, got %v and %v", a, b)
	}
	if got := in.MustLookup(a); got != "value" {
		t.Fatalf("lookup mismatch: %q", got)
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string must map to NoStringID, got %v", id)
	}
	if in.Len() != 1 {
		t.Fatalf("fresh interner must hold only the empty string")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.jn", []byte("let x = 1\nlet y = 2\n"))

	start, _ := fs.Resolve(Span{File: id, Start: 0, End: 3})
	if start.Line != 1 || start.Col != 1 {
		t.Fatalf("expected 1:1, got %v", start)
	}

	start, _ = fs.Resolve(Span{File: id, Start: 14, End: 15})
	if start.Line != 2 || start.Col != 5 {
		t.Fatalf("expected 2:5, got %v", start)
	}
}

func TestFileSetNormalizesCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb"))
	if !changed || string(got) != "a\nb" {
		t.Fatalf("CRLF not normalized: %q", got)
	}
	got, changed = normalizeCRLF([]byte("a\rb"))
	if changed || string(got) != "a\rb" {
		t.Fatalf("lone CR must survive: %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 9}
	b := Span{File: 1, Start: 2, End: 7}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 9 {
		t.Fatalf("cover mismatch: %v", c)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file cover must be a no-op")
	}
}

func TestFileSetOffsetInvertsPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("demo.jn", []byte("let a = 1\nlet bb = 2\n"))

	for _, off := range []uint32{0, 4, 8, 10, 14, 19} {
		pos := fs.Position(Span{File: id, Start: off, End: off + 1})
		got, ok := fs.Offset(id, pos)
		if !ok || got != off {
			t.Fatalf("offset %d round-tripped to (%d, %v) via %v", off, got, ok, pos)
		}
	}

	if _, ok := fs.Offset(id, LineCol{Line: 99, Col: 1}); ok {
		t.Fatalf("line past the end must not resolve")
	}
	if _, ok := fs.Offset(NoFileID, LineCol{Line: 1, Col: 1}); ok {
		t.Fatalf("unknown file must not resolve")
	}
}
