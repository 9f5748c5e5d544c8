package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"janus/internal/diag"
	"janus/internal/source"
)

func fixture() ([]diag.Diagnostic, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.jn", []byte("let x = nope\nlet y = 2\n"))
	d := diag.NewError(diag.UnresolvedSymbol, source.Span{File: id, Start: 8, End: 12},
		"cannot find `nope` in this scope").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "while checking this binding").
		WithSuggestion(diag.Suggestion{Message: "did you mean `none`?", Replacement: "none", Confidence: 0.8})
	w := diag.NewWarning(diag.UnreachableCode, source.Span{File: id, Start: 13, End: 22}, "unreachable code")
	return []diag.Diagnostic{d, w}, fs
}

func TestPrettyPlain(t *testing.T) {
	items, fs := fixture()
	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{ShowNotes: true, ShowSuggestions: true, ShowSource: true})
	out := buf.String()

	for _, want := range []string{
		"demo.jn:1:9",
		"error JN3002",
		"cannot find `nope`",
		"note: while checking this binding",
		"help: did you mean `none`? (confidence 80%)",
		"let x = nope",
		"^~~~",
		"warning JN4002",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output must not contain escape sequences")
	}
}

func TestPrettyCaretAlignment(t *testing.T) {
	items, fs := fixture()
	var buf bytes.Buffer
	Pretty(&buf, items[:1], fs, PrettyOpts{ShowSource: true})
	lines := strings.Split(buf.String(), "\n")
	var src, caret string
	for i, l := range lines {
		if strings.Contains(l, "let x = nope") && i+1 < len(lines) {
			src, caret = l, lines[i+1]
		}
	}
	if src == "" {
		t.Fatalf("no source excerpt:\n%s", buf.String())
	}
	if strings.Index(src, "nope") != strings.Index(caret, "^") {
		t.Errorf("caret misaligned:\n%s\n%s", src, caret)
	}
}

func TestPrettyBasenameMode(t *testing.T) {
	items, fs := fixture()
	var buf bytes.Buffer
	Pretty(&buf, items, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "demo.jn:") {
		t.Errorf("expected basename path:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	items, fs := fixture()
	var buf bytes.Buffer
	err := JSON(&buf, items, fs, JSONOpts{
		IncludePositions:   true,
		IncludeNotes:       true,
		IncludeSuggestions: true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Errors != 1 || out.Warnings != 1 {
		t.Errorf("counts: errors=%d warnings=%d", out.Errors, out.Warnings)
	}
	if len(out.Diagnostics) != 2 {
		t.Fatalf("diagnostics: %d", len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Code != "JN3002" || first.Severity != "error" {
		t.Errorf("first = %+v", first)
	}
	if first.Location.StartLine != 1 || first.Location.StartCol != 9 {
		t.Errorf("position = %+v", first.Location)
	}
	if len(first.Notes) != 1 || len(first.Suggestions) != 1 {
		t.Errorf("notes=%d suggestions=%d", len(first.Notes), len(first.Suggestions))
	}
}

func TestJSONTruncation(t *testing.T) {
	items, fs := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, items, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Diagnostics) != 1 || !out.Truncated {
		t.Errorf("want 1 truncated diagnostic, got %d truncated=%v", len(out.Diagnostics), out.Truncated)
	}
	// truncation only trims output; totals still cover everything
	if out.Errors != 1 || out.Warnings != 1 {
		t.Errorf("counts after truncation: errors=%d warnings=%d", out.Errors, out.Warnings)
	}
}
