package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"janus/internal/diag"
	"janus/internal/source"
)

var (
	errColor    = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow, color.Bold)
	infoColor   = color.New(color.FgCyan)
	noteColor   = color.New(color.FgBlue)
	caretColor  = color.New(color.FgRed)
	codeColor   = color.New(color.Faint)
	gutterColor = color.New(color.FgBlue)
)

// Pretty renders diagnostics one per block:
//
//	<path>:<line>:<col>: <severity> <code>: <message>
//	   12 | let x = foo()
//	      |         ^~~~~
//	note: ...
//
// The caller is expected to have sorted the input. Color is applied only
// when opts.Color is set, regardless of the global color state.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	for i := range items {
		prettyOne(w, &items[i], fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		severityLabel(d.Severity, opts.Color),
		paint(opts.Color, codeColor, d.Code.ID()),
		d.Message)
	if opts.ShowSource {
		writeExcerpt(w, fs, d.Primary, opts.Color)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			if n.Span.Empty() && n.Span.File == source.NoFileID {
				fmt.Fprintf(w, "  %s: %s\n", paint(opts.Color, noteColor, "note"), n.Message)
				continue
			}
			fmt.Fprintf(w, "  %s: %s: %s\n",
				location(fs, n.Span, opts.PathMode),
				paint(opts.Color, noteColor, "note"), n.Message)
			if opts.ShowSource {
				writeExcerpt(w, fs, n.Span, opts.Color)
			}
		}
	}
	if opts.ShowSuggestions {
		for _, sug := range d.Suggestions {
			fmt.Fprintf(w, "  %s: %s (confidence %.0f%%)\n",
				paint(opts.Color, infoColor, "help"), sug.Message, sug.Confidence*100)
		}
	}
}

func severityLabel(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		return paint(colored, errColor, "error")
	case diag.SevWarning:
		return paint(colored, warnColor, "warning")
	case diag.SevInfo:
		return paint(colored, infoColor, "info")
	default:
		return paint(colored, noteColor, "hint")
	}
}

func paint(colored bool, c *color.Color, s string) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil || sp.File == source.NoFileID {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	pos := fs.Position(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(f.Path, mode), pos.Line, pos.Col)
}

func displayPath(path string, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		if wd, err := filepath.Abs("."); err == nil {
			if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
				return rel
			}
		}
		return path
	default:
		return path
	}
}

// writeExcerpt prints the source line containing the span start with a
// caret underline sized in display cells, so wide runes stay aligned.
func writeExcerpt(w io.Writer, fs *source.FileSet, sp source.Span, colored bool) {
	if fs == nil || sp.File == source.NoFileID {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || int(sp.Start) > len(f.Content) {
		return
	}
	lineStart := int(sp.Start)
	for lineStart > 0 && f.Content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := int(sp.Start)
	for lineEnd < len(f.Content) && f.Content[lineEnd] != '\n' {
		lineEnd++
	}
	line := string(f.Content[lineStart:lineEnd])
	pos := fs.Position(sp)

	gutter := fmt.Sprintf("%5d", pos.Line)
	fmt.Fprintf(w, "  %s | %s\n", paint(colored, gutterColor, gutter), line)

	prefix := string(f.Content[lineStart:sp.Start])
	pad := runewidth.StringWidth(prefix)
	end := int(sp.End)
	if end > lineEnd {
		end = lineEnd
	}
	marked := runewidth.StringWidth(string(f.Content[sp.Start:end]))
	if marked < 1 {
		marked = 1
	}
	caret := "^" + strings.Repeat("~", marked-1)
	fmt.Fprintf(w, "  %s | %s%s\n",
		paint(colored, gutterColor, "     "),
		strings.Repeat(" ", pad),
		paint(colored, caretColor, caret))
}
