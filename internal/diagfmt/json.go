package diagfmt

import (
	"encoding/json"
	"io"

	"janus/internal/diag"
	"janus/internal/source"
)

// LocationJSON is a span in machine-readable form.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary remark attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// SuggestionJSON is one ranked fix candidate.
type SuggestionJSON struct {
	Message     string  `json:"message"`
	Replacement string  `json:"replacement,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// DiagnosticJSON is the wire form of a single diagnostic.
type DiagnosticJSON struct {
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Message     string           `json:"message"`
	Location    LocationJSON     `json:"location"`
	Notes       []NoteJSON       `json:"notes,omitempty"`
	Suggestions []SuggestionJSON `json:"suggestions,omitempty"`
}

// Output is the root of the JSON report.
type Output struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON writes the diagnostics as one indented JSON document.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	out := Output{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for i := range items {
		d := &items[i]
		switch {
		case d.Severity >= diag.SevError:
			out.Errors++
		case d.Severity == diag.SevWarning:
			out.Warnings++
		}
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			out.Truncated = true
			continue
		}
		out.Diagnostics = append(out.Diagnostics, toJSON(d, fs, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(d *diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: severityName(d.Severity),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: locationJSON(fs, d.Primary, opts),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message:  n.Message,
				Location: locationJSON(fs, n.Span, opts),
			})
		}
	}
	if opts.IncludeSuggestions {
		for _, s := range d.Suggestions {
			dj.Suggestions = append(dj.Suggestions, SuggestionJSON{
				Message:     s.Message,
				Replacement: s.Replacement,
				Confidence:  s.Confidence,
			})
		}
	}
	return dj
}

func severityName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	case diag.SevInfo:
		return "info"
	default:
		return "hint"
	}
}

func locationJSON(fs *source.FileSet, sp source.Span, opts JSONOpts) LocationJSON {
	loc := LocationJSON{StartByte: sp.Start, EndByte: sp.End}
	if fs == nil || sp.File == source.NoFileID {
		return loc
	}
	f := fs.Get(sp.File)
	if f == nil {
		return loc
	}
	loc.File = displayPath(f.Path, opts.PathMode)
	if opts.IncludePositions {
		start, end := fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
