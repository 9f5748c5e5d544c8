package diag

import (
	"slices"

	"janus/internal/source"
)

// Note attaches secondary context to a diagnostic ("declared here", ...).
type Note struct {
	Span source.Span
	Message string
}

// Suggestion describes a possible correction. Confidence is in [0, 1];
// Replacement is optional and, when present, applies over Span.
type Suggestion struct {
	Message     string
	Confidence  float64
	Replacement string
	Span        source.Span
}

// Diagnostic is one finding produced by analysis. It is plain data: rendering
// lives in diagfmt, storage in Bag.
type Diagnostic struct {
	Severity    Severity
	Code        Code
	Message     string
	Primary     source.Span
	Secondary   []source.Span
	Suggestions []Suggestion
	Notes       []Note
}

// Clone deep-copies the diagnostic so it stays valid after the session that
// produced it is torn down.
func (d Diagnostic) Clone() Diagnostic {
	d.Secondary = slices.Clone(d.Secondary)
	d.Suggestions = slices.Clone(d.Suggestions)
	d.Notes = slices.Clone(d.Notes)
	return d
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Message: msg})
	return d
}

func (d Diagnostic) WithSecondary(sp source.Span) Diagnostic {
	d.Secondary = append(d.Secondary, sp)
	return d
}

func (d Diagnostic) WithSuggestion(s Suggestion) Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}
