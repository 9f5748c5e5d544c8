package diag

import "janus/internal/source"

// Reporter is the minimal contract phases use to emit diagnostics without
// coupling to storage. Implementations: BagReporter, DedupReporter,
// NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores every reported diagnostic in a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards everything; useful for probes that only need a verdict.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// ReportBuilder accumulates details before emitting exactly once.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) WithSecondary(sp source.Span) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithSecondary(sp)
	return b
}

func (b *ReportBuilder) WithSuggestion(s Suggestion) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithSuggestion(s)
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated record without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
