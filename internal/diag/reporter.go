package diag

import "stylc/internal/source"

// Reporter принимает диагностики от парсера, фич и драйвера.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter пишет в *Bag; nil Bag отбрасывает всё.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// ReportBuilder collects notes and the node binding of one diagnostic and
// sends it to its Reporter once.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func report(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, msg)
	return b
}

// At binds the node handle and word, see Diagnostic.At.
func (b *ReportBuilder) At(node uint32, word string) *ReportBuilder {
	b.d = b.d.At(node, word)
	return b
}

// Emit is a no-op after the first call.
func (b *ReportBuilder) Emit() {
	if b.sent || b.to == nil {
		return
	}
	b.sent = true
	b.to.Report(b.d)
}
