package diag

import "stylc/internal/source"

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	word string
	msg  string
}

// DedupReporter forwards each distinct diagnostic once. Shared selectors
// (custom selectors, mixins, extends chains) are revisited by the
// transformer and would report the same unresolved reference repeatedly.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{code: d.Code, sev: d.Severity, span: d.Primary, word: d.Word, msg: d.Message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
