package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one compilation. A positive limit caps the
// number of stored items; Merge is the only way past it.
type Bag struct {
	items []Diagnostic
	limit int
}

func NewBag(limit int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 0), 64)), limit: limit}
}

// Add сохраняет d и возвращает false, если лимит уже исчерпан.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) full() bool { return b.limit > 0 && len(b.items) >= b.limit }

func (b *Bag) Len() int { return len(b.items) }

// Items отдаёт внутренний срез; вызывающий не должен его менять.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) atLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) HasErrors() bool   { return b.atLeast(SevError) }
func (b *Bag) HasWarnings() bool { return b.atLeast(SevWarning) }

func (b *Bag) filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// ByCode returns diagnostics with the given code in insertion order.
func (b *Bag) ByCode(code Code) []Diagnostic {
	return b.filter(func(d Diagnostic) bool { return d.Code == code })
}

// Family returns diagnostics whose code shares family's thousands bucket.
func (b *Bag) Family(family Code) []Diagnostic {
	f := family.Family()
	return b.filter(func(d Diagnostic) bool { return d.Code.Family() == f })
}

// Merge appends everything from other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items))
	}
}

// Sort orders by file, start, end, then severity descending and code.
// Equal keys keep insertion order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Pointers returns addresses of the stored items for formatters that take []*Diagnostic.
func (b *Bag) Pointers() []*Diagnostic {
	out := make([]*Diagnostic, len(b.items))
	for i := range b.items {
		out[i] = &b.items[i]
	}
	return out
}
