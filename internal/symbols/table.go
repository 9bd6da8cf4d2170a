package symbols

// Table holds the symbols of one stylesheet, one bucket per Namespace.
// Names keep the order of their first declaration.
type Table struct {
	buckets [nsCount]map[string]*Symbol
	order   [nsCount][]string
}

func NewTable() *Table {
	t := &Table{}
	for i := range t.buckets {
		t.buckets[i] = make(map[string]*Symbol)
	}
	return t
}

// Add stores sym under name in the bucket of its kind and returns the symbol
// it replaced, if any.
func (t *Table) Add(name string, sym *Symbol) *Symbol {
	ns := sym.Kind.Namespace()
	prev, ok := t.buckets[ns][name]
	if !ok {
		t.order[ns] = append(t.order[ns], name)
	}
	t.buckets[ns][name] = sym
	return prev
}

func (t *Table) Get(ns Namespace, name string) *Symbol {
	if t == nil || ns >= nsCount {
		return nil
	}
	return t.buckets[ns][name]
}

// Lookup is Get on the main bucket.
func (t *Table) Lookup(name string) *Symbol {
	return t.Get(NSMain, name)
}

// Names lists the names of one bucket in declaration order.
func (t *Table) Names(ns Namespace) []string {
	if ns >= nsCount {
		return nil
	}
	return append([]string(nil), t.order[ns]...)
}

// AllByKind returns name -> symbol for every symbol of kind, keeping the
// declaration order in the returned name slice.
func (t *Table) AllByKind(kind Kind) ([]string, map[string]*Symbol) {
	ns := kind.Namespace()
	out := make(map[string]*Symbol)
	var names []string
	for _, name := range t.order[ns] {
		if sym := t.buckets[ns][name]; sym.Kind == kind {
			names = append(names, name)
			out[name] = sym
		}
	}
	return names, out
}

// Len counts symbols across all buckets.
func (t *Table) Len() int {
	n := 0
	for _, b := range t.buckets {
		n += len(b)
	}
	return n
}
