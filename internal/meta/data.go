package meta

import (
	"stylc/internal/cssast"
	"stylc/internal/selector"
)

// MixinRef is one entry of a -st-mixin / -st-partial-mixin declaration.
type MixinRef struct {
	Name string
	// Overrides are "name value" pairs passed in parentheses; they replace
	// :vars of the mixin's stylesheet while it is applied.
	Overrides []VarOverride
	Decl      cssast.NodeID
	Partial   bool
}

type VarOverride struct {
	Name  string
	Value string
}

// CustomSelector is an @custom-selector definition.
type CustomSelector struct {
	Name string
	List selector.List
	Node cssast.NodeID
	// Expanded is set once nested custom selectors were substituted.
	Expanded bool
}

// Data is the per-feature analysis state. Each feature owns its fields.
type Data struct {
	// st-namespace: every valid declared namespace, in order; the last wins.
	Namespaces []string

	// custom-selector
	CustomSelectors map[string]*CustomSelector

	// st-mixin: rule -> mixins in declaration order.
	Mixins map[cssast.NodeID][]MixinRef

	// css-custom-property: @property / st-global-custom-property nodes by name.
	Properties map[string]cssast.NodeID

	// st-scope: rule -> scope selector text of the closest @st-scope.
	ScopedRules map[cssast.NodeID]string

	// st-var: :vars rules, removed by the transformer.
	VarRules []cssast.NodeID

	// st-import: :import rules and @st-import at-rules.
	ImportNodes []cssast.NodeID

	// Directive nodes removed from the output tree.
	Removed map[cssast.NodeID]bool
}

func (d *Data) init() {
	d.CustomSelectors = make(map[string]*CustomSelector)
	d.Mixins = make(map[cssast.NodeID][]MixinRef)
	d.Properties = make(map[string]cssast.NodeID)
	d.ScopedRules = make(map[cssast.NodeID]string)
	d.Removed = make(map[cssast.NodeID]bool)
}

// Remove marks a directive node for removal from the output tree.
func (m *Meta) Remove(id cssast.NodeID) {
	m.Data.Removed[id] = true
}
