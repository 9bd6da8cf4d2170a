package symbols

import (
	"strings"

	"stylc/internal/cssast"
)

// Kind classifies what a local name is bound to.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindElement
	KindImport
	KindVar
	KindCSSVar
	KindKeyframes
	KindLayer
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindElement:
		return "element"
	case KindImport:
		return "import"
	case KindVar:
		return "var"
	case KindCSSVar:
		return "cssVar"
	case KindKeyframes:
		return "keyframes"
	case KindLayer:
		return "layer"
	case KindContainer:
		return "container"
	default:
		return "invalid"
	}
}

// Namespace is the bucket a kind lives in. Keyframes, layers and containers
// do not collide with class or var names.
type Namespace uint8

const (
	NSMain Namespace = iota
	NSKeyframes
	NSLayer
	NSContainer
	nsCount
)

func (k Kind) Namespace() Namespace {
	switch k {
	case KindKeyframes:
		return NSKeyframes
	case KindLayer:
		return NSLayer
	case KindContainer:
		return NSContainer
	default:
		return NSMain
	}
}

func (ns Namespace) String() string {
	switch ns {
	case NSKeyframes:
		return "keyframes"
	case NSLayer:
		return "layer"
	case NSContainer:
		return "container"
	default:
		return "main"
	}
}

// ImportType tells whether an import symbol binds the default export or a named one.
type ImportType uint8

const (
	ImportNamed ImportType = iota
	ImportDefault
)

// State is a custom pseudo-state declared with -st-states.
type State struct {
	Name string
	// Param is the parameter type ("string", "number", "enum", "tag");
	// empty for boolean states.
	Param string
	// Options holds the enum values or string validators.
	Options []string
	Default string
	// Mapped is the literal selector for states written as name(".sel").
	Mapped string
}

// Symbol is a tagged union over Kind. Fields that do not apply to a kind stay zero.
type Symbol struct {
	Kind Kind
	Name string
	Node cssast.NodeID

	// class / element
	Extends        *Symbol
	Alias          *Symbol
	IsRoot         bool
	GlobalSelector string
	States         []State

	// import
	Import     *Imported
	ImportType ImportType

	// var / cssVar / keyframes / layer / container
	Global bool
	Value  string
}

// State returns the named pseudo-state declared on the symbol.
func (s *Symbol) State(name string) (State, bool) {
	if s == nil {
		return State{}, false
	}
	for _, st := range s.States {
		if st.Name == name {
			return st, true
		}
	}
	return State{}, false
}

// IsImport reports whether the symbol is an import binding or aliases one.
func (s *Symbol) IsImport() bool {
	if s == nil {
		return false
	}
	return s.Kind == KindImport || s.Alias != nil
}

// ImportOf returns the import symbol behind s, or nil.
func (s *Symbol) ImportOf() *Symbol {
	switch {
	case s == nil:
		return nil
	case s.Kind == KindImport:
		return s
	case s.Alias != nil && s.Alias.Kind == KindImport:
		return s.Alias
	}
	return nil
}

// NewImport builds the import symbol for local bound by imp.
func NewImport(imp *Imported, typ ImportType, origin string) *Symbol {
	return &Symbol{Kind: KindImport, Name: origin, Import: imp, ImportType: typ}
}

// Binding maps a local alias to the origin name in the imported sheet.
type Binding struct {
	Local  string
	Origin string
}

// Bindings is an insertion-ordered local -> origin map.
type Bindings []Binding

func (b Bindings) Get(local string) (string, bool) {
	for _, it := range b {
		if it.Local == local {
			return it.Origin, true
		}
	}
	return "", false
}

// Set binds local to origin. An existing binding to a different origin is
// kept and reported as a conflict.
func (b *Bindings) Set(local, origin string) (prev string, conflict bool) {
	if cur, ok := b.Get(local); ok {
		return cur, cur != origin
	}
	*b = append(*b, Binding{Local: local, Origin: origin})
	return "", false
}

// Imported is one import statement, from either :import or @st-import.
type Imported struct {
	Request       string
	From          string
	Context       string
	DefaultExport string
	Named         Bindings
	Keyframes     Bindings
	Layers        Bindings
	Containers    Bindings
	Node          cssast.NodeID
}

// IsPackageRequest reports whether the request is a bare module specifier
// rather than a relative or absolute path.
func (imp *Imported) IsPackageRequest() bool {
	r := imp.Request
	return r != "" && !strings.HasPrefix(r, ".") && !strings.HasPrefix(r, "/")
}

// Typed returns the typed binding list for kind, or nil when kind has none.
func (imp *Imported) Typed(kind Kind) *Bindings {
	switch kind {
	case KindKeyframes:
		return &imp.Keyframes
	case KindLayer:
		return &imp.Layers
	case KindContainer:
		return &imp.Containers
	}
	return nil
}
