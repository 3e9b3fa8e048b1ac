package pydoc

// DeclKind identifies what a declaration is. The set is closed: everything
// the parser surfaces is a class, a function, or an opaque "other" node.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclFunction
	DeclOther
)

// ParamKind identifies how a parameter binds at call sites.
type ParamKind int

const (
	ParamPositional ParamKind = iota
	ParamVarPositional
	ParamKeywordOnly
	ParamVarKeyword
)

// AnySentinel is the annotation used when a parameter has no type annotation.
const AnySentinel = "Any"

// OpaquePlaceholder replaces default values that cannot be rendered safely.
const OpaquePlaceholder = "..."

// DefaultValue is the total result of serializing a default-value expression.
// Rendered holds the canonical text; when the expression cannot be rendered
// safely, Opaque is true and Rendered holds OpaquePlaceholder. Dump always
// holds the structural dump of the raw expression.
type DefaultValue struct {
	Rendered string
	Dump     string
	Opaque   bool
}

// Param describes a single parameter of a callable declaration.
type Param struct {
	Name       string
	Kind       ParamKind
	Annotation string // AnySentinel when the source has no annotation
	Default    *DefaultValue
}

// Declaration is a named unit extracted from a Python module: a class
// (with ordered members), a function/method, or an opaque fallback node.
type Declaration struct {
	Kind       DeclKind
	Name       string
	Doc        string   // cleaned docstring, empty when absent
	Decorators []string // structural dumps, in source order
	Bases      []string // structural dumps of superclass expressions (classes only)
	Params     []Param  // functions only
	Members    []*Declaration // direct members in source order (classes only)
	Raw        string   // structural dump, set for DeclOther
}

// Module is the ordered top-level declaration sequence of one source file.
type Module struct {
	Path  string
	Decls []*Declaration
}

// HasDefault reports whether the parameter carries a default value.
func (p Param) HasDefault() bool {
	return p.Default != nil
}

// Functions returns the direct function members of a class declaration,
// in source order. Nested classes are not descended into.
func (d *Declaration) Functions() []*Declaration {
	funcs := make([]*Declaration, 0, len(d.Members))
	for _, m := range d.Members {
		if m.Kind == DeclFunction {
			funcs = append(funcs, m)
		}
	}
	return funcs
}
