package fingerprint

import (
	"strings"

	"github.com/RetroMaximus/crudehelpgen/internal/pydoc"
)

// CanonicalSignature renders a parameter list as a canonical string that is
// identical for two lists differing only in source formatting and different
// whenever order, kind, name, annotation, or default value differ.
//
// Order: positionals, *args, bare '*' plus keyword-onlys, **kwargs.
func CanonicalSignature(params []pydoc.Param) string {
	var (
		positionals []string
		varPos      string
		keywordOnly []string
		varKeyword  string
	)

	for _, p := range params {
		switch p.Kind {
		case pydoc.ParamPositional:
			positionals = append(positionals, formatParam(p, ""))
		case pydoc.ParamVarPositional:
			varPos = formatParam(p, "*")
		case pydoc.ParamKeywordOnly:
			keywordOnly = append(keywordOnly, formatParam(p, ""))
		case pydoc.ParamVarKeyword:
			varKeyword = formatParam(p, "**")
		}
	}

	var parts []string
	parts = append(parts, positionals...)
	if varPos != "" {
		parts = append(parts, varPos)
	} else if len(keywordOnly) > 0 {
		parts = append(parts, "*")
	}
	parts = append(parts, keywordOnly...)
	if varKeyword != "" {
		parts = append(parts, varKeyword)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// FullSignature is the canonical signature plus the structural dumps of the
// raw default-value expressions. Two defaults that render identically but
// differ in internal structure are still told apart.
func FullSignature(params []pydoc.Param) string {
	sig := CanonicalSignature(params)

	var defaults, kwDefaults []string
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		if p.Kind == pydoc.ParamKeywordOnly {
			kwDefaults = append(kwDefaults, p.Default.Dump)
		} else {
			defaults = append(defaults, p.Default.Dump)
		}
	}

	if len(defaults) > 0 {
		sig += " defaults=[" + strings.Join(defaults, ", ") + "]"
	}
	if len(kwDefaults) > 0 {
		sig += " kw_defaults=[" + strings.Join(kwDefaults, ", ") + "]"
	}

	return sig
}

// formatParam renders one parameter as `name: type` or `name: type = default`.
func formatParam(p pydoc.Param, prefix string) string {
	annotation := p.Annotation
	if annotation == "" {
		annotation = pydoc.AnySentinel
	}
	s := prefix + p.Name + ": " + annotation
	if p.Default != nil {
		s += " = " + p.Default.Rendered
	}
	return s
}
